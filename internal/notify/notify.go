// Package notify dispatches order notifications. Delivery is best effort,
// at most once: callers log a failed Send and move on, never rolling back
// the state change that triggered it.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hampr/internal/models"
)

// Kind names the notification matched to an order event.
type Kind string

const (
	// KindNewOrder goes to the operator when a checkout completes.
	KindNewOrder Kind = "new-order"
	// KindAccepted goes to the customer when an admin starts processing.
	KindAccepted Kind = "accepted"
	// KindDelivered goes to the customer when the order completes.
	KindDelivered Kind = "delivered"
	// KindCancelled goes to the customer when an admin cancels.
	KindCancelled Kind = "cancelled"
	// KindCustomerCancelled goes to the operator when the customer cancels
	// their own order; the customer already knows.
	KindCustomerCancelled Kind = "customer-cancelled"
)

// Dispatcher sends one notification for an order event.
type Dispatcher interface {
	Send(kind Kind, order *models.Order) error
}

// Envelope is the JSON message placed on the notification queue for the
// mail worker to render and send.
type Envelope struct {
	Kind     Kind      `json:"kind"`
	OrderID  uint      `json:"order_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone"`
	Total    int64     `json:"total"`
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// Publisher is the transport the queue dispatcher writes to. Satisfied by
// *rabbitmq.Client.
type Publisher interface {
	PublishNotification(body []byte) error
}

// QueueDispatcher publishes notification envelopes to a message queue.
type QueueDispatcher struct {
	publisher Publisher
}

// NewQueueDispatcher creates a dispatcher backed by the given publisher.
func NewQueueDispatcher(publisher Publisher) *QueueDispatcher {
	return &QueueDispatcher{
		publisher: publisher,
	}
}

// Send marshals the envelope and publishes it.
func (d *QueueDispatcher) Send(kind Kind, order *models.Order) error {
	env := Envelope{
		Kind:     kind,
		OrderID:  order.ID,
		Name:     order.Name,
		Email:    order.Email,
		Phone:    order.Phone,
		Total:    order.Total,
		Status:   order.Status.String(),
		QueuedAt: time.Now(),
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}
	if err := d.publisher.PublishNotification(body); err != nil {
		return fmt.Errorf("failed to publish %s notification for order %d: %w", kind, order.ID, err)
	}
	return nil
}

// NopDispatcher logs and drops notifications. Used when no broker is
// configured (dev, tests).
type NopDispatcher struct{}

// Send logs the would-be notification and succeeds.
func (NopDispatcher) Send(kind Kind, order *models.Order) error {
	log.Printf("notification (%s) for order %d dropped: no dispatcher configured", kind, order.ID)
	return nil
}
