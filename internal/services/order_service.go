package services

import (
	"errors"
	"fmt"
	"log"

	"hampr/internal/models"
	"hampr/internal/notify"
	"hampr/internal/repositories"
)

var (
	// ErrIllegalTransition is returned for a status change outside the
	// transition table. Distinct from a not-found order and never silently
	// coerced to the nearest legal state.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrNotOwner is returned when a customer acts on an order that is not
	// theirs. Checked before the state precondition.
	ErrNotOwner = errors.New("order does not belong to the requester")
)

// adminTransitions is the lifecycle an administrator may drive:
// pending -> processing | cancelled, processing -> completed | cancelled.
// completed and cancelled are terminal. Customers may only cancel their own
// pending orders, handled separately in CancelOwn.
var adminTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing: {models.StatusCompleted, models.StatusCancelled},
}

// transitionNotice maps each admin-driven target state to the customer
// notification it fires.
var transitionNotice = map[models.OrderStatus]notify.Kind{
	models.StatusProcessing: notify.KindAccepted,
	models.StatusCompleted:  notify.KindDelivered,
	models.StatusCancelled:  notify.KindCancelled,
}

// OrderService governs the order lifecycle after checkout: legal status
// transitions and the notification fired on each one.
type OrderService struct {
	orders     repositories.OrderRepository
	dispatcher notify.Dispatcher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, dispatcher notify.Dispatcher) *OrderService {
	return &OrderService{
		orders:     orders,
		dispatcher: dispatcher,
	}
}

// GetOrder retrieves a single order, unscoped. Admin read path.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	return s.orders.GetByID(id)
}

// GetOrderForCustomer retrieves an order only if it belongs to the requester.
func (s *OrderService) GetOrderForCustomer(id uint, userID string) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}
	return order, nil
}

// ListOrders returns a filtered, paged listing. Admin read path.
func (s *OrderService) ListOrders(filter repositories.OrderFilter, page, pageSize int) (*repositories.OrderPage, error) {
	return s.orders.List(filter, page, pageSize)
}

// ListCustomerOrders returns a page of the requester's own orders.
func (s *OrderService) ListCustomerOrders(userID string, page, pageSize int) (*repositories.OrderPage, error) {
	return s.orders.ListForCustomer(userID, page, pageSize)
}

// UpdateStatus performs an administrator-driven transition. Legality is
// decided against the order's current status, then enforced again at write
// time by the repository's compare-and-swap, so a concurrent transition
// surfaces as ErrStatusConflict rather than a silent lost update.
func (s *OrderService) UpdateStatus(id uint, to models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !transitionAllowed(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	if err := s.orders.UpdateStatus(id, from, to); err != nil {
		return nil, err
	}
	order.Status = to

	s.sendNotice(transitionNotice[to], order)
	return order, nil
}

// CancelOwn is the one customer-driven transition: cancelling their own
// order while it is still pending. Ownership is proven first; the pending
// precondition is strict and re-checked at write time, so an admin moving
// the order to processing at the same moment wins or loses atomically.
func (s *OrderService) CancelOwn(id uint, userID string) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}
	if order.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: customer cancellation is only allowed while pending, order is %s", ErrIllegalTransition, order.Status)
	}

	if err := s.orders.UpdateStatus(id, models.StatusPending, models.StatusCancelled); err != nil {
		return nil, err
	}
	order.Status = models.StatusCancelled

	// The operator is told; the customer already knows.
	s.sendNotice(notify.KindCustomerCancelled, order)
	return order, nil
}

func (s *OrderService) sendNotice(kind notify.Kind, order *models.Order) {
	if err := s.dispatcher.Send(kind, order); err != nil {
		log.Printf("Warning: failed to send %s notification for order %d: %v", kind, order.ID, err)
	}
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, next := range adminTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
