package models

import "time"

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition may leave this state.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Payment status labels. A gateway-settled order carries "paid"; a
// pay-at-pickup order is settled in person and carries no gateway linkage.
const (
	PaymentPaid     = "paid"
	PaymentAtPickup = "pay-at-pickup"
)

// OrderItem is one line of the cart snapshot frozen into an order.
// It is decoupled from the live catalog: later product edits or deletions
// never change what a historical order shows.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice int64  `json:"unit_price"` // whole rupees; variation price when one was selected
	Quantity  int    `json:"quantity"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Order is the durable record of a purchase. The customer snapshot and the
// line-item snapshot are immutable once persisted; only Status changes over
// the order's lifetime.
type Order struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	Name    string  `json:"name" gorm:"type:varchar(100)"`
	Phone   string  `json:"phone" gorm:"type:varchar(20)"`
	Address string  `json:"address"`
	Email   string  `json:"email,omitempty" gorm:"type:varchar(255)"`
	UserID  *string `json:"user_id,omitempty" gorm:"type:varchar(64);index"`

	Items     []OrderItem `json:"items" gorm:"serializer:json"`
	ItemCount int         `json:"item_count"`
	Total     int64       `json:"total"` // net of any coupon discount

	Status        OrderStatus `json:"status" gorm:"type:varchar(20);index"`
	PaymentStatus string      `json:"payment_status" gorm:"type:varchar(20)"`

	RazorpayOrderID   string `json:"razorpay_order_id,omitempty" gorm:"type:varchar(64);index"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty" gorm:"type:varchar(64)"`

	IsDelivery bool      `json:"is_delivery"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasPaymentProof reports whether the order carries a gateway order/payment pair.
func (o *Order) HasPaymentProof() bool {
	return o.RazorpayOrderID != "" && o.RazorpayPaymentID != ""
}
