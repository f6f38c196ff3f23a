package repositories

import (
	"errors"
	"fmt"

	"hampr/internal/models"
)

var (
	// ErrOrderNotFound is returned when no order exists with the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict is returned by UpdateStatus when the order exists but
	// its current status no longer matches the expected one. This is how a
	// lost-update between two concurrent transitions surfaces.
	ErrStatusConflict = errors.New("order status precondition failed")
	// ErrInvalidOrder is returned by Insert for a record missing required
	// fields or payment proof.
	ErrInvalidOrder = errors.New("invalid order")
)

// OrderFilter narrows administrative order listings.
type OrderFilter struct {
	Status models.OrderStatus // empty matches any status
	Search string             // case-insensitive substring over name/email/phone
}

// OrderPage is one page of an order listing plus the unpaged total.
type OrderPage struct {
	Orders   []models.Order `json:"orders"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// OrderRepository defines the interface for order data access.
//
// UpdateStatus is a compare-and-swap: the write only lands if the order's
// current status equals from at write time, so two concurrent transitions
// from the same state can never both win.
type OrderRepository interface {
	Insert(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	UpdateStatus(id uint, from, to models.OrderStatus) error
	List(filter OrderFilter, page, pageSize int) (*OrderPage, error)
	ListForCustomer(userID string, page, pageSize int) (*OrderPage, error)
}

// validateOrder enforces the insert preconditions shared by all
// implementations: customer snapshot fields, at least one line item, and
// either a gateway payment pair or an explicit pay-at-pickup designation.
func validateOrder(order *models.Order) error {
	if order.Name == "" || order.Phone == "" || order.Address == "" {
		return fmt.Errorf("%w: name, phone and address are required", ErrInvalidOrder)
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidOrder)
	}
	if order.PaymentStatus != models.PaymentAtPickup && !order.HasPaymentProof() {
		return fmt.Errorf("%w: gateway payment proof is required unless paying at pickup", ErrInvalidOrder)
	}
	return nil
}

// finalizeOrder computes derived totals when the caller left them zero and
// pins the initial status. CreatedAt is stamped by the implementation.
func finalizeOrder(order *models.Order) {
	if order.ItemCount == 0 {
		for _, item := range order.Items {
			order.ItemCount += item.Quantity
		}
	}
	if order.Total == 0 {
		for _, item := range order.Items {
			order.Total += item.UnitPrice * int64(item.Quantity)
		}
	}
	order.Status = models.StatusPending
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
