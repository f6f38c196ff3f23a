package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"hampr/internal/models"
	"hampr/internal/notify"
	"hampr/internal/repositories"
	"hampr/pkg/razorpay"
)

var (
	// ErrInvalidForm is returned when the shipping form fails validation.
	// Checked locally, before any network call.
	ErrInvalidForm = errors.New("invalid checkout form")
	// ErrEmptyCart is returned when checkout is attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentNotVerified is returned when the callback signature does not
	// match. No order is created; this is logged as a potential integrity
	// concern since gateway popups can be spoofed.
	ErrPaymentNotVerified = errors.New("payment could not be verified")
	// ErrPickupFlagRequired is returned when a direct order is placed without
	// the explicit pay-at-pickup designation.
	ErrPickupFlagRequired = errors.New("pickup designation is required for orders without gateway payment")
)

// PaymentOrphanedError is the most severe checkout failure: the payment
// settled at the gateway but the order record could not be written. Callers
// must surface it as "do not retry payment, contact support" with the
// payment reference, never as an ordinary validation failure.
type PaymentOrphanedError struct {
	GatewayOrderID string
	PaymentID      string
	Err            error
}

func (e *PaymentOrphanedError) Error() string {
	return fmt.Sprintf("payment %s captured but order could not be recorded: %v", e.PaymentID, e.Err)
}

func (e *PaymentOrphanedError) Unwrap() error { return e.Err }

// PaymentGateway is the slice of the gateway client the orchestrator needs.
// Satisfied by *razorpay.Client.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency string, notes map[string]string) (*razorpay.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) (bool, error)
}

// CheckoutSession is what Begin hands back for the client to open the
// gateway's checkout UI with. Nothing is stored server-side between phases;
// the gateway order id ties the two together.
type CheckoutSession struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Subtotal       int64  `json:"subtotal"`
	Discount       int64  `json:"discount"`
	Total          int64  `json:"total"`    // major units to collect
	Amount         int64  `json:"amount"`   // minor units, as the gateway reports
	Currency       string `json:"currency"`
}

// CompleteRequest carries the callback from the gateway's checkout flow plus
// the cart and form the client re-submits for snapshotting.
type CompleteRequest struct {
	Form           models.CustomerForm
	Cart           models.Cart
	Discount       int64
	UserID         *string
	IsDelivery     bool
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// DirectRequest places an order without gateway involvement. Pickup must be
// set explicitly; there is no implicit fallthrough from a failed payment.
type DirectRequest struct {
	Form       models.CustomerForm
	Cart       models.Cart
	Discount   int64
	UserID     *string
	IsDelivery bool
	Pickup     bool
}

// CheckoutService drives one purchase attempt from "user clicks pay" to
// "order exists or the user sees a clear error", coordinating the coupon
// validator, the payment gateway and the order repository.
type CheckoutService struct {
	orders     repositories.OrderRepository
	coupons    *CouponService
	gateway    PaymentGateway
	dispatcher notify.Dispatcher
	validate   *validator.Validate
	currency   string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orders repositories.OrderRepository, coupons *CouponService, gateway PaymentGateway, dispatcher notify.Dispatcher) *CheckoutService {
	return &CheckoutService{
		orders:     orders,
		coupons:    coupons,
		gateway:    gateway,
		dispatcher: dispatcher,
		validate:   validator.New(),
		currency:   "INR",
	}
}

// Begin validates the shipping form and cart, applies an optional coupon and
// creates the gateway-side order for the final total. On any failure nothing
// has been charged and the cart is untouched, so the caller may simply retry.
func (s *CheckoutService) Begin(ctx context.Context, form models.CustomerForm, cart models.Cart, couponCode string) (*CheckoutSession, error) {
	if err := s.checkInput(form, cart); err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal()
	var discount int64
	if couponCode != "" {
		result, err := s.coupons.Validate(couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = result.Discount
	}

	// The minimum-spend gate should keep the discount below the subtotal,
	// but clamp anyway so a misconfigured coupon can't produce a negative
	// amount to collect.
	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, total, s.currency, map[string]string{
		"name":  form.Name,
		"phone": form.Phone,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		GatewayOrderID: gatewayOrder.ID,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          total,
		Amount:         gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
	}, nil
}

// Complete reconciles the gateway callback with local state: it verifies the
// payment signature and only then persists the order snapshot. The signature
// check is the sole source of truth that money moved.
func (s *CheckoutService) Complete(ctx context.Context, req CompleteRequest) (*models.Order, error) {
	if err := s.checkInput(req.Form, req.Cart); err != nil {
		return nil, err
	}

	verified, err := s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		return nil, err
	}
	if !verified {
		log.Printf("payment verification failed for gateway order %s, payment %s: possible tampering", req.GatewayOrderID, req.PaymentID)
		return nil, ErrPaymentNotVerified
	}

	order := s.buildOrder(req.Form, req.Cart, req.Discount, req.UserID, req.IsDelivery)
	order.PaymentStatus = models.PaymentPaid
	order.RazorpayOrderID = req.GatewayOrderID
	order.RazorpayPaymentID = req.PaymentID

	if err := s.orders.Insert(order); err != nil {
		// Money has moved but no order exists. Log both gateway identifiers
		// for manual reconciliation and surface the distinct error class.
		log.Printf("ORPHANED PAYMENT: insert failed after verified payment (gateway order %s, payment %s): %v", req.GatewayOrderID, req.PaymentID, err)
		return nil, &PaymentOrphanedError{
			GatewayOrderID: req.GatewayOrderID,
			PaymentID:      req.PaymentID,
			Err:            err,
		}
	}

	s.notifyNewOrder(order)
	return order, nil
}

// PlaceDirect persists a pay-at-pickup order. It bypasses payment
// verification but still demands the explicit pickup flag.
func (s *CheckoutService) PlaceDirect(req DirectRequest) (*models.Order, error) {
	if !req.Pickup {
		return nil, ErrPickupFlagRequired
	}
	if err := s.checkInput(req.Form, req.Cart); err != nil {
		return nil, err
	}

	order := s.buildOrder(req.Form, req.Cart, req.Discount, req.UserID, req.IsDelivery)
	order.PaymentStatus = models.PaymentAtPickup

	if err := s.orders.Insert(order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.notifyNewOrder(order)
	return order, nil
}

func (s *CheckoutService) checkInput(form models.CustomerForm, cart models.Cart) error {
	if err := s.validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if len(cart.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

func (s *CheckoutService) buildOrder(form models.CustomerForm, cart models.Cart, discount int64, userID *string, isDelivery bool) *models.Order {
	total := cart.Subtotal() - discount
	if total < 0 {
		total = 0
	}
	return &models.Order{
		Name:       form.Name,
		Phone:      form.Phone,
		Address:    form.Address,
		Email:      form.Email,
		UserID:     userID,
		Items:      cart.Snapshot(),
		ItemCount:  cart.ItemCount(),
		Total:      total,
		IsDelivery: isDelivery,
	}
}

func (s *CheckoutService) notifyNewOrder(order *models.Order) {
	if err := s.dispatcher.Send(notify.KindNewOrder, order); err != nil {
		log.Printf("Warning: failed to send new-order notification for order %d: %v", order.ID, err)
	}
}
