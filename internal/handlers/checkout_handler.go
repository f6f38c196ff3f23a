package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"hampr/internal/middleware"
	"hampr/internal/models"
	"hampr/internal/repositories"
	"hampr/internal/services"
	"hampr/pkg/razorpay"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkout := router.Group("/checkout")
	checkout.Post("/begin", h.HandleBegin)
	checkout.Post("/complete", h.HandleComplete)
	checkout.Post("/pickup", h.HandlePickup)
}

type beginCheckoutRequest struct {
	Customer   models.CustomerForm `json:"customer"`
	Items      []models.CartItem   `json:"items"`
	CouponCode string              `json:"coupon_code"`
}

type completeCheckoutRequest struct {
	Customer          models.CustomerForm `json:"customer"`
	Items             []models.CartItem   `json:"items"`
	Discount          int64               `json:"discount"`
	IsDelivery        bool                `json:"is_delivery"`
	RazorpayOrderID   string              `json:"razorpay_order_id"`
	RazorpayPaymentID string              `json:"razorpay_payment_id"`
	RazorpaySignature string              `json:"razorpay_signature"`
}

type pickupOrderRequest struct {
	Customer   models.CustomerForm `json:"customer"`
	Items      []models.CartItem   `json:"items"`
	Discount   int64               `json:"discount"`
	IsDelivery bool                `json:"is_delivery"`
	Pickup     bool                `json:"pickup"`
}

// HandleBegin validates the form and cart, applies an optional coupon and
// creates the gateway order the client opens the payment popup with.
func (h *CheckoutHandler) HandleBegin(c *fiber.Ctx) error {
	var req beginCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session, err := h.service.Begin(c.Context(), req.Customer, models.Cart{Items: req.Items}, req.CouponCode)
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.JSON(session)
}

// HandleComplete receives the gateway callback relayed by the client,
// verifies the payment and persists the order.
func (h *CheckoutHandler) HandleComplete(c *fiber.Ctx) error {
	var req completeCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.Complete(c.Context(), services.CompleteRequest{
		Form:           req.Customer,
		Cart:           models.Cart{Items: req.Items},
		Discount:       req.Discount,
		UserID:         requesterID(c),
		IsDelivery:     req.IsDelivery,
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	})
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandlePickup places a pay-at-pickup order without gateway involvement.
func (h *CheckoutHandler) HandlePickup(c *fiber.Ctx) error {
	var req pickupOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.PlaceDirect(services.DirectRequest{
		Form:       req.Customer,
		Cart:       models.Cart{Items: req.Items},
		Discount:   req.Discount,
		UserID:     requesterID(c),
		IsDelivery: req.IsDelivery,
		Pickup:     req.Pickup,
	})
	if err != nil {
		return respondCheckoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// respondCheckoutError maps checkout failures onto HTTP responses. The
// orphaned-payment case gets its own unambiguous shape: the client must not
// retry payment and needs the payment reference for support.
func respondCheckoutError(c *fiber.Ctx, err error) error {
	var orphaned *services.PaymentOrphanedError
	if errors.As(err, &orphaned) {
		log.Printf("Checkout error (orphaned payment): %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":             "Your payment was received but the order could not be recorded. Do not retry payment; contact support with the reference below.",
			"razorpay_order_id":   orphaned.GatewayOrderID,
			"razorpay_payment_id": orphaned.PaymentID,
		})
	}

	var gatewayErr *razorpay.GatewayError
	if errors.As(err, &gatewayErr) {
		log.Printf("Checkout error (gateway): %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Payment gateway is unavailable, please try again",
		})
	}

	switch {
	case errors.Is(err, services.ErrPaymentNotVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Payment could not be verified; no order was created",
		})
	case errors.Is(err, repositories.ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Coupon code not found",
		})
	case errors.Is(err, services.ErrInvalidForm),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrPickupFlagRequired),
		errors.Is(err, razorpay.ErrInvalidAmount),
		errors.Is(err, razorpay.ErrMissingField),
		isCouponRejection(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	log.Printf("Checkout error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process checkout",
	})
}

func isCouponRejection(err error) bool {
	var notYet *services.CouponNotYetActiveError
	var expired *services.CouponExpiredError
	var belowMin *services.BelowMinimumSpendError
	return errors.As(err, &notYet) || errors.As(err, &expired) || errors.As(err, &belowMin)
}

// requesterID returns the authenticated user's id, or nil for guest checkout.
func requesterID(c *fiber.Ctx) *string {
	if id := middleware.UserID(c); id != "" {
		return &id
	}
	return nil
}
