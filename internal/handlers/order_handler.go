package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hampr/internal/middleware"
	"hampr/internal/models"
	"hampr/internal/repositories"
	"hampr/internal/services"
)

// OrderHandler handles HTTP requests for orders: the customer's own order
// history and cancellation, and the administrative back office.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterCustomerRoutes registers the customer-scoped order routes.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router) {
	myOrders := router.Group("/my/orders")
	myOrders.Get("/", h.HandleListOwnOrders)
	myOrders.Get("/:id", h.HandleGetOwnOrder)
	myOrders.Post("/:id/cancel", h.HandleCancelOwnOrder)
}

// RegisterAdminRoutes registers the unscoped back-office order routes.
// The caller must gate them with the admin middleware.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Get("/", h.HandleListOrders)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Patch("/:id/status", h.HandleUpdateStatus)
}

// HandleListOwnOrders returns a page of the requester's own orders.
func (h *OrderHandler) HandleListOwnOrders(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	result, err := h.service.ListCustomerOrders(middleware.UserID(c), page, pageSize)
	if err != nil {
		log.Printf("Error listing orders for user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(result)
}

// HandleGetOwnOrder returns one of the requester's own orders.
func (h *OrderHandler) HandleGetOwnOrder(c *fiber.Ctx) error {
	id, ok := orderIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	order, err := h.service.GetOrderForCustomer(id, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleCancelOwnOrder cancels the requester's own order while it is still
// pending. Refused once processing has begun.
func (h *OrderHandler) HandleCancelOwnOrder(c *fiber.Ctx) error {
	id, ok := orderIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	order, err := h.service.CancelOwn(id, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleListOrders returns a filtered page of all orders for the back office.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	result, err := h.service.ListOrders(filter, page, pageSize)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(result)
}

// HandleGetOrder returns a single order, unscoped.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, ok := orderIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleUpdateStatus performs an administrator-driven lifecycle transition.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, ok := orderIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	order, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// respondOrderError maps order lifecycle failures onto HTTP responses.
// Illegal transitions and write-time conflicts are 409, deliberately
// distinct from a 404.
func respondOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "This order does not belong to you",
		})
	case errors.Is(err, services.ErrIllegalTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, repositories.ErrStatusConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order status changed concurrently, refresh and retry",
		})
	}

	log.Printf("Order error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process the order request",
	})
}

func orderIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
