package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hampr/internal/models"
	"hampr/internal/repositories"
	"hampr/internal/services"
)

// CouponHandler handles HTTP requests for coupons: the public validation
// endpoint and the administrative CRUD.
type CouponHandler struct {
	service *services.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService) *CouponHandler {
	return &CouponHandler{
		service: service,
	}
}

// RegisterPublicRoutes registers the customer-facing validation endpoint.
func (h *CouponHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/coupons/validate", h.HandleValidate)
}

// RegisterAdminRoutes registers the back-office coupon CRUD.
func (h *CouponHandler) RegisterAdminRoutes(router fiber.Router) {
	coupons := router.Group("/coupons")
	coupons.Get("/", h.HandleGetCoupons)
	coupons.Post("/", h.HandleCreateCoupon)
	coupons.Put("/:id", h.HandleUpdateCoupon)
	coupons.Delete("/:id", h.HandleDeleteCoupon)
}

// HandleValidate checks a code against a cart subtotal and returns the
// discount it would grant. Read-only; nothing is redeemed.
func (h *CouponHandler) HandleValidate(c *fiber.Ctx) error {
	var req struct {
		Code     string `json:"code"`
		Subtotal int64  `json:"subtotal"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Coupon code is required",
		})
	}

	result, err := h.service.Validate(req.Code, req.Subtotal)
	if err != nil {
		if errors.Is(err, repositories.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Coupon code not found",
			})
		}
		if isCouponRejection(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error validating coupon %s: %v", req.Code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not validate coupon",
		})
	}
	return c.JSON(result)
}

// HandleGetCoupons lists all coupons for the back office.
func (h *CouponHandler) HandleGetCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.GetAllCoupons()
	if err != nil {
		log.Printf("Error getting all coupons: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve coupons",
		})
	}
	return c.JSON(coupons)
}

// HandleCreateCoupon creates a new coupon.
func (h *CouponHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateCoupon(&coupon); err != nil {
		return respondCouponError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// HandleUpdateCoupon updates an existing coupon.
func (h *CouponHandler) HandleUpdateCoupon(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid coupon id",
		})
	}

	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	coupon.ID = uint(id)

	if err := h.service.UpdateCoupon(&coupon); err != nil {
		return respondCouponError(c, err)
	}
	return c.JSON(coupon)
}

// HandleDeleteCoupon removes a coupon.
func (h *CouponHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid coupon id",
		})
	}

	if err := h.service.DeleteCoupon(uint(id)); err != nil {
		return respondCouponError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Coupon deleted successfully",
	})
}

func respondCouponError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Coupon not found",
		})
	case errors.Is(err, services.ErrInvalidCoupon):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	log.Printf("Coupon error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process the coupon request",
	})
}
