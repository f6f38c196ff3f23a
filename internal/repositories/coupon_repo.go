package repositories

import (
	"errors"

	"hampr/internal/models"
)

// ErrCouponNotFound is returned when no coupon exists for a code or id.
var ErrCouponNotFound = errors.New("coupon not found")

// CouponRepository defines the interface for coupon data access. Lookups by
// code are case-insensitive; codes are stored uppercase.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
}
