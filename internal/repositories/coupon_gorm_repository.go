package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hampr/internal/models"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{
		db: db,
	}
}

// GetAll retrieves all coupons.
func (r *GORMCouponRepository) GetAll() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get all coupons: %w", err)
	}
	return coupons, nil
}

// GetByCode retrieves a coupon by its code, case-insensitively.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon %q: %w", code, err)
	}
	return &coupon, nil
}

// Create creates a new coupon. The code is normalized to uppercase.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// Update updates an existing coupon.
func (r *GORMCouponRepository) Update(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	res := r.db.Save(coupon)
	if res.Error != nil {
		return fmt.Errorf("failed to update coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon by its ID.
func (r *GORMCouponRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}
