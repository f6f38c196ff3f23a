package repositories

import (
	"strings"
	"sync"

	"hampr/internal/models"
)

// MockCouponRepository is an in-memory implementation of CouponRepository.
type MockCouponRepository struct {
	coupons map[uint]models.Coupon
	nextID  uint
	mu      sync.RWMutex
}

// NewMockCouponRepository creates a new instance of MockCouponRepository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[uint]models.Coupon),
		nextID:  1,
	}
}

// GetAll returns all coupons.
func (r *MockCouponRepository) GetAll() ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupons := make([]models.Coupon, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

// GetByCode returns a coupon by its code, case-insensitively.
func (r *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code = strings.ToUpper(code)
	for _, coupon := range r.coupons {
		if coupon.Code == code {
			c := coupon
			return &c, nil
		}
	}
	return nil, ErrCouponNotFound
}

// Create stores a new coupon with its code normalized to uppercase.
func (r *MockCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon.ID = r.nextID
	r.nextID++
	coupon.Code = strings.ToUpper(coupon.Code)
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Update replaces an existing coupon.
func (r *MockCouponRepository) Update(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[coupon.ID]; !ok {
		return ErrCouponNotFound
	}
	coupon.Code = strings.ToUpper(coupon.Code)
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Delete removes a coupon by its ID.
func (r *MockCouponRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return ErrCouponNotFound
	}
	delete(r.coupons, id)
	return nil
}
