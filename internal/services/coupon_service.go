package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hampr/internal/models"
	"hampr/internal/repositories"
)

// ErrInvalidCoupon is returned by admin CRUD for a malformed coupon.
var ErrInvalidCoupon = errors.New("invalid coupon")

// CouponNotYetActiveError means today is before the coupon's validity window.
type CouponNotYetActiveError struct {
	From time.Time
}

func (e *CouponNotYetActiveError) Error() string {
	return fmt.Sprintf("coupon is not active until %s", e.From.Format("2 Jan 2006"))
}

// CouponExpiredError means today is after the coupon's validity window.
type CouponExpiredError struct {
	Till time.Time
}

func (e *CouponExpiredError) Error() string {
	return fmt.Sprintf("coupon expired on %s", e.Till.Format("2 Jan 2006"))
}

// BelowMinimumSpendError means the cart subtotal does not qualify.
type BelowMinimumSpendError struct {
	Min int64
}

func (e *BelowMinimumSpendError) Error() string {
	return fmt.Sprintf("cart subtotal must be at least %d to use this coupon", e.Min)
}

// CouponService validates promotional codes against a cart subtotal and
// handles the administrative coupon lifecycle. Validation is read-only:
// no redemption counter exists and a coupon may be reused without bound.
type CouponService struct {
	repo     repositories.CouponRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Validate checks a code against its date window and minimum-spend rule and
// returns the discount it grants on the given subtotal. The window is
// inclusive of both boundary dates and compared date-only, ignoring the time
// of day. The discount is subtotal x percent / 100 rounded half up to the
// nearest whole rupee (999 at 20% gives 200).
func (s *CouponService) Validate(code string, subtotal int64) (*models.CouponResult, error) {
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	if today.Before(dateOnly(coupon.ValidFrom)) {
		return nil, &CouponNotYetActiveError{From: coupon.ValidFrom}
	}
	if today.After(dateOnly(coupon.ValidTill)) {
		return nil, &CouponExpiredError{Till: coupon.ValidTill}
	}
	if subtotal < coupon.MinSpend {
		return nil, &BelowMinimumSpendError{Min: coupon.MinSpend}
	}

	discount := int64(math.Round(float64(subtotal) * float64(coupon.Percent) / 100))
	return &models.CouponResult{
		Code:     coupon.Code,
		Percent:  coupon.Percent,
		Discount: discount,
	}, nil
}

// GetAllCoupons lists every coupon for the back office.
func (s *CouponService) GetAllCoupons() ([]models.Coupon, error) {
	return s.repo.GetAll()
}

// CreateCoupon stores a new coupon after normalizing its code to uppercase.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	if err := s.checkCoupon(coupon); err != nil {
		return err
	}
	return s.repo.Create(coupon)
}

// UpdateCoupon replaces an existing coupon.
func (s *CouponService) UpdateCoupon(coupon *models.Coupon) error {
	if err := s.checkCoupon(coupon); err != nil {
		return err
	}
	return s.repo.Update(coupon)
}

// DeleteCoupon removes a coupon by its ID.
func (s *CouponService) DeleteCoupon(id uint) error {
	return s.repo.Delete(id)
}

func (s *CouponService) checkCoupon(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if err := s.validate.Struct(coupon); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoupon, err)
	}
	if coupon.ValidTill.Before(coupon.ValidFrom) {
		return fmt.Errorf("%w: valid_till is before valid_from", ErrInvalidCoupon)
	}
	return nil
}

// dateOnly strips the time component for calendar-date comparison.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
