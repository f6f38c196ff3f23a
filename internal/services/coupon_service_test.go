package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hampr/internal/models"
	"hampr/internal/repositories"
	"hampr/internal/services"
)

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func TestCouponService_ValidateDiscountRounding(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	coupon := &models.Coupon{
		ID:        1,
		Code:      "SAVE20",
		Percent:   20,
		MinSpend:  500,
		ValidFrom: today().AddDate(0, 0, -7),
		ValidTill: today().AddDate(0, 0, 7),
	}

	// 999 * 20% = 199.8, rounds half up to 200.
	mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil).Once()
	result, err := service.Validate("SAVE20", 999)
	assert.NoError(t, err)
	assert.Equal(t, "SAVE20", result.Code)
	assert.Equal(t, 20, result.Percent)
	assert.Equal(t, int64(200), result.Discount)
	mockRepo.AssertExpectations(t)
}

func TestCouponService_ValidateCaseInsensitive(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	coupon := &models.Coupon{
		Code:      "SAVE10",
		Percent:   10,
		MinSpend:  500,
		ValidFrom: today(),
		ValidTill: today(),
	}

	// The repository owns the uppercase normalization; the service passes the
	// raw code through.
	mockRepo.On("GetByCode", "save10").Return(coupon, nil).Once()
	result, err := service.Validate("save10", 1000)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), result.Discount)
	mockRepo.AssertExpectations(t)
}

func TestCouponService_ValidateWindowBoundaries(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	// Both boundary dates are inclusive: a coupon starting and ending today
	// is valid today.
	boundary := &models.Coupon{Code: "TODAY", Percent: 10, ValidFrom: today(), ValidTill: today()}
	mockRepo.On("GetByCode", "TODAY").Return(boundary, nil).Once()
	result, err := service.Validate("TODAY", 1000)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), result.Discount)

	// Starts tomorrow: not yet active, and the message surfaces the start date.
	notYet := &models.Coupon{Code: "SOON", Percent: 10, ValidFrom: today().AddDate(0, 0, 1), ValidTill: today().AddDate(0, 0, 10)}
	mockRepo.On("GetByCode", "SOON").Return(notYet, nil).Once()
	_, err = service.Validate("SOON", 1000)
	var notYetErr *services.CouponNotYetActiveError
	assert.ErrorAs(t, err, &notYetErr)
	assert.Contains(t, err.Error(), notYet.ValidFrom.Format("2 Jan 2006"))

	// Ended yesterday: expired.
	expired := &models.Coupon{Code: "GONE", Percent: 10, ValidFrom: today().AddDate(0, 0, -10), ValidTill: today().AddDate(0, 0, -1)}
	mockRepo.On("GetByCode", "GONE").Return(expired, nil).Once()
	_, err = service.Validate("GONE", 1000)
	var expiredErr *services.CouponExpiredError
	assert.ErrorAs(t, err, &expiredErr)

	mockRepo.AssertExpectations(t)
}

func TestCouponService_ValidateBelowMinimumSpend(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	coupon := &models.Coupon{
		Code:      "BIGCART",
		Percent:   15,
		MinSpend:  2000,
		ValidFrom: today().AddDate(0, 0, -1),
		ValidTill: today().AddDate(0, 0, 1),
	}

	mockRepo.On("GetByCode", "BIGCART").Return(coupon, nil).Once()
	_, err := service.Validate("BIGCART", 1999)
	var belowMin *services.BelowMinimumSpendError
	assert.ErrorAs(t, err, &belowMin)
	assert.Equal(t, int64(2000), belowMin.Min)
	assert.Contains(t, err.Error(), "2000")

	// Exactly the minimum qualifies.
	mockRepo.On("GetByCode", "BIGCART").Return(coupon, nil).Once()
	result, err := service.Validate("BIGCART", 2000)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), result.Discount)

	mockRepo.AssertExpectations(t)
}

func TestCouponService_ValidateUnknownCode(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	mockRepo.On("GetByCode", "NOPE").Return(nil, repositories.ErrCouponNotFound).Once()
	_, err := service.Validate("NOPE", 1000)
	assert.ErrorIs(t, err, repositories.ErrCouponNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCouponService_CreateCoupon(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := services.NewCouponService(mockRepo)

	coupon := &models.Coupon{
		Code:      "  festive25 ",
		Percent:   25,
		MinSpend:  1000,
		ValidFrom: today(),
		ValidTill: today().AddDate(0, 1, 0),
	}

	mockRepo.On("Create", coupon).Return(nil).Once()
	err := service.CreateCoupon(coupon)
	assert.NoError(t, err)
	assert.Equal(t, "FESTIVE25", coupon.Code)
	mockRepo.AssertExpectations(t)

	// Window reversed: rejected before the repository is touched.
	bad := &models.Coupon{
		Code:      "BACKWARDS",
		Percent:   10,
		ValidFrom: today(),
		ValidTill: today().AddDate(0, 0, -1),
	}
	err = service.CreateCoupon(bad)
	assert.ErrorIs(t, err, services.ErrInvalidCoupon)

	// Percent out of range.
	overflow := &models.Coupon{
		Code:      "TOOMUCH",
		Percent:   150,
		ValidFrom: today(),
		ValidTill: today().AddDate(0, 0, 1),
	}
	err = service.CreateCoupon(overflow)
	assert.ErrorIs(t, err, services.ErrInvalidCoupon)
}
