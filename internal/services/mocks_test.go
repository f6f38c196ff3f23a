package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hampr/internal/models"
	"hampr/internal/notify"
	"hampr/internal/repositories"
	"hampr/pkg/razorpay"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id uint, from, to models.OrderStatus) error {
	args := m.Called(id, from, to)
	return args.Error(0)
}

func (m *MockOrderRepository) List(filter repositories.OrderFilter, page, pageSize int) (*repositories.OrderPage, error) {
	args := m.Called(filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.OrderPage), args.Error(1)
}

func (m *MockOrderRepository) ListForCustomer(userID string, page, pageSize int) (*repositories.OrderPage, error) {
	args := m.Called(userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.OrderPage), args.Error(1)
}

// MockCouponRepository is a mock implementation of repositories.CouponRepository.
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetAll() ([]models.Coupon, error) {
	args := m.Called()
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(coupon *models.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Update(coupon *models.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockGateway is a mock implementation of services.PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount int64, currency string, notes map[string]string) (*razorpay.GatewayOrder, error) {
	args := m.Called(ctx, amount, currency, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.GatewayOrder), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0), args.Error(1)
}

// MockDispatcher is a mock implementation of notify.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(kind notify.Kind, order *models.Order) error {
	args := m.Called(kind, order)
	return args.Error(0)
}
