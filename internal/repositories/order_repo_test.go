package repositories_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"hampr/internal/models"
	"hampr/internal/repositories"
)

func paidOrder(name, phone string) *models.Order {
	return &models.Order{
		Name:    name,
		Phone:   phone,
		Address: "14 MG Road, Pune",
		Items: []models.OrderItem{
			{ProductID: "prod-1", Name: "Festive Hamper", UnitPrice: 450, Quantity: 2},
			{ProductID: "prod-2", Name: "Dry Fruit Box", UnitPrice: 100, Quantity: 1},
		},
		PaymentStatus:     models.PaymentPaid,
		RazorpayOrderID:   "order_" + phone,
		RazorpayPaymentID: "pay_" + phone,
	}
}

func TestMockOrderRepository_InsertComputesAndValidates(t *testing.T) {
	repo := repositories.NewMockOrderRepository()

	order := paidOrder("Asha Verma", "9876543210")
	err := repo.Insert(order)
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 3, order.ItemCount)
	assert.Equal(t, int64(1000), order.Total)
	assert.False(t, order.CreatedAt.IsZero())

	// Missing customer snapshot fields.
	invalid := paidOrder("", "9876543210")
	assert.ErrorIs(t, repo.Insert(invalid), repositories.ErrInvalidOrder)

	// No line items.
	empty := paidOrder("Asha Verma", "9876543210")
	empty.Items = nil
	assert.ErrorIs(t, repo.Insert(empty), repositories.ErrInvalidOrder)
}

func TestMockOrderRepository_InsertRequiresPaymentProofOrPickup(t *testing.T) {
	repo := repositories.NewMockOrderRepository()

	// Gateway-mode order without the payment pair is rejected.
	unpaid := paidOrder("Asha Verma", "9876543210")
	unpaid.RazorpayOrderID = ""
	unpaid.RazorpayPaymentID = ""
	unpaid.PaymentStatus = models.PaymentPaid
	assert.ErrorIs(t, repo.Insert(unpaid), repositories.ErrInvalidOrder)

	// The explicit pay-at-pickup designation is the one way around it.
	pickup := paidOrder("Asha Verma", "9876543210")
	pickup.RazorpayOrderID = ""
	pickup.RazorpayPaymentID = ""
	pickup.PaymentStatus = models.PaymentAtPickup
	assert.NoError(t, repo.Insert(pickup))
}

func TestMockOrderRepository_UpdateStatusCompareAndSwap(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := paidOrder("Asha Verma", "9876543210")
	assert.NoError(t, repo.Insert(order))

	err := repo.UpdateStatus(order.ID, models.StatusPending, models.StatusProcessing)
	assert.NoError(t, err)

	// The expected-from no longer matches: conflict, not a silent overwrite.
	err = repo.UpdateStatus(order.ID, models.StatusPending, models.StatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)

	got, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)

	// Unknown id is reported distinctly.
	err = repo.UpdateStatus(9999, models.StatusPending, models.StatusProcessing)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestMockOrderRepository_ListFilterAndPaging(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	for i := 0; i < 5; i++ {
		order := paidOrder(fmt.Sprintf("Customer %d", i), fmt.Sprintf("900000000%d", i))
		assert.NoError(t, repo.Insert(order))
	}
	special := paidOrder("Ravi Kumar", "9123456789")
	special.Email = "Ravi.K@example.com"
	assert.NoError(t, repo.Insert(special))
	assert.NoError(t, repo.UpdateStatus(special.ID, models.StatusPending, models.StatusProcessing))

	// Status filter.
	page, err := repo.List(repositories.OrderFilter{Status: models.StatusProcessing}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Ravi Kumar", page.Orders[0].Name)

	// Case-insensitive substring search across name and email.
	page, err = repo.List(repositories.OrderFilter{Search: "ravi"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = repo.List(repositories.OrderFilter{Search: "ravi.k@"}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// Paging: 6 orders in pages of 4.
	page, err = repo.List(repositories.OrderFilter{}, 1, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	assert.Len(t, page.Orders, 4)

	page, err = repo.List(repositories.OrderFilter{}, 2, 4)
	assert.NoError(t, err)
	assert.Len(t, page.Orders, 2)

	// Identical arguments, identical results absent intervening writes.
	again, err := repo.List(repositories.OrderFilter{}, 2, 4)
	assert.NoError(t, err)
	assert.Equal(t, page.Orders, again.Orders)
}

func TestMockOrderRepository_ListForCustomer(t *testing.T) {
	repo := repositories.NewMockOrderRepository()

	mine := paidOrder("Asha Verma", "9876543210")
	userID := "user-1"
	mine.UserID = &userID
	assert.NoError(t, repo.Insert(mine))

	other := paidOrder("Ravi Kumar", "9123456789")
	otherID := "user-2"
	other.UserID = &otherID
	assert.NoError(t, repo.Insert(other))

	guest := paidOrder("Guest Buyer", "9000000000")
	assert.NoError(t, repo.Insert(guest))

	page, err := repo.ListForCustomer("user-1", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Asha Verma", page.Orders[0].Name)
}
