package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"hampr/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[uint]models.Order
	nextID uint
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]models.Order),
		nextID: 1,
	}
}

// Insert validates and stores a new order with status pending.
func (r *MockOrderRepository) Insert(order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	finalizeOrder(order)

	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// UpdateStatus performs the same compare-and-swap as the GORM implementation,
// under the repository mutex.
func (r *MockOrderRepository) UpdateStatus(id uint, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	r.orders[id] = order
	return nil
}

// List returns one page of orders matching the filter, newest first.
func (r *MockOrderRepository) List(filter OrderFilter, page, pageSize int) (*OrderPage, error) {
	return r.list(func(o models.Order) bool {
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(o.Name), needle) &&
				!strings.Contains(strings.ToLower(o.Email), needle) &&
				!strings.Contains(o.Phone, needle) {
				return false
			}
		}
		return true
	}, page, pageSize)
}

// ListForCustomer returns one page of the given customer's own orders.
func (r *MockOrderRepository) ListForCustomer(userID string, page, pageSize int) (*OrderPage, error) {
	return r.list(func(o models.Order) bool {
		return o.UserID != nil && *o.UserID == userID
	}, page, pageSize)
}

func (r *MockOrderRepository) list(match func(models.Order) bool, page, pageSize int) (*OrderPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	r.mu.RLock()
	var matched []models.Order
	for _, order := range r.orders {
		if match(order) {
			matched = append(matched, order)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &OrderPage{Orders: matched[start:end], Total: total, Page: page, PageSize: pageSize}, nil
}
