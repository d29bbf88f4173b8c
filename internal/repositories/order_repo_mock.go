package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virushp278/e-commerce-store/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByBuyer returns all orders for a buyer, newest placement first.
func (r *MockOrderRepository) GetByBuyer(buyerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].PlacedAt.After(orderList[j].PlacedAt)
	})
	return orderList, nil
}

// UpdateItemStatus updates one line item's fulfilment status.
func (r *MockOrderRepository) UpdateItemStatus(orderID string, itemID uint, status, trackingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items[i].Status = status
			if trackingID != "" {
				order.Items[i].TrackingID = trackingID
			}
			order.UpdatedAt = time.Now()
			r.orders[orderID] = order
			return nil
		}
	}
	return fmt.Errorf("item %d of order %s: %w", itemID, orderID, ErrNotFound)
}
