package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/virushp278/e-commerce-store/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order together with its line items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items resolved.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items.Product").
		Preload("Items.Merchant").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByBuyer retrieves all orders for a buyer, newest placement first.
func (r *GORMOrderRepository) GetByBuyer(buyerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items.Product").
		Preload("Items.Merchant").
		Where("buyer_id = ?", buyerID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for buyer %s: %w", buyerID, err)
	}
	return orders, nil
}

// UpdateItemStatus updates the fulfilment status (and optionally the tracking
// id) of one line item within an order.
func (r *GORMOrderRepository) UpdateItemStatus(orderID string, itemID uint, status, trackingID string) error {
	updates := map[string]interface{}{"status": status}
	if trackingID != "" {
		updates["tracking_id"] = trackingID
	}
	res := r.db.Model(&models.OrderItem{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update item status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %d of order %s: %w", itemID, orderID, ErrNotFound)
	}
	return nil
}
