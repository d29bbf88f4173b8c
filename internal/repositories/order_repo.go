package repositories

import (
	"github.com/virushp278/e-commerce-store/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetByBuyer returns the buyer's orders, newest placement first, with each
	// line item's product and merchant resolved.
	GetByBuyer(buyerID string) ([]models.Order, error)
	UpdateItemStatus(orderID string, itemID uint, status, trackingID string) error
	// Orders are never deleted by this subsystem.
}
