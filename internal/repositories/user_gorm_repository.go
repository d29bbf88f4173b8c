package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/virushp278/e-commerce-store/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID, with addresses and cart resolved.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Cart.Product").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetCart returns the user's cart entries with products resolved. A cart entry
// whose product was deleted from the catalog comes back with a nil Product.
func (r *GORMUserRepository) GetCart(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return items, nil
}

// AddCartItem adds a product to the cart, or bumps the quantity if the product
// is already there.
func (r *GORMUserRepository) AddCartItem(userID, productID string, quantity int) error {
	var existing models.CartItem
	err := r.db.First(&existing, "user_id = ? AND product_id = ?", userID, productID).Error
	if err == nil {
		existing.Quantity += quantity
		if err := r.db.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up cart item: %w", err)
	}
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := r.db.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// RemoveCartItem removes one product from the user's cart.
func (r *GORMUserRepository) RemoveCartItem(userID, productID string) error {
	res := r.db.Delete(&models.CartItem{}, "user_id = ? AND product_id = ?", userID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// ClearCart removes every entry from the user's cart.
func (r *GORMUserRepository) ClearCart(userID string) error {
	if err := r.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

// AddAddress appends an address to the user's address book and returns the
// position it was stored at.
func (r *GORMUserRepository) AddAddress(userID string, addr models.Address) (int, error) {
	var count int64
	if err := r.db.Model(&models.UserAddress{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count addresses for user %s: %w", userID, err)
	}
	entry := models.UserAddress{UserID: userID, Position: int(count), Address: addr}
	if err := r.db.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to add address: %w", err)
	}
	return entry.Position, nil
}

// GetAddresses returns the user's address book ordered by position.
func (r *GORMUserRepository) GetAddresses(userID string) ([]models.UserAddress, error) {
	var addrs []models.UserAddress
	err := r.db.Where("user_id = ?", userID).Order("position ASC").Find(&addrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses for user %s: %w", userID, err)
	}
	return addrs, nil
}
