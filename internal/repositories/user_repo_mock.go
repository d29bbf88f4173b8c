package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/virushp278/e-commerce-store/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository. It
// resolves cart products through a ProductRepository so that deleted catalog
// entries surface as nil, the same way the GORM preload behaves.
type MockUserRepository struct {
	users    map[string]models.User
	products ProductRepository
	mu       sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository(products ProductRepository) *MockUserRepository {
	return &MockUserRepository{
		users:    make(map[string]models.User),
		products: products,
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetCart returns the user's cart with products resolved.
func (r *MockUserRepository) GetCart(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	user, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}

	items := make([]models.CartItem, 0, len(user.Cart))
	for _, item := range user.Cart {
		if r.products != nil {
			product, err := r.products.GetByID(item.ProductID)
			if err == nil {
				item.Product = product
			} else {
				item.Product = nil
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AddCartItem adds a product to the cart, bumping quantity on duplicates.
func (r *MockUserRepository) AddCartItem(userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart[i].Quantity += quantity
			r.users[userID] = user
			return nil
		}
	}
	user.Cart = append(user.Cart, models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity})
	r.users[userID] = user
	return nil
}

// RemoveCartItem removes a product from the cart.
func (r *MockUserRepository) RemoveCartItem(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart = append(user.Cart[:i], user.Cart[i+1:]...)
			r.users[userID] = user
			return nil
		}
	}
	return fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// ClearCart removes all entries from the user's cart.
func (r *MockUserRepository) ClearCart(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	user.Cart = nil
	r.users[userID] = user
	return nil
}

// AddAddress appends an address to the user's address book.
func (r *MockUserRepository) AddAddress(userID string, addr models.Address) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return 0, fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	position := len(user.Addresses)
	user.Addresses = append(user.Addresses, models.UserAddress{
		UserID:   userID,
		Position: position,
		Address:  addr,
	})
	r.users[userID] = user
	return position, nil
}

// GetAddresses returns the user's address book ordered by position.
func (r *MockUserRepository) GetAddresses(userID string) ([]models.UserAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	addrs := make([]models.UserAddress, len(user.Addresses))
	copy(addrs, user.Addresses)
	return addrs, nil
}
