package repositories

import "github.com/virushp278/e-commerce-store/internal/models"

// UserRepository defines the interface for user data access, including the
// user's cart and saved address book.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)

	// GetCart returns the user's cart entries with products resolved. Entries
	// whose product no longer exists are returned with a nil Product.
	GetCart(userID string) ([]models.CartItem, error)
	AddCartItem(userID, productID string, quantity int) error
	RemoveCartItem(userID, productID string) error
	ClearCart(userID string) error

	AddAddress(userID string, addr models.Address) (position int, err error)
	// GetAddresses returns the address book ordered by position.
	GetAddresses(userID string) ([]models.UserAddress, error)
}
