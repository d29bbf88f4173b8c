package services

import (
	"errors"
	"fmt"

	"github.com/virushp278/e-commerce-store/internal/models"
	"github.com/virushp278/e-commerce-store/internal/repositories"
)

// CartService handles business logic for the shopper's cart.
type CartService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart entries with products resolved.
func (s *CartService) GetCart(userID string) ([]models.CartItem, error) {
	return s.userRepo.GetCart(userID)
}

// AddToCart puts quantity units of a product into the user's cart. The
// product must exist in the catalog at add time.
func (s *CartService) AddToCart(userID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return fmt.Errorf("failed to look up product %s: %w", productID, err)
	}
	return s.userRepo.AddCartItem(userID, productID, quantity)
}

// RemoveFromCart removes one product from the user's cart.
func (s *CartService) RemoveFromCart(userID, productID string) error {
	return s.userRepo.RemoveCartItem(userID, productID)
}
