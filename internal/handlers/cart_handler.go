package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/virushp278/e-commerce-store/internal/services"
)

// CartHandler handles HTTP requests for the shopper's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Delete("/:productId", h.HandleRemoveFromCart)
}

// HandleGetCart returns the signed-in user's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID := userIDFromLocals(c)
	if userID == "" {
		return errUnauthenticated(c)
	}

	cart, err := h.service.GetCart(userID)
	if err != nil {
		log.Printf("Error fetching cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not fetch cart",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"cart":    cart,
	})
}

// HandleAddToCart puts a product into the signed-in user's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	userID := userIDFromLocals(c)
	if userID == "" {
		return errUnauthenticated(c)
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "productId is required",
		})
	}

	if err := h.service.AddToCart(userID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Product not found",
			})
		}
		log.Printf("Error adding to cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not add to cart",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
	})
}

// HandleRemoveFromCart removes a product from the signed-in user's cart.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	userID := userIDFromLocals(c)
	if userID == "" {
		return errUnauthenticated(c)
	}

	if err := h.service.RemoveFromCart(userID, c.Params("productId")); err != nil {
		log.Printf("Error removing cart item for user %s: %v", userID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Cart item not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
