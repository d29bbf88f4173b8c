package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/virushp278/e-commerce-store/internal/models"
	"github.com/virushp278/e-commerce-store/internal/services"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the authenticated order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/order")
	orderRoutes.Post("/buy", h.HandleBuy)
	orderRoutes.Get("/checkout", h.HandleCheckout)
	orderRoutes.Get("/your-orders", h.HandleYourOrders)
	orderRoutes.Post("/place-cod", h.HandlePlaceCOD)
	orderRoutes.Post("/create-razorpay", h.HandleCreateRazorpay)
	orderRoutes.Post("/verify-payment", h.HandleVerifyPayment)
	// Fulfilment status transitions, driven by merchants/back office.
	orderRoutes.Patch("/:id/items/:itemId/status", h.HandleUpdateItemStatus)
}

// RegisterPublicRoutes registers the order routes that do not require a
// signed-in user.
func (h *OrderHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/order/create-order", h.HandleCreateOrder)
}

// buyRequest accepts productId/quantity as either a scalar or an array, the
// way the checkout form submits them.
type buyRequest struct {
	ProductID       json.RawMessage `json:"productId"`
	Quantity        json.RawMessage `json:"quantity"`
	ShippingAddress models.Address  `json:"shippingAddress"`
}

// HandleBuy places one order per submitted product and redirects to the order
// history.
func (h *OrderHandler) HandleBuy(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	var req buyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing buy request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	productIDs, err := parseScalarOrList[string](req.ProductID)
	if err != nil || len(productIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "productId is required",
		})
	}
	quantities, err := parseScalarOrList[int](req.Quantity)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "quantity must be a number or an array of numbers",
		})
	}

	if err := h.validate.Struct(req.ShippingAddress); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A complete shipping address is required",
		})
	}

	purchases := make([]services.DirectPurchase, len(productIDs))
	for i, id := range productIDs {
		quantity := 1
		if i < len(quantities) {
			quantity = quantities[i]
		}
		purchases[i] = services.DirectPurchase{ProductID: id, Quantity: quantity}
	}

	if _, err := h.service.PlaceDirectOrders(buyerID, purchases, req.ShippingAddress); err != nil {
		log.Printf("Error placing direct order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong while placing the order",
		})
	}

	return c.Redirect("/api/v1/order/your-orders", fiber.StatusFound)
}

// HandleCheckout renders the checkout view model for a single product or the
// whole cart.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	items, err := h.service.PrepareCheckout(buyerID, c.Query("productId"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Product not found",
			})
		}
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Redirect("/api/v1/cart", fiber.StatusFound)
		}
		log.Printf("Error preparing checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during checkout",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

// HandleYourOrders returns the signed-in buyer's order history.
func (h *OrderHandler) HandleYourOrders(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	orders, err := h.service.ListBuyerOrders(buyerID)
	if err != nil {
		log.Printf("Error fetching orders for buyer %s: %v", buyerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error fetching your orders",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}

// HandleCreateOrder creates a gateway payment intent for a client-supplied
// amount. No order is persisted here; persisted totals are always recomputed
// server-side.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req struct {
		Amount float64 `json:"amount" validate:"gt=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "amount must be greater than zero",
		})
	}

	gatewayOrder, err := h.service.CreatePaymentIntent(c.Context(), req.Amount)
	if err != nil {
		log.Printf("Error creating payment intent: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create order",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"orderId":  gatewayOrder.ID,
		"amount":   gatewayOrder.Amount,
		"currency": gatewayOrder.Currency,
	})
}

// HandlePlaceCOD places a cash-on-delivery order from the buyer's cart.
func (h *OrderHandler) HandlePlaceCOD(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	var req struct {
		SelectedAddress int `json:"selectedAddress"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	order, err := h.service.PlaceCODOrder(buyerID, req.SelectedAddress)
	if err != nil {
		return h.renderPlacementError(c, err, "Error placing COD order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orderId": order.ID,
		"message": "COD order placed successfully",
	})
}

// HandleCreateRazorpay creates a gateway payment intent for the buyer's
// current cart total.
func (h *OrderHandler) HandleCreateRazorpay(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	gatewayOrder, err := h.service.CreateCartPaymentIntent(c.Context(), buyerID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Cart is empty",
			})
		}
		log.Printf("Error creating razorpay order: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create order",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"orderId":  gatewayOrder.ID,
		"amount":   gatewayOrder.Amount,
		"currency": gatewayOrder.Currency,
	})
}

// HandleVerifyPayment verifies the gateway signature and finalizes the online
// order from the buyer's cart.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	buyerID := userIDFromLocals(c)
	if buyerID == "" {
		return errUnauthenticated(c)
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
		RazorpaySignature string `json:"razorpay_signature" validate:"required"`
		SelectedAddress   int    `json:"selectedAddress"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gateway order id, payment id and signature are required",
		})
	}

	order, err := h.service.VerifyAndFinalizePayment(
		buyerID,
		req.RazorpayOrderID,
		req.RazorpayPaymentID,
		req.RazorpaySignature,
		req.SelectedAddress,
	)
	if err != nil {
		if errors.Is(err, services.ErrPaymentVerificationFailed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Payment verification failed",
			})
		}
		return h.renderPlacementError(c, err, "Payment verification error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleUpdateItemStatus updates one line item's fulfilment status.
func (h *OrderHandler) HandleUpdateItemStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	itemID, err := c.ParamsInt("itemId")
	if err != nil || itemID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid item id",
		})
	}

	var req struct {
		Status     string `json:"status" validate:"required"`
		TrackingID string `json:"trackingId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "status is required",
		})
	}

	if err := h.service.UpdateItemStatus(orderID, uint(itemID), req.Status, req.TrackingID); err != nil {
		log.Printf("Error updating item status for order %s: %v", orderID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item status updated",
	})
}

// renderPlacementError maps order placement failures to response envelopes.
func (h *OrderHandler) renderPlacementError(c *fiber.Ctx, err error, logPrefix string) error {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cart is empty",
		})
	case errors.Is(err, services.ErrInvalidAddress):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No address found",
		})
	default:
		log.Printf("%s: %v", logPrefix, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
		})
	}
}

// userIDFromLocals pulls the authenticated user id set by the JWT middleware.
func userIDFromLocals(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func errUnauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Authentication required",
	})
}

// parseScalarOrList decodes a JSON value that may be either a single T or an
// array of T.
func parseScalarOrList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []T{single}, nil
}
