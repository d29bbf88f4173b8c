package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/virushp278/e-commerce-store/internal/models"
	"github.com/virushp278/e-commerce-store/internal/repositories"
	"github.com/virushp278/e-commerce-store/pkg/rabbitmq"
	"github.com/virushp278/e-commerce-store/pkg/razorpay"
)

// The gateway account is configured for Indian rupees; minor units are paise
// (1 INR = 100 paise).
const (
	paymentCurrency = "INR"
	minorUnitFactor = 100
)

// PaymentGateway abstracts the online payment processor. Implemented by
// *razorpay.Client and by test doubles.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// DirectPurchase is one product/quantity pair of a direct-buy request.
type DirectPurchase struct {
	ProductID string
	Quantity  int
}

// CheckoutItem is the view model for one line of the checkout page.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

// OrderService handles business logic for checkout and order placement.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	gateway     PaymentGateway
	publisher   rabbitmq.Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	gateway PaymentGateway,
	publisher rabbitmq.Publisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		publisher:   publisher,
	}
}

// PlaceDirectOrders places one single-item order per (product, quantity) pair.
// Pairs referencing a missing product are skipped silently; the buyer's cart
// is cleared once all pairs are processed. Totals always come from the stored
// catalog price, never from the request.
func (s *OrderService) PlaceDirectOrders(buyerID string, purchases []DirectPurchase, addr models.Address) ([]models.Order, error) {
	placed := make([]models.Order, 0, len(purchases))

	for _, p := range purchases {
		product, err := s.productRepo.GetByID(p.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("Skipping unknown product %s in direct buy", p.ProductID)
				continue
			}
			return nil, fmt.Errorf("failed to look up product %s: %w", p.ProductID, err)
		}

		quantity := p.Quantity
		if quantity < 1 {
			quantity = 1
		}

		order := models.Order{
			ID:      uuid.New().String(),
			BuyerID: buyerID,
			Items: []models.OrderItem{{
				ProductID:  product.ID,
				MerchantID: product.CreatedBy,
				Quantity:   quantity,
				Price:      product.Price,
				Status:     models.ItemStatusPlaced,
			}},
			TotalAmount:     product.Price * float64(quantity),
			PaymentMethod:   models.PaymentMethodCOD,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: addr,
			PlacedAt:        time.Now(),
		}

		if err := s.orderRepo.Create(&order); err != nil {
			return nil, fmt.Errorf("failed to create order for product %s: %w", product.ID, err)
		}
		s.publishOrderPlaced(&order)
		placed = append(placed, order)
	}

	if err := s.userRepo.ClearCart(buyerID); err != nil {
		return nil, fmt.Errorf("failed to clear cart after direct buy: %w", err)
	}
	return placed, nil
}

// PrepareCheckout builds the checkout view model. With a productID it is a
// single-item checkout with quantity fixed at 1; otherwise the view comes from
// the cart, silently dropping entries whose product has been deleted.
func (s *OrderService) PrepareCheckout(buyerID, productID string) ([]CheckoutItem, error) {
	if productID != "" {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
			}
			return nil, fmt.Errorf("failed to look up product %s: %w", productID, err)
		}
		return []CheckoutItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
			ImageURL:  product.ImageURL,
		}}, nil
	}

	cart, err := s.userRepo.GetCart(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]CheckoutItem, 0, len(cart))
	for _, entry := range cart {
		if entry.Product == nil {
			continue // product deleted since it was carted
		}
		items = append(items, CheckoutItem{
			ProductID: entry.Product.ID,
			Name:      entry.Product.Name,
			Price:     entry.Product.Price,
			Quantity:  entry.Quantity,
			ImageURL:  entry.Product.ImageURL,
		})
	}
	return items, nil
}

// ListBuyerOrders returns the buyer's order history, newest first, with each
// line item's product and merchant resolved.
func (s *OrderService) ListBuyerOrders(buyerID string) ([]models.Order, error) {
	return s.orderRepo.GetByBuyer(buyerID)
}

// PlaceCODOrder converts the buyer's cart into one multi-item cash-on-delivery
// order shipped to the saved address at selectedAddress.
func (s *OrderService) PlaceCODOrder(buyerID string, selectedAddress int) (*models.Order, error) {
	order, err := s.assembleCartOrder(buyerID, selectedAddress)
	if err != nil {
		return nil, err
	}
	order.PaymentMethod = models.PaymentMethodCOD
	order.PaymentStatus = models.PaymentStatusPending

	return s.finalizeOrder(buyerID, order)
}

// CreatePaymentIntent registers a payment order with the gateway for the given
// amount in major currency units. The caller-supplied amount is only ever used
// for the gateway intent; persisted order totals are always recomputed from
// the catalog.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, amount float64) (*razorpay.Order, error) {
	return s.createIntent(ctx, amount, "receipt_"+uuid.New().String())
}

// CreateCartPaymentIntent registers a payment order with the gateway for the
// buyer's current cart total.
func (s *OrderService) CreateCartPaymentIntent(ctx context.Context, buyerID string) (*razorpay.Order, error) {
	cart, err := s.userRepo.GetCart(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var total float64
	for _, entry := range cart {
		if entry.Product == nil {
			continue
		}
		total += float64(entry.Quantity) * entry.Product.Price
	}
	return s.createIntent(ctx, total, "order_"+uuid.New().String())
}

// VerifyAndFinalizePayment validates the gateway signature and, on success,
// converts the buyer's cart into a paid online order.
func (s *OrderService) VerifyAndFinalizePayment(buyerID, gatewayOrderID, gatewayPaymentID, signature string, selectedAddress int) (*models.Order, error) {
	if !s.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		return nil, ErrPaymentVerificationFailed
	}

	order, err := s.assembleCartOrder(buyerID, selectedAddress)
	if err != nil {
		return nil, err
	}
	order.PaymentMethod = models.PaymentMethodOnline
	order.PaymentStatus = models.PaymentStatusPaid
	order.RazorpayOrderID = gatewayOrderID

	return s.finalizeOrder(buyerID, order)
}

// UpdateItemStatus moves one line item through its fulfilment lifecycle.
func (s *OrderService) UpdateItemStatus(orderID string, itemID uint, status, trackingID string) error {
	validStatuses := map[string]bool{
		models.ItemStatusPlaced:         true,
		models.ItemStatusPackaged:       true,
		models.ItemStatusOutForShipment: true,
		models.ItemStatusShipped:        true,
		models.ItemStatusOutForDelivery: true,
		models.ItemStatusDelivered:      true,
		models.ItemStatusCancelled:      true,
		models.ItemStatusReturned:       true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("invalid item status: %s", status)
	}
	return s.orderRepo.UpdateItemStatus(orderID, itemID, status, trackingID)
}

// assembleCartOrder loads the buyer's cart and address book and builds an
// unsaved order with one line item per usable cart entry. Payment fields are
// left for the caller to fill in.
func (s *OrderService) assembleCartOrder(buyerID string, selectedAddress int) (*models.Order, error) {
	cart, err := s.userRepo.GetCart(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var items []models.OrderItem
	var totalAmount float64
	for _, entry := range cart {
		if entry.Product == nil {
			continue
		}
		items = append(items, models.OrderItem{
			ProductID:  entry.Product.ID,
			MerchantID: entry.Product.CreatedBy,
			Quantity:   entry.Quantity,
			Price:      entry.Product.Price,
			Status:     models.ItemStatusPlaced,
		})
		totalAmount += float64(entry.Quantity) * entry.Product.Price
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	addresses, err := s.userRepo.GetAddresses(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	if selectedAddress < 0 || selectedAddress >= len(addresses) {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidAddress, selectedAddress)
	}

	return &models.Order{
		ID:              uuid.New().String(),
		BuyerID:         buyerID,
		Items:           items,
		TotalAmount:     totalAmount,
		ShippingAddress: addresses[selectedAddress].Address,
		PlacedAt:        time.Now(),
	}, nil
}

// finalizeOrder persists the order, clears the buyer's cart, and publishes the
// placement event.
func (s *OrderService) finalizeOrder(buyerID string, order *models.Order) (*models.Order, error) {
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	if err := s.userRepo.ClearCart(buyerID); err != nil {
		return nil, fmt.Errorf("failed to clear cart for order %s: %w", order.ID, err)
	}
	s.publishOrderPlaced(order)
	return order, nil
}

// createIntent converts a major-unit amount to minor units and calls the
// gateway.
func (s *OrderService) createIntent(ctx context.Context, amount float64, receipt string) (*razorpay.Order, error) {
	amountMinor := int64(math.Round(amount * minorUnitFactor))
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, paymentCurrency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGateway, err)
	}
	return gatewayOrder, nil
}

// publishOrderPlaced emits the order event. Publishing failures are logged and
// never fail the request.
func (s *OrderService) publishOrderPlaced(order *models.Order) {
	if s.publisher == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	event := rabbitmq.OrderPlacedEvent{
		OrderID:       order.ID,
		BuyerID:       order.BuyerID,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
	}
	if err := s.publisher.PublishOrderPlaced(event); err != nil {
		log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.ID, err)
	}
}
