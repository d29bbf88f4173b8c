package services

import "errors"

// Failure taxonomy for checkout and order placement. Handlers branch on these
// with errors.Is to pick the response shape.
var (
	// ErrProductNotFound indicates an explicitly requested product does not
	// exist in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrEmptyCart indicates a cart-based flow was attempted with no usable
	// cart entries.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidAddress indicates the selected address index is outside the
	// buyer's saved address list.
	ErrInvalidAddress = errors.New("invalid address selection")

	// ErrPaymentVerificationFailed indicates the gateway signature did not
	// match the expected HMAC.
	ErrPaymentVerificationFailed = errors.New("payment verification failed")

	// ErrUpstreamGateway indicates the payment gateway call itself failed.
	ErrUpstreamGateway = errors.New("payment gateway error")
)
