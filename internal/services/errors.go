package services

import "errors"

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidProductID   = errors.New("invalid product ID")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidProduct     = errors.New("product needs a title and a non-negative price")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderID     = errors.New("invalid order ID")
	ErrOrderNotFound      = errors.New("order not found")
)
