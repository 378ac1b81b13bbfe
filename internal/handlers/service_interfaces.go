package handlers

import (
	"context"

	"homecook-backend/internal/models"
	"homecook-backend/internal/services"
)

// CartProvider hands out the cart of a session
type CartProvider interface {
	Get(ctx context.Context, sessionID string) *services.Cart
	Evict(ctx context.Context, sessionID string) error
}

// CatalogServiceInterface defines the contract for catalog service
type CatalogServiceInterface interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	GetOrderableProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, vendorID, vendorName string, req *services.CreateProductRequest) (*models.Product, error)
	SetAvailability(ctx context.Context, vendorID, productID string, available bool) (*models.Product, error)
	ListVendorProducts(ctx context.Context, vendorID string, limit, offset int) ([]models.Product, error)
}

// CheckoutServiceInterface defines the contract for checkout service
type CheckoutServiceInterface interface {
	PlaceOrder(ctx context.Context, sessionID string, cart *services.Cart, req *services.PlaceOrderRequest) ([]models.Order, error)
	ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]models.Order, error)
	GetOrder(ctx context.Context, sessionID, orderID string) (*models.Order, error)
}
