package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const productCachePrefix = "product"

// ProductCache is the read-through cache in front of the catalog.
type ProductCache interface {
	GetWithPrefix(ctx context.Context, prefix, key string, dest interface{}) error
	SetWithPrefix(ctx context.Context, prefix, key string, value interface{}, expiration time.Duration) error
	DeleteWithPrefix(ctx context.Context, prefix, key string) error
}

type CatalogService struct {
	productRepo repositories.ProductRepository
	cache       ProductCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewCatalogService accepts a nil cache, in which case every lookup goes to the repository.
func NewCatalogService(productRepo repositories.ProductRepository, cache ProductCache, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	ImageRef    string   `json:"image_ref"`
	Tags        []string `json:"tags"`
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	if s.cache != nil {
		var cached models.Product
		if err := s.cache.GetWithPrefix(ctx, productCachePrefix, productID, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	if s.cache != nil {
		if err := s.cache.SetWithPrefix(ctx, productCachePrefix, productID, product, s.cacheTTL); err != nil {
			s.logger.Warn("product cache write failed", zap.String("product_id", productID), zap.Error(err))
		}
	}
	return product, nil
}

// GetOrderableProduct is GetProduct restricted to products that can go into a cart.
func (s *CatalogService) GetOrderableProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, vendorID, vendorName string, req *CreateProductRequest) (*models.Product, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Price < 0 {
		return nil, ErrInvalidProduct
	}

	product := &models.Product{
		VendorID:    vendorID,
		VendorName:  vendorName,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		ImageRef:    req.ImageRef,
		IsAvailable: true,
		Tags:        req.Tags,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("vendor_id", vendorID))
	return product, nil
}

// SetAvailability lets the owning cook take a product off or back on the menu.
func (s *CatalogService) SetAvailability(ctx context.Context, vendorID, productID string, available bool) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	// Another cook's product is reported as missing.
	if product.VendorID != vendorID {
		return nil, ErrProductNotFound
	}

	product.IsAvailable = available
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteWithPrefix(ctx, productCachePrefix, productID); err != nil {
			s.logger.Warn("product cache invalidation failed", zap.String("product_id", productID), zap.Error(err))
		}
	}
	return product, nil
}

func (s *CatalogService) ListVendorProducts(ctx context.Context, vendorID string, limit, offset int) ([]models.Product, error) {
	products, err := s.productRepo.GetByVendorID(ctx, vendorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products of vendor %s: %w", vendorID, err)
	}
	return products, nil
}
