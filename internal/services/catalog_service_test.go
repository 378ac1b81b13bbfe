package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"homecook-backend/internal/models"
	"homecook-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mapCache struct {
	data map[string][]byte
}

func (m *mapCache) GetWithPrefix(ctx context.Context, prefix, key string, dest interface{}) error {
	raw, ok := m.data[prefix+":"+key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCache) SetWithPrefix(ctx context.Context, prefix, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[prefix+":"+key] = raw
	return nil
}

func (m *mapCache) DeleteWithPrefix(ctx context.Context, prefix, key string) error {
	delete(m.data, prefix+":"+key)
	return nil
}

func seededProduct(available bool) models.Product {
	return models.Product{
		ID:          primitive.NewObjectID(),
		VendorID:    "vendor-1",
		VendorName:  "Mama Put",
		Title:       "Egusi soup",
		Price:       12.5,
		IsAvailable: available,
	}
}

func TestGetProductReadsThroughCache(t *testing.T) {
	p := seededProduct(true)
	repo := newFakeProductRepo(p)
	svc := NewCatalogService(repo, &mapCache{data: map[string][]byte{}}, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := svc.GetProduct(ctx, p.ID.Hex())
	require.NoError(t, err)
	second, err := svc.GetProduct(ctx, p.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, p.ID, second.ID)
}

func TestGetProductErrors(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = svc.GetProduct(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetOrderableProductRejectsUnavailable(t *testing.T) {
	p := seededProduct(false)
	svc := NewCatalogService(newFakeProductRepo(p), nil, time.Minute, zap.NewNop())

	_, err := svc.GetOrderableProduct(context.Background(), p.ID.Hex())
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	t.Run("blank title -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, "v1", "Cook", &CreateProductRequest{Title: "  ", Price: 3})
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, "v1", "Cook", &CreateProductRequest{Title: "Stew", Price: -1})
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("valid -> available and owned by vendor", func(t *testing.T) {
		p, err := svc.CreateProduct(ctx, "v1", "Cook", &CreateProductRequest{Title: " Stew ", Price: 3})
		require.NoError(t, err)
		assert.Equal(t, "Stew", p.Title)
		assert.Equal(t, "v1", p.VendorID)
		assert.True(t, p.IsAvailable)
		assert.False(t, p.ID.IsZero())
	})
}

func TestSetAvailabilityInvalidatesCache(t *testing.T) {
	p := seededProduct(true)
	c := &mapCache{data: map[string][]byte{}}
	svc := NewCatalogService(newFakeProductRepo(p), c, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, c.data, 1)

	_, err = svc.SetAvailability(ctx, "someone-else", p.ID.Hex(), false)
	assert.ErrorIs(t, err, ErrProductNotFound)

	updated, err := svc.SetAvailability(ctx, "vendor-1", p.ID.Hex(), false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.Empty(t, c.data)

	_, err = svc.GetOrderableProduct(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrProductUnavailable)
}
