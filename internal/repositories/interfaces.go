package repositories

import (
	"context"
	"errors"

	"homecook-backend/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSnapshotNotFound is returned by SnapshotRepository.Load when nothing is stored under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository is a durable key/value slot holding serialized cart snapshots.
// Save overwrites the whole value.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// ProductRepository interface for MongoDB product operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]models.Product, error)
}

// OrderRepository interface for PostgreSQL order operations
type OrderRepository interface {
	// CreateAll inserts the orders and their items in one transaction.
	CreateAll(ctx context.Context, orders []models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]models.Order, error)
}
