package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homecook-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cart snapshot repository implementation
type postgresSnapshotRepository struct {
	db *gorm.DB
}

func NewPostgresSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

func (r *postgresSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var snapshot models.CartSnapshot
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Data, nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	snapshot := models.CartSnapshot{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snapshot).Error
}

func (r *postgresSnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.CartSnapshot{}).Error
}

// Order repository implementation
type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateAll inserts every order with its items, or none of them.
func (r *orderRepository) CreateAll(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if err := tx.Create(&orders[i]).Error; err != nil {
				return fmt.Errorf("insert order for vendor %s: %w", orders[i].VendorID, err)
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}
