package repositories

import (
	"context"
	"errors"

	"homecook-backend/pkg/cache"
)

type redisSnapshotRepository struct {
	cache *cache.RedisCache
}

func NewRedisSnapshotRepository(c *cache.RedisCache) SnapshotRepository {
	return &redisSnapshotRepository{cache: c}
}

func (r *redisSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.cache.GetBytes(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrSnapshotNotFound
	}
	return data, err
}

func (r *redisSnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	return r.cache.SetBytes(ctx, key, data, 0)
}

func (r *redisSnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
