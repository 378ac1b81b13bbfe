package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by the getters when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, jsonData, expiration).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := r.GetBytes(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

// SetBytes stores raw bytes with no expiry when expiration is zero.
func (r *RedisCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) SetWithPrefix(ctx context.Context, prefix, key string, value interface{}, expiration time.Duration) error {
	return r.Set(ctx, prefix+":"+key, value, expiration)
}

func (r *RedisCache) GetWithPrefix(ctx context.Context, prefix, key string, dest interface{}) error {
	return r.Get(ctx, prefix+":"+key, dest)
}

func (r *RedisCache) DeleteWithPrefix(ctx context.Context, prefix, key string) error {
	return r.Delete(ctx, prefix+":"+key)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
