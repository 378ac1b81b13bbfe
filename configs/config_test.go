package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CART_PERSIST_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CART_IDLE_TTL", "")

	cfg := LoadConfig()

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cart", cfg.Cart.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Cart.PersistTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Cart.IdleTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("CART_PERSIST_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadConfig()

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Cart.PersistTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestGetEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("CART_PERSIST_TIMEOUT", "soon")

	assert.Equal(t, 0, getEnvInt("REDIS_DB", 0))
	assert.Equal(t, time.Second, getEnvDuration("CART_PERSIST_TIMEOUT", time.Second))
}
