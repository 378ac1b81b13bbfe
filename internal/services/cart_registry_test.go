package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCartRegistryReturnsOneCartPerSession(t *testing.T) {
	reg := NewCartRegistry(repositories.NewMemorySnapshotRepository(), "cart", time.Second, 0, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	carts := make([]*Cart, 8)
	for i := range carts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			carts[i] = reg.Get(ctx, "s1")
		}(i)
	}
	wg.Wait()

	for _, c := range carts {
		assert.Same(t, carts[0], c)
	}
	assert.NotSame(t, carts[0], reg.Get(ctx, "s2"))
}

func TestCartRegistryEvictReloadsFromStorage(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	reg := NewCartRegistry(repo, "cart", time.Second, 0, zap.NewNop())
	ctx := context.Background()

	cart := reg.Get(ctx, "s1")
	_, err := cart.AddItem(testProduct("p1", 10), 2, "")
	require.NoError(t, err)

	require.NoError(t, reg.Evict(ctx, "s1"))
	_, err = repo.Load(ctx, "cart:s1")
	require.NoError(t, err)

	reloaded := reg.Get(ctx, "s1")
	assert.NotSame(t, cart, reloaded)
	assert.Equal(t, 2, reloaded.QuantityFor("p1"))

	assert.NoError(t, reg.Evict(ctx, "unknown"))
}

func TestCartRegistryCloseFlushesAll(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	reg := NewCartRegistry(repo, "cart", time.Second, 0, zap.NewNop())
	ctx := context.Background()

	for _, s := range []string{"a", "b", "c"} {
		_, err := reg.Get(ctx, s).AddItem(testProduct("p-"+s, 1), 1, "")
		require.NoError(t, err)
	}
	require.NoError(t, reg.Close(ctx))

	for _, s := range []string{"a", "b", "c"} {
		_, err := repo.Load(ctx, "cart:"+s)
		assert.NoError(t, err, s)
	}
}

func TestCartRegistryLoadSurvivesCancelledRequest(t *testing.T) {
	repo := newRecordingSnapshotRepo()
	stored, err := json.Marshal([]models.CartLineItem{{ID: "a", ProductID: "p1", UnitPrice: 2, Quantity: 4}})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), "cart:s1", stored))
	reg := NewCartRegistry(repo, "cart", time.Second, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cart := reg.Get(ctx, "s1")
	assert.Equal(t, 4, cart.QuantityFor("p1"))

	_, err = cart.AddItem(testProduct("p2", 1), 1, "")
	require.NoError(t, err)
	require.NoError(t, cart.Flush(context.Background()))

	reloaded := LoadCart(context.Background(), "cart:s1", repo, time.Second, zap.NewNop())
	assert.Equal(t, 4, reloaded.QuantityFor("p1"))
	assert.Equal(t, 1, reloaded.QuantityFor("p2"))
}

func TestCartRegistrySlowLoadDoesNotBlockOtherSessions(t *testing.T) {
	repo := newRecordingSnapshotRepo()
	repo.blockKey = "cart:slow"
	repo.loadStarted = make(chan struct{})
	repo.loadGate = make(chan struct{})
	reg := NewCartRegistry(repo, "cart", time.Second, 0, zap.NewNop())
	ctx := context.Background()

	slow := make(chan *Cart, 1)
	go func() { slow <- reg.Get(ctx, "slow") }()
	<-repo.loadStarted

	fast := make(chan *Cart, 1)
	go func() { fast <- reg.Get(ctx, "fast") }()
	select {
	case cart := <-fast:
		assert.NotNil(t, cart)
	case <-time.After(time.Second):
		t.Fatal("first access to another session waited on a slow load")
	}

	close(repo.loadGate)
	assert.NotNil(t, <-slow)
	assert.Equal(t, 2, reg.Len())
}

func TestCartRegistrySweepIdle(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	reg := NewCartRegistry(repo, "cart", time.Second, 10*time.Minute, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	ctx := context.Background()

	idle := reg.Get(ctx, "idle")
	_, err := idle.AddItem(testProduct("p1", 5), 2, "")
	require.NoError(t, err)
	reg.Get(ctx, "active")

	now = now.Add(6 * time.Minute)
	reg.Get(ctx, "active")
	assert.Equal(t, 0, reg.SweepIdle(ctx))

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, reg.SweepIdle(ctx))
	assert.Equal(t, 1, reg.Len())

	_, err = repo.Load(ctx, "cart:idle")
	require.NoError(t, err)
	reloaded := reg.Get(ctx, "idle")
	assert.NotSame(t, idle, reloaded)
	assert.Equal(t, 2, reloaded.QuantityFor("p1"))
}

func TestCartRegistrySweepDisabledWithoutTTL(t *testing.T) {
	reg := NewCartRegistry(repositories.NewMemorySnapshotRepository(), "cart", time.Second, 0, zap.NewNop())
	reg.Get(context.Background(), "s1")
	reg.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	assert.Equal(t, 0, reg.SweepIdle(context.Background()))
	assert.Equal(t, 1, reg.Len())
}
