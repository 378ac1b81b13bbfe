package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"homecook-backend/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type registryEntry struct {
	cart       *Cart
	lastAccess time.Time
}

// CartRegistry holds one Cart per session. A cart is loaded from storage the
// first time its session is seen and stays resident until evicted, either
// explicitly or after idleTTL without access.
type CartRegistry struct {
	repo           repositories.SnapshotRepository
	keyPrefix      string
	persistTimeout time.Duration
	idleTTL        time.Duration
	logger         *zap.Logger
	now            func() time.Time

	loads singleflight.Group

	mu    sync.Mutex
	carts map[string]*registryEntry
}

// NewCartRegistry builds a registry. An idleTTL of 0 keeps carts until they
// are evicted explicitly.
func NewCartRegistry(repo repositories.SnapshotRepository, keyPrefix string, persistTimeout, idleTTL time.Duration, logger *zap.Logger) *CartRegistry {
	return &CartRegistry{
		repo:           repo,
		keyPrefix:      keyPrefix,
		persistTimeout: persistTimeout,
		idleTTL:        idleTTL,
		logger:         logger,
		now:            time.Now,
		carts:          make(map[string]*registryEntry),
	}
}

// Get returns the session's cart, loading it on first access. Concurrent first
// calls for one session load once; other sessions are not blocked meanwhile.
func (r *CartRegistry) Get(ctx context.Context, sessionID string) *Cart {
	if cart := r.lookup(sessionID); cart != nil {
		return cart
	}

	v, _, _ := r.loads.Do(sessionID, func() (interface{}, error) {
		if cart := r.lookup(sessionID); cart != nil {
			return cart, nil
		}

		// The load outlives the request: a client that goes away mid-load
		// must not leave an empty cart cached over the stored one.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.persistTimeout)
		defer cancel()
		cart := LoadCart(loadCtx, r.storageKey(sessionID), r.repo, r.persistTimeout, r.logger)

		r.mu.Lock()
		r.carts[sessionID] = &registryEntry{cart: cart, lastAccess: r.now()}
		r.mu.Unlock()
		return cart, nil
	})
	return v.(*Cart)
}

func (r *CartRegistry) lookup(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.carts[sessionID]
	if !ok {
		return nil
	}
	entry.lastAccess = r.now()
	return entry.cart
}

// Evict flushes the session's cart and forgets it. The stored snapshot is kept.
func (r *CartRegistry) Evict(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	entry, ok := r.carts[sessionID]
	delete(r.carts, sessionID)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return entry.cart.Flush(ctx)
}

// SweepIdle flushes and drops carts not accessed within idleTTL and returns
// how many were dropped. A cart touched while it is being flushed stays.
func (r *CartRegistry) SweepIdle(ctx context.Context) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	idle := make(map[string]*registryEntry)
	for sessionID, entry := range r.carts {
		if entry.lastAccess.Before(cutoff) {
			idle[sessionID] = entry
		}
	}
	r.mu.Unlock()

	evicted := 0
	for sessionID, entry := range idle {
		if err := entry.cart.Flush(ctx); err != nil {
			r.logger.Warn("idle cart flush failed", zap.String("session_id", sessionID), zap.Error(err))
			continue
		}

		r.mu.Lock()
		if current, ok := r.carts[sessionID]; ok && current == entry && entry.lastAccess.Before(cutoff) {
			delete(r.carts, sessionID)
			evicted++
		}
		r.mu.Unlock()
	}

	if evicted > 0 {
		r.logger.Debug("idle carts evicted", zap.Int("carts", evicted))
	}
	return evicted
}

// RunSweeper calls SweepIdle every interval until ctx ends.
func (r *CartRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.SweepIdle(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Len reports how many carts are resident.
func (r *CartRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Close flushes every resident cart.
func (r *CartRegistry) Close(ctx context.Context) error {
	r.mu.Lock()
	carts := make([]*Cart, 0, len(r.carts))
	for _, entry := range r.carts {
		carts = append(carts, entry.cart)
	}
	r.mu.Unlock()

	var errs []error
	for _, cart := range carts {
		if err := cart.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		r.logger.Warn("cart flush incomplete on close", zap.Int("carts", len(errs)))
	}
	return errors.Join(errs...)
}

func (r *CartRegistry) storageKey(sessionID string) string {
	return r.keyPrefix + ":" + sessionID
}
