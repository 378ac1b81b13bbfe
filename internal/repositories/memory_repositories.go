package repositories

import (
	"context"
	"sync"
)

// MemorySnapshotRepository keeps snapshots in process memory. It backs the
// "memory" storage driver and the tests.
type MemorySnapshotRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{data: make(map[string][]byte)}
}

func (r *MemorySnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.data[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *MemorySnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), data...)
	return nil
}

func (r *MemorySnapshotRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}
