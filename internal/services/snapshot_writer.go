package services

import (
	"context"
	"sync"
	"time"

	"homecook-backend/internal/repositories"

	"go.uber.org/zap"
)

// snapshotWriter persists the snapshots of one cart in the background. At most
// one write is in flight; snapshots scheduled meanwhile replace each other, so
// the next write always carries the newest state. A nil pending snapshot
// deletes the stored one.
type snapshotWriter struct {
	key     string
	repo    repositories.SnapshotRepository
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	pending []byte
	dirty   bool
	running bool
	done    chan struct{}
}

func newSnapshotWriter(key string, repo repositories.SnapshotRepository, timeout time.Duration, logger *zap.Logger) *snapshotWriter {
	return &snapshotWriter{
		key:     key,
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// Schedule records data as the latest snapshot and returns immediately.
func (w *snapshotWriter) Schedule(data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(data)
}

// ScheduleDelete queues removal of the stored snapshot in line with writes.
func (w *snapshotWriter) ScheduleDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(nil)
}

func (w *snapshotWriter) scheduleLocked(data []byte) {
	w.pending = data
	w.dirty = true
	if !w.running {
		w.running = true
		w.done = make(chan struct{})
		go w.run(w.done)
	}
}

func (w *snapshotWriter) run(done chan struct{}) {
	for {
		w.mu.Lock()
		if !w.dirty {
			w.running = false
			w.mu.Unlock()
			close(done)
			return
		}
		data := w.pending
		w.pending = nil
		w.dirty = false
		w.mu.Unlock()

		w.write(data)
	}
}

func (w *snapshotWriter) write(data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if data == nil {
		if err := w.repo.Delete(ctx, w.key); err != nil {
			w.logger.Warn("cart snapshot delete failed", zap.String("key", w.key), zap.Error(err))
			return
		}
		w.logger.Debug("cart snapshot deleted", zap.String("key", w.key))
		return
	}

	if err := w.repo.Save(ctx, w.key, data); err != nil {
		w.logger.Warn("cart snapshot write failed",
			zap.String("key", w.key),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return
	}
	w.logger.Debug("cart snapshot written", zap.String("key", w.key), zap.Int("bytes", len(data)))
}

// Flush waits until nothing is pending or in flight.
func (w *snapshotWriter) Flush(ctx context.Context) error {
	for {
		w.mu.Lock()
		if !w.running {
			w.mu.Unlock()
			return nil
		}
		done := w.done
		w.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
