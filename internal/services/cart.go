package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cart is the state container for one session's cart. The in-memory line
// sequence is authoritative; every mutation hands a full snapshot to a
// background writer and returns without waiting for storage.
type Cart struct {
	mu     sync.RWMutex
	items  []models.CartLineItem
	writer *snapshotWriter
	newID  func() string
	logger *zap.Logger
}

// LoadCart builds the cart stored under key. A missing, unreadable or corrupt
// snapshot yields an empty cart; the failure is only logged.
func LoadCart(ctx context.Context, key string, repo repositories.SnapshotRepository, persistTimeout time.Duration, logger *zap.Logger) *Cart {
	logger = logger.With(zap.String("cart_key", key))
	cart := &Cart{
		writer: newSnapshotWriter(key, repo, persistTimeout, logger),
		newID:  uuid.NewString,
		logger: logger,
	}

	data, err := repo.Load(ctx, key)
	switch {
	case errors.Is(err, repositories.ErrSnapshotNotFound):
		return cart
	case err != nil:
		logger.Warn("cart snapshot load failed, starting empty", zap.Error(err))
		return cart
	}

	items, err := decodeSnapshot(data)
	if err != nil {
		logger.Warn("cart snapshot is corrupt, starting empty", zap.Error(err))
		return cart
	}
	cart.items = items
	return cart
}

// AddItem merges quantity into the line for the product, or appends a new
// line. Non-empty instructions replace the previous ones; empty instructions
// keep them.
func (c *Cart) AddItem(product models.CartProduct, quantity int, instructions string) (models.CartLineItem, error) {
	if quantity < 1 {
		return models.CartLineItem{}, ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == product.ProductID {
			c.items[i].Quantity += quantity
			if instructions != "" {
				c.items[i].SpecialInstructions = instructions
			}
			c.persistLocked()
			return c.items[i], nil
		}
	}

	item := models.CartLineItem{
		ID:                  c.newID(),
		ProductID:           product.ProductID,
		Title:               product.Title,
		Description:         product.Description,
		UnitPrice:           product.UnitPrice,
		ImageRef:            product.ImageRef,
		VendorID:            product.VendorID,
		VendorName:          product.VendorName,
		Quantity:            quantity,
		SpecialInstructions: instructions,
	}
	c.items = append(c.items, item)
	c.persistLocked()
	return item, nil
}

// RemoveItem drops the line with lineID. Unknown ids are ignored.
func (c *Cart) RemoveItem(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.removeLocked(lineID) {
		c.persistLocked()
	}
}

// UpdateQuantity overwrites the quantity of a line; quantity <= 0 removes it.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		if c.removeLocked(lineID) {
			c.persistLocked()
		}
		return
	}

	if i := c.indexLocked(lineID); i >= 0 {
		c.items[i].Quantity = quantity
		c.persistLocked()
	}
}

// UpdateInstructions overwrites the instructions of a line, including
// clearing them with "". It reports whether the line exists.
func (c *Cart) UpdateInstructions(lineID, instructions string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(lineID)
	if i < 0 {
		return false
	}
	c.items[i].SpecialInstructions = instructions
	c.persistLocked()
	return true
}

// DeductOrdered takes quantity away from a line after it has been ordered,
// removing the line once nothing is left. Quantity merged into the line since
// it was read stays in the cart.
func (c *Cart) DeductOrdered(lineID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(lineID)
	if i < 0 || quantity <= 0 {
		return
	}
	c.items[i].Quantity -= quantity
	if c.items[i].Quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.persistLocked()
}

// Clear empties the cart and drops its stored snapshot.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.writer.ScheduleDelete()
}

// QuantityFor returns the quantity held for productID, 0 if none.
func (c *Cart) QuantityFor(productID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return countOf(c.items)
}

func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return totalOf(c.items)
}

// Items returns a copy of the line sequence in insertion order.
func (c *Cart) Items() []models.CartLineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.CartLineItem{}, c.items...)
}

// Summary returns items, count and total read under one lock.
func (c *Cart) Summary() models.CartSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return models.CartSummary{
		Items: append([]models.CartLineItem{}, c.items...),
		Count: countOf(c.items),
		Total: totalOf(c.items),
	}
}

// Flush waits for scheduled snapshot writes to finish.
func (c *Cart) Flush(ctx context.Context) error {
	return c.writer.Flush(ctx)
}

func (c *Cart) indexLocked(lineID string) int {
	for i := range c.items {
		if c.items[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeLocked(lineID string) bool {
	i := c.indexLocked(lineID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// persistLocked must run under the write lock so snapshots reach the writer in
// mutation order.
func (c *Cart) persistLocked() {
	items := c.items
	if items == nil {
		items = []models.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("cart snapshot encode failed", zap.Error(err))
		return
	}
	c.writer.Schedule(data)
}

func countOf(items []models.CartLineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func totalOf(items []models.CartLineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// decodeSnapshot parses a stored snapshot and restores the line invariants:
// no non-positive quantities, one line per product, a unique id per line.
func decodeSnapshot(data []byte) ([]models.CartLineItem, error) {
	var stored []models.CartLineItem
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	items := make([]models.CartLineItem, 0, len(stored))
	byProduct := make(map[string]int, len(stored))
	seenIDs := make(map[string]bool, len(stored))
	for _, item := range stored {
		if item.Quantity <= 0 || item.ProductID == "" {
			continue
		}
		if i, ok := byProduct[item.ProductID]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		if item.ID == "" || seenIDs[item.ID] {
			item.ID = uuid.NewString()
		}
		seenIDs[item.ID] = true
		byProduct[item.ProductID] = len(items)
		items = append(items, item)
	}
	return items, nil
}
