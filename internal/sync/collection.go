package sync

import (
	stdsync "sync"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// Collection is an ordered, id-keyed in-memory set of records for one entity
// type. It is pure bookkeeping and cannot fail: upsert and remove are
// idempotent, and readers only ever receive snapshot copies. Each collection
// is owned by one coordinator/subscriber pair; the UI reads snapshots only.
type Collection[T shared.Record[T]] struct {
	mu    stdsync.RWMutex
	items map[string]T
	order []string
}

// NewCollection creates an empty collection
func NewCollection[T shared.Record[T]]() *Collection[T] {
	return &Collection[T]{
		items: make(map[string]T),
	}
}

// Upsert inserts the record or replaces it in place. A replaced record keeps
// its position in the iteration order; a new record is appended. Applying the
// same record twice yields the same final state.
func (c *Collection[T]) Upsert(record T) {
	id := record.EntityID()
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = record.Clone()
}

// Remove deletes the record with the given id. No-op if absent.
func (c *Collection[T]) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		return
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the record with the given id. The copy does not
// share slice or pointer fields with the stored record.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return record.Clone(), true
}

// Find returns a copy of the first record matching the predicate, in
// iteration order.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if record := c.items[id]; match(record) {
			return record.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of all records in iteration order. The slice and
// every record in it are owned by the caller; mutating them, including the
// records' slice fields, does not affect the collection.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id].Clone())
	}
	return out
}

// Len returns the number of records
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// ReplaceAll swaps the collection contents for a freshly listed set of
// records, used by full reconciliation after a refresh.
func (c *Collection[T]) ReplaceAll(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]T, len(records))
	c.order = c.order[:0]
	for _, record := range records {
		id := record.EntityID()
		if id == "" {
			continue
		}
		if _, exists := c.items[id]; !exists {
			c.order = append(c.order, id)
		}
		c.items[id] = record.Clone()
	}
}
