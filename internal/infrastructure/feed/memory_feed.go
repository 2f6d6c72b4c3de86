package feed

import (
	"context"
	"sync"

	"github.com/shopdesk/backend/internal/domain/shared"
	syncx "github.com/shopdesk/backend/internal/sync"
)

// MemoryFeed is an in-process change feed for development and tests. Publish
// fans out synchronously to every subscriber of the entity type.
type MemoryFeed struct {
	mu       sync.RWMutex
	handlers map[shared.EntityType][]func(syncx.ChangeEvent)
}

// NewMemoryFeed creates an empty in-process feed
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		handlers: make(map[shared.EntityType][]func(syncx.ChangeEvent)),
	}
}

// Publish delivers the event to all current subscribers of its entity type
func (f *MemoryFeed) Publish(_ context.Context, event syncx.ChangeEvent) error {
	f.mu.RLock()
	handlers := append(([]func(syncx.ChangeEvent))(nil), f.handlers[event.EntityType]...)
	f.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
	return nil
}

// Subscribe registers the handler and blocks until the context is cancelled
func (f *MemoryFeed) Subscribe(ctx context.Context, entityType shared.EntityType, handler func(syncx.ChangeEvent)) error {
	f.mu.Lock()
	f.handlers[entityType] = append(f.handlers[entityType], handler)
	f.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Ensure MemoryFeed implements both feed sides
var (
	_ syncx.Feed          = (*MemoryFeed)(nil)
	_ syncx.FeedPublisher = (*MemoryFeed)(nil)
)
