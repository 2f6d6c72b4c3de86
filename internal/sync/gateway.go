package sync

import "context"

// RemoteGateway is the narrow interface to the backing store for one entity
// type. The store is the source of truth; the core never retries a failed
// call on its own.
type RemoteGateway[T any] interface {
	// List returns every record for the entity type
	List(ctx context.Context) ([]T, error)
	// Create persists a new record and returns it with the canonical id the
	// store assigned
	Create(ctx context.Context, record T) (T, error)
	// Update replaces the record with the given id. A false return with a nil
	// error means the store rejected the write (for example, the row is gone).
	Update(ctx context.Context, id string, record T) (bool, error)
	// Delete removes the record with the given id
	Delete(ctx context.Context, id string) error
}
