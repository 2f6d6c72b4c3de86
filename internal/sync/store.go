package sync

import (
	"context"
	"fmt"

	"github.com/shopdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntityStore ties together the collection, gateway, and coordinator for one
// entity type. It is the only mutation surface for that type: every write
// goes to the gateway under the suppression window and is applied to the
// collection optimistically once the gateway accepts it. There is one store
// instance per entity type for the life of the process; views read snapshots.
type EntityStore[T shared.Record[T]] struct {
	entityType  shared.EntityType
	gateway     RemoteGateway[T]
	collection  *Collection[T]
	coordinator *Coordinator
	logger      *zap.Logger
}

// NewEntityStore creates the store for one entity type
func NewEntityStore[T shared.Record[T]](
	entityType shared.EntityType,
	gateway RemoteGateway[T],
	collection *Collection[T],
	coordinator *Coordinator,
	logger *zap.Logger,
) *EntityStore[T] {
	return &EntityStore[T]{
		entityType:  entityType,
		gateway:     gateway,
		collection:  collection,
		coordinator: coordinator,
		logger:      logger.With(zap.String("entity_type", entityType.String())),
	}
}

// EntityType returns the entity type this store owns
func (s *EntityStore[T]) EntityType() shared.EntityType {
	return s.entityType
}

// Snapshot returns a read-only copy of the collection
func (s *EntityStore[T]) Snapshot() []T {
	return s.collection.Snapshot()
}

// Get returns the record with the given id
func (s *EntityStore[T]) Get(id string) (T, bool) {
	return s.collection.Get(id)
}

// Find returns the first record matching the predicate
func (s *EntityStore[T]) Find(match func(T) bool) (T, bool) {
	return s.collection.Find(match)
}

// Save persists the record and applies it to the collection. A record without
// an id is created and returned with the canonical id the store assigned;
// otherwise the record replaces the existing row, last write to settle wins.
// On failure the collection keeps its last known good state; nothing applied
// by an earlier step of a compound operation is rolled back.
func (s *EntityStore[T]) Save(ctx context.Context, record T) (T, error) {
	saved := record
	err := s.coordinator.Mutate(ctx, s.entityType, func(ctx context.Context) error {
		if record.EntityID() == "" {
			created, err := s.gateway.Create(ctx, record)
			if err != nil {
				return err
			}
			if created.EntityID() == "" {
				return shared.ErrWriteRejected
			}
			saved = created
		} else {
			ok, err := s.gateway.Update(ctx, record.EntityID(), record)
			if err != nil {
				return err
			}
			if !ok {
				return shared.ErrWriteRejected
			}
		}
		s.collection.Upsert(saved)
		return nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("save %s: %w", s.entityType, err)
	}
	return saved, nil
}

// Remove deletes the record remotely and from the collection
func (s *EntityStore[T]) Remove(ctx context.Context, id string) error {
	err := s.coordinator.Mutate(ctx, s.entityType, func(ctx context.Context) error {
		if err := s.gateway.Delete(ctx, id); err != nil {
			return err
		}
		s.collection.Remove(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", s.entityType, err)
	}
	return nil
}

// Refresh re-lists every record from the gateway and replaces the collection
// contents. This is the self-healing path for any notification the feed
// missed.
func (s *EntityStore[T]) Refresh(ctx context.Context) error {
	records, err := s.gateway.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", s.entityType, err)
	}
	s.collection.ReplaceAll(records)
	s.logger.Debug("collection refreshed", zap.Int("count", len(records)))
	return nil
}
