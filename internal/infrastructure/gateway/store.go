package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the gorm-backed RemoteGateway for one entity type. After every
// durable write it publishes a change event so every client, including this
// one, hears about the mutation; this client's own subscriber drops the echo
// through the suppression window.
type Store[T shared.Record[T]] struct {
	db         *gorm.DB
	entityType shared.EntityType
	publisher  syncx.FeedPublisher
	logger     *zap.Logger
}

// StoreOption is a functional option for Store
type StoreOption[T shared.Record[T]] func(*Store[T])

// WithPublisher sets the change-feed publisher notified after writes
func WithPublisher[T shared.Record[T]](publisher syncx.FeedPublisher) StoreOption[T] {
	return func(s *Store[T]) {
		s.publisher = publisher
	}
}

// NewStore creates a gateway store for one entity type
func NewStore[T shared.Record[T]](db *Database, entityType shared.EntityType, logger *zap.Logger, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		db:         db.DB,
		entityType: entityType,
		logger:     logger.With(zap.String("entity_type", entityType.String())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every record for the entity type
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.entityType, err)
	}
	return records, nil
}

// Create persists a new record, assigning the canonical id
func (s *Store[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	created := record
	if created.EntityID() == "" {
		created = created.WithID(uuid.NewString())
	}

	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return zero, fmt.Errorf("create %s: %w", s.entityType, err)
	}

	s.notify(ctx, syncx.ChangeInsert, created.EntityID(), created)
	return created, nil
}

// Update replaces the record with the given id. Returns false without error
// when no such row exists.
func (s *Store[T]) Update(ctx context.Context, id string, record T) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("update %s: %w", s.entityType, err)
	}
	if count == 0 {
		return false, nil
	}

	updated := record.WithID(id)
	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return false, fmt.Errorf("update %s: %w", s.entityType, err)
	}

	s.notify(ctx, syncx.ChangeUpdate, id, updated)
	return true, nil
}

// Delete removes the record with the given id. Deleting an absent row is not
// an error.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete %s: %w", s.entityType, err)
	}

	s.notify(ctx, syncx.ChangeDelete, id, nil)
	return nil
}

// notify publishes a change event. A publish failure is logged, not
// returned: the write is already durable, and a missed notification heals on
// the next refresh.
func (s *Store[T]) notify(ctx context.Context, kind syncx.ChangeKind, id string, record any) {
	if s.publisher == nil {
		return
	}

	event, err := syncx.NewChangeEvent(kind, s.entityType, id, record)
	if err != nil {
		s.logger.Error("failed to encode change event",
			zap.String("kind", string(kind)),
			zap.String("record_id", id),
			zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish change event",
			zap.String("kind", string(kind)),
			zap.String("record_id", id),
			zap.Error(err))
	}
}

// Ensure Store satisfies the gateway contract
var _ syncx.RemoteGateway[trade.Order] = (*Store[trade.Order])(nil)
