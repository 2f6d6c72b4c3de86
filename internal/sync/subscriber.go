package sync

import (
	"context"
	"encoding/json"

	"github.com/shopdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Subscriber consumes the change feed for one entity type and reconciles
// notifications into the collection. Events arriving while the suppression
// window is open are dropped: the local optimistic state is already equal or
// newer, and refetching would race the write and regress it.
//
// Out-of-order anomalies (a delete before the insert was ever seen, an update
// for an unknown id) reduce to plain upsert/remove, which are idempotent and
// self-correcting, so no case is special-cased as an error.
type Subscriber[T shared.Record[T]] struct {
	entityType shared.EntityType
	feed       Feed
	collection *Collection[T]
	guard      *SuppressionGuard
	logger     *zap.Logger
	recorder   Recorder
}

// SubscriberOption is a functional option for Subscriber
type SubscriberOption[T shared.Record[T]] func(*Subscriber[T])

// WithSubscriberRecorder sets the metrics recorder
func WithSubscriberRecorder[T shared.Record[T]](recorder Recorder) SubscriberOption[T] {
	return func(s *Subscriber[T]) {
		s.recorder = recorder
	}
}

// NewSubscriber creates a subscriber for one entity type. The guard must be
// the same instance used by the coordinator mutating this collection.
func NewSubscriber[T shared.Record[T]](
	entityType shared.EntityType,
	feed Feed,
	collection *Collection[T],
	guard *SuppressionGuard,
	logger *zap.Logger,
	opts ...SubscriberOption[T],
) *Subscriber[T] {
	s := &Subscriber[T]{
		entityType: entityType,
		feed:       feed,
		collection: collection,
		guard:      guard,
		logger:     logger.With(zap.String("entity_type", entityType.String())),
		recorder:   NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the subscription in a background goroutine. The transport
// reconnects on its own; if the subscription ends with an error it is logged,
// and the next Refresh heals anything missed.
func (s *Subscriber[T]) Start(ctx context.Context) {
	go func() {
		if err := s.feed.Subscribe(ctx, s.entityType, s.Apply); err != nil && ctx.Err() == nil {
			s.logger.Error("change feed subscription ended", zap.Error(err))
		}
	}()
}

// Apply reconciles a single notification into the collection. Exported so
// in-process feeds can deliver synchronously.
func (s *Subscriber[T]) Apply(event ChangeEvent) {
	if event.EntityType != s.entityType {
		return
	}

	if s.guard.Active(s.entityType) {
		s.recorder.FeedEvent(s.entityType, event.Kind, false)
		s.logger.Debug("dropped change event inside suppression window",
			zap.String("kind", string(event.Kind)),
			zap.String("record_id", event.RecordID),
		)
		return
	}

	switch event.Kind {
	case ChangeInsert, ChangeUpdate:
		var record T
		if err := json.Unmarshal(event.Record, &record); err != nil {
			s.logger.Error("failed to decode change event record",
				zap.String("kind", string(event.Kind)),
				zap.String("record_id", event.RecordID),
				zap.Error(err),
			)
			return
		}
		s.collection.Upsert(record)
	case ChangeDelete:
		s.collection.Remove(event.RecordID)
	default:
		s.logger.Warn("unknown change event kind", zap.String("kind", string(event.Kind)))
		return
	}
	s.recorder.FeedEvent(s.entityType, event.Kind, true)
}
