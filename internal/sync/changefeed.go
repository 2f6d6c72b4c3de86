package sync

import (
	"context"
	"encoding/json"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// ChangeKind classifies a change-feed notification
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// IsValid checks if the kind is a known change kind
func (k ChangeKind) IsValid() bool {
	return k == ChangeInsert || k == ChangeUpdate || k == ChangeDelete
}

// ChangeEvent is one push notification from the remote store. It is
// ephemeral: consumed exactly once by the collection it targets, never
// persisted. Record carries the full row for inserts and updates; deletes
// carry only RecordID.
type ChangeEvent struct {
	Kind       ChangeKind        `json:"kind"`
	EntityType shared.EntityType `json:"entity_type"`
	RecordID   string            `json:"record_id"`
	Record     json.RawMessage   `json:"record,omitempty"`
}

// NewChangeEvent builds a change event carrying the record encoded as JSON
func NewChangeEvent(kind ChangeKind, entityType shared.EntityType, recordID string, record any) (ChangeEvent, error) {
	ev := ChangeEvent{
		Kind:       kind,
		EntityType: entityType,
		RecordID:   recordID,
	}
	if record != nil {
		data, err := json.Marshal(record)
		if err != nil {
			return ChangeEvent{}, err
		}
		ev.Record = data
	}
	return ev, nil
}

// Feed is the push channel from the remote store. The transport reconnects
// dropped subscriptions on its own; a missed notification is self-healing
// because the next full Refresh re-lists from the gateway.
type Feed interface {
	// Subscribe blocks, delivering every notification for the entity type to
	// the handler until the context is cancelled.
	Subscribe(ctx context.Context, entityType shared.EntityType, handler func(ChangeEvent)) error
}

// FeedPublisher is the write side of the change feed, used by gateway
// implementations to notify all clients after a durable write.
type FeedPublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}
