package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a lifecycle event emitted by the orchestrator
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	AggregateType() EntityType
}

// BaseDomainEvent provides common fields for all lifecycle events
type BaseDomainEvent struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	AggID     string     `json:"aggregate_id"`
	AggType   EntityType `json:"aggregate_type"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the id of the record that produced this event
func (e *BaseDomainEvent) AggregateID() string {
	return e.AggID
}

// AggregateType returns the entity type of the record
func (e *BaseDomainEvent) AggregateType() EntityType {
	return e.AggType
}

// NewBaseDomainEvent creates a new base lifecycle event
func NewBaseDomainEvent(eventType string, aggType EntityType, aggID string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
	}
}
