package activity

import (
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// Entry is an immutable, append-only activity log record produced as a side
// effect of mutations. Entries are never updated or deleted by the core.
// TargetID and TargetType reference the record the action touched.
type Entry struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	Description string            `json:"description"`
	TargetID    string            `json:"target_id,omitempty" gorm:"index"`
	TargetType  shared.EntityType `json:"target_type,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewEntry creates a new activity entry referencing a record
func NewEntry(description string, targetType shared.EntityType, targetID string) Entry {
	return Entry{
		Description: description,
		TargetID:    targetID,
		TargetType:  targetType,
		Timestamp:   time.Now(),
	}
}

// EntityID returns the entry id
func (e Entry) EntityID() string {
	return e.ID
}

// WithID returns a copy with the canonical id assigned
func (e Entry) WithID(id string) Entry {
	e.ID = id
	return e
}

// Clone returns a copy of the entry. All fields are value types.
func (e Entry) Clone() Entry {
	return e
}
