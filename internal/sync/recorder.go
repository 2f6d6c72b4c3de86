package sync

import "github.com/shopdesk/backend/internal/domain/shared"

// Recorder receives sync-layer observations. The metrics package provides a
// Prometheus-backed implementation; everything else uses NopRecorder.
type Recorder interface {
	// FeedEvent is called for every change-feed notification; applied is
	// false when the event was dropped by an active suppression window.
	FeedEvent(entityType shared.EntityType, kind ChangeKind, applied bool)
	// Mutation is called after a coordinated local mutation settles
	Mutation(entityType shared.EntityType, succeeded bool)
}

// NopRecorder discards all observations
type NopRecorder struct{}

// FeedEvent implements Recorder
func (NopRecorder) FeedEvent(shared.EntityType, ChangeKind, bool) {}

// Mutation implements Recorder
func (NopRecorder) Mutation(shared.EntityType, bool) {}
