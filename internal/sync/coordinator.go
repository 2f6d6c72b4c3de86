package sync

import (
	"context"

	"github.com/shopdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Coordinator wraps every local write so that the change feed's echo of our
// own mutation does not overwrite state that is already correct locally. It
// opens the suppression window before the write runs and lets the guard hold
// it open for a fixed delay after the write settles.
//
// The coordinator performs no rollback: if fn fails after partially applying
// optimistic state, callers own any correction (usually a Refresh).
type Coordinator struct {
	guard    *SuppressionGuard
	logger   *zap.Logger
	recorder Recorder
}

// CoordinatorOption is a functional option for Coordinator
type CoordinatorOption func(*Coordinator)

// WithRecorder sets the metrics recorder
func WithRecorder(recorder Recorder) CoordinatorOption {
	return func(c *Coordinator) {
		c.recorder = recorder
	}
}

// NewCoordinator creates a coordinator sharing the given suppression guard
// with the change-feed subscribers
func NewCoordinator(guard *SuppressionGuard, logger *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		guard:    guard,
		logger:   logger,
		recorder: NopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Guard returns the suppression guard shared with subscribers
func (c *Coordinator) Guard() *SuppressionGuard {
	return c.guard
}

// Mutate runs fn under the suppression window for the entity type. fn issues
// the gateway call and applies the optimistic collection update. The window
// opens before fn runs and is released into its post-settle hold when fn
// returns, success or failure, so a failed write never leaves the entity
// type permanently suppressed. fn's error propagates unchanged.
func (c *Coordinator) Mutate(ctx context.Context, entityType shared.EntityType, fn func(context.Context) error) error {
	c.guard.Begin(entityType)
	defer c.guard.End(entityType)

	err := fn(ctx)
	c.recorder.Mutation(entityType, err == nil)
	if err != nil {
		c.logger.Debug("coordinated mutation failed",
			zap.String("entity_type", entityType.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
