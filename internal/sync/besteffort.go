package sync

import (
	"go.uber.org/zap"
)

// BestEffort runs a side-effect task whose failure must never surface to the
// caller. Errors and panics are logged with the task name and swallowed. The
// deliberate swallowing lives here in one place instead of scattered
// recover/if-err blocks around every secondary effect.
func BestEffort(logger *zap.Logger, task string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("best-effort task panicked",
				zap.String("task", task),
				zap.Any("panic", r),
			)
		}
	}()

	if err := fn(); err != nil {
		logger.Warn("best-effort task failed",
			zap.String("task", task),
			zap.Error(err),
		)
	}
}

// GoBestEffort runs the task on its own goroutine, for effects that should
// not delay the primary operation (export sync, customer messaging).
func GoBestEffort(logger *zap.Logger, task string, fn func() error) {
	go BestEffort(logger, task, fn)
}
