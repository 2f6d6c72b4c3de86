package sync

import (
	stdsync "sync"
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// DefaultSuppressionHold is how long a suppression window outlives a settled
// mutation. The remote store's own echo usually arrives within a second of
// the write returning; 1.5s absorbs network and server processing latency.
const DefaultSuppressionHold = 1500 * time.Millisecond

type suppressionState struct {
	inflight int
	until    time.Time
}

// SuppressionGuard tracks one suppression window per entity type. A window is
// active while any local mutation for that type is in flight, and stays
// active for the hold duration after the last one settles, so the store's
// echo of our own write gets dropped instead of clobbering local state.
//
// The window is deadline-based and checked at read time, so no timer
// goroutine runs per mutation.
type SuppressionGuard struct {
	mu     stdsync.Mutex
	hold   time.Duration
	now    func() time.Time
	states map[shared.EntityType]*suppressionState
}

// SuppressionGuardOption is a functional option for SuppressionGuard
type SuppressionGuardOption func(*SuppressionGuard)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) SuppressionGuardOption {
	return func(g *SuppressionGuard) {
		g.now = now
	}
}

// NewSuppressionGuard creates a guard with the given post-settle hold
func NewSuppressionGuard(hold time.Duration, opts ...SuppressionGuardOption) *SuppressionGuard {
	if hold <= 0 {
		hold = DefaultSuppressionHold
	}
	g := &SuppressionGuard{
		hold:   hold,
		now:    time.Now,
		states: make(map[shared.EntityType]*suppressionState),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Begin opens the window for the entity type. Must be called before the
// remote write is issued, so an early echo cannot slip past.
func (g *SuppressionGuard) Begin(entityType shared.EntityType) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.states[entityType]
	if state == nil {
		state = &suppressionState{}
		g.states[entityType] = state
	}
	state.inflight++
}

// End marks one mutation as settled. The window stays active for the hold
// duration afterward, regardless of whether the mutation succeeded; a failed
// write may still have produced a partial echo, and the window expiring on
// its own keeps a later retry from being permanently suppressed.
func (g *SuppressionGuard) End(entityType shared.EntityType) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.states[entityType]
	if state == nil {
		return
	}
	if state.inflight > 0 {
		state.inflight--
	}
	if until := g.now().Add(g.hold); until.After(state.until) {
		state.until = until
	}
}

// Active reports whether the window for the entity type is open
func (g *SuppressionGuard) Active(entityType shared.EntityType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.states[entityType]
	if state == nil {
		return false
	}
	return state.inflight > 0 || g.now().Before(state.until)
}
