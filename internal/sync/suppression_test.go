package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.current }
func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func TestSuppressionGuard_InactiveByDefault(t *testing.T) {
	guard := NewSuppressionGuard(DefaultSuppressionHold)
	assert.False(t, guard.Active(shared.EntityTypeOrder))
}

func TestSuppressionGuard_ActiveDuringMutation(t *testing.T) {
	clock := newFakeClock()
	guard := NewSuppressionGuard(DefaultSuppressionHold, WithClock(clock.Now))

	guard.Begin(shared.EntityTypeOrder)
	assert.True(t, guard.Active(shared.EntityTypeOrder))

	// Other entity types are unaffected
	assert.False(t, guard.Active(shared.EntityTypeCustomer))
}

func TestSuppressionGuard_HoldsAfterSettle(t *testing.T) {
	clock := newFakeClock()
	guard := NewSuppressionGuard(DefaultSuppressionHold, WithClock(clock.Now))

	guard.Begin(shared.EntityTypeOrder)
	guard.End(shared.EntityTypeOrder)

	// Still active immediately after settling
	assert.True(t, guard.Active(shared.EntityTypeOrder))

	clock.Advance(DefaultSuppressionHold - time.Millisecond)
	assert.True(t, guard.Active(shared.EntityTypeOrder))

	clock.Advance(2 * time.Millisecond)
	assert.False(t, guard.Active(shared.EntityTypeOrder))
}

func TestSuppressionGuard_OverlappingMutations(t *testing.T) {
	clock := newFakeClock()
	guard := NewSuppressionGuard(DefaultSuppressionHold, WithClock(clock.Now))

	guard.Begin(shared.EntityTypeOrder)
	clock.Advance(5 * time.Second)
	guard.Begin(shared.EntityTypeOrder)

	// First mutation settles; the second keeps the window open
	guard.End(shared.EntityTypeOrder)
	clock.Advance(10 * time.Second)
	assert.True(t, guard.Active(shared.EntityTypeOrder))

	// Second settles, hold runs from the later settle time
	guard.End(shared.EntityTypeOrder)
	clock.Advance(DefaultSuppressionHold + time.Millisecond)
	assert.False(t, guard.Active(shared.EntityTypeOrder))
}

func TestSuppressionGuard_EndWithoutBegin(t *testing.T) {
	clock := newFakeClock()
	guard := NewSuppressionGuard(DefaultSuppressionHold, WithClock(clock.Now))

	guard.End(shared.EntityTypeOrder)
	assert.False(t, guard.Active(shared.EntityTypeOrder))
}

func TestSuppressionGuard_ZeroHoldUsesDefault(t *testing.T) {
	guard := NewSuppressionGuard(0)
	assert.Equal(t, DefaultSuppressionHold, guard.hold)
}
