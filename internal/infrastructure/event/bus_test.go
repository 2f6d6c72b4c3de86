package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
)

// recordingHandler captures handled events; it can fail or panic on demand
type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

func TestInMemoryEventBus_DeliversToSubscribedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{trade.EventTypeOrderCreated}}
	bus.Subscribe(handler)

	created := trade.NewOrderCreatedEvent(trade.Order{ID: "order-1"})
	statusChanged := trade.NewOrderStatusChangedEvent(trade.Order{ID: "order-1"}, trade.OrderStatusPending)

	require.NoError(t, bus.Publish(context.Background(), created, statusChanged))

	events := handler.Events()
	require.Len(t, events, 1)
	assert.Equal(t, trade.EventTypeOrderCreated, events[0].EventType())
}

func TestInMemoryEventBus_WildcardHandlerReceivesAll(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		trade.NewOrderCreatedEvent(trade.Order{ID: "order-1"}),
		trade.NewOrderStatusChangedEvent(trade.Order{ID: "order-1"}, trade.OrderStatusPending),
	))

	assert.Len(t, handler.Events(), 2)
}

func TestInMemoryEventBus_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{trade.EventTypeOrderCreated}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{trade.EventTypeOrderCreated}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), trade.NewOrderCreatedEvent(trade.Order{ID: "order-1"}))
	require.NoError(t, err)
	assert.Len(t, healthy.Events(), 1)
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{trade.EventTypeOrderCreated}, panics: true}
	bus.Subscribe(panicking)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), trade.NewOrderCreatedEvent(trade.Order{ID: "order-1"}))
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{trade.EventTypeOrderCreated}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), trade.NewOrderCreatedEvent(trade.Order{ID: "order-1"})))
	assert.Len(t, handler.Events(), 0)
}

func TestHandlerRegistry_RemovesEmptyTypeBuckets(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{}
	registry.Register(handler, trade.EventTypeOrderCreated)
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers(trade.EventTypeOrderCreated))
}
