package event

import (
	"context"
	"fmt"

	"github.com/shopdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements EventBus with in-process pub/sub. Lifecycle
// events are delivered synchronously to each handler; a handler failure or
// panic is logged and never propagated, so the mutation that emitted the
// event cannot fail because of a downstream reaction.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish delivers each event in turn to every handler registered for its
// type. Delivery is synchronous and in registration order; the returned
// error is always nil because handler failures stay on the handler's side.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		for _, handler := range b.registry.GetHandlers(ev.EventType()) {
			if err := b.deliver(ctx, handler, ev); err != nil {
				b.logger.Error("lifecycle event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("aggregate_id", ev.AggregateID()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers a handler, using the handler's own declared event
// types when none are given. An empty type list subscribes to all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("event handler registered", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every type it was registered for
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("event handler removed")
}

// deliver invokes one handler, converting a panic into an ordinary error so
// the publisher's single logging path covers both failure modes.
func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
