package shared

import "context"

// EventHandler handles lifecycle events
type EventHandler interface {
	// Handle processes a lifecycle event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventPublisher publishes lifecycle events
type EventPublisher interface {
	// Publish publishes one or more lifecycle events. Handler failures are
	// logged by the bus and never propagated; the emitting operation must not
	// fail because a downstream reaction failed.
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to lifecycle events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	// If no event types are provided, the handler receives all events
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}
