package trade

import (
	"github.com/shopdesk/backend/internal/domain/shared"
)

// Event type constants. These are the rule-engine triggers emitted by the
// orchestrator after a primary mutation succeeds.
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeReturnRequested    = "ReturnRequested"
)

// OrderCreatedEvent is raised after a new order is durably saved
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	Order Order `json:"order"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, shared.EntityTypeOrder, order.ID),
		Order:           order,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderStatusChangedEvent is raised after an order's fulfillment status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	Order          Order       `json:"order"`
	PreviousStatus OrderStatus `json:"previous_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order Order, previous OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, shared.EntityTypeOrder, order.ID),
		Order:           order,
		PreviousStatus:  previous,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// ReturnRequestedEvent is raised after a customer files a return request
type ReturnRequestedEvent struct {
	shared.BaseDomainEvent
	Request ReturnRequest `json:"request"`
	Order   Order         `json:"order"`
}

// NewReturnRequestedEvent creates a new ReturnRequestedEvent
func NewReturnRequestedEvent(request ReturnRequest, order Order) *ReturnRequestedEvent {
	return &ReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequested, shared.EntityTypeReturnRequest, request.ID),
		Request:         request,
		Order:           order,
	}
}

// EventType returns the event type name
func (e *ReturnRequestedEvent) EventType() string {
	return EventTypeReturnRequested
}

// OrderCarrier is implemented by events whose payload includes the triggering
// order. The rule engine evaluates conditions against this order.
type OrderCarrier interface {
	TriggeringOrder() Order
}

// TriggeringOrder returns the order that produced the event
func (e *OrderCreatedEvent) TriggeringOrder() Order { return e.Order }

// TriggeringOrder returns the order that produced the event
func (e *OrderStatusChangedEvent) TriggeringOrder() Order { return e.Order }

// TriggeringOrder returns the order the return was filed against
func (e *ReturnRequestedEvent) TriggeringOrder() Order { return e.Order }
