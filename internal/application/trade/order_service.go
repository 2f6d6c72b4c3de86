package trade

import (
	"context"
	"fmt"

	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/integration"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

// OrderService implements the compound business operations that span
// multiple entity types. Steps with a data dependency run in order
// (customer before the order that references it). Everything downstream of
// the primary mutation, such as lifecycle events, the activity log, export
// sync, and customer messaging, is best-effort and can never fail a save.
type OrderService struct {
	orders    *syncx.EntityStore[trade.Order]
	customers *syncx.EntityStore[partner.Customer]
	activity  *syncx.EntityStore[activity.Entry]
	events    shared.EventPublisher
	exporter  integration.ExportSink
	messenger integration.Messenger
	logger    *zap.Logger
}

// OrderServiceOption is a functional option for OrderService
type OrderServiceOption func(*OrderService)

// WithExportSink sets the spreadsheet export sink
func WithExportSink(exporter integration.ExportSink) OrderServiceOption {
	return func(s *OrderService) {
		s.exporter = exporter
	}
}

// WithMessenger sets the customer messaging dispatcher
func WithMessenger(messenger integration.Messenger) OrderServiceOption {
	return func(s *OrderService) {
		s.messenger = messenger
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders *syncx.EntityStore[trade.Order],
	customers *syncx.EntityStore[partner.Customer],
	activityStore *syncx.EntityStore[activity.Entry],
	events shared.EventPublisher,
	logger *zap.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		orders:    orders,
		customers: customers,
		activity:  activityStore,
		events:    events,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveOrder persists an order together with its customer. The customer is
// resolved by id first, then by phone number (the natural key): a matching
// phone updates the existing customer instead of creating a duplicate. The
// customer save must settle before the order save because the order
// references the customer id. Only those two mutations can fail the call.
func (s *OrderService) SaveOrder(ctx context.Context, order trade.Order, customer partner.Customer) (trade.Order, error) {
	resolved := s.resolveCustomer(customer)

	savedCustomer, err := s.customers.Save(ctx, resolved)
	if err != nil {
		return trade.Order{}, fmt.Errorf("save customer: %w", err)
	}

	order.CustomerID = savedCustomer.ID
	order.CustomerName = savedCustomer.Name
	created := order.IsNew()

	savedOrder, err := s.orders.Save(ctx, order)
	if err != nil {
		// The customer upsert is not rolled back; the next refresh or save
		// reconciles it.
		return trade.Order{}, fmt.Errorf("save order: %w", err)
	}

	if created {
		syncx.BestEffort(s.logger, "publish order created", func() error {
			return s.events.Publish(ctx, trade.NewOrderCreatedEvent(savedOrder))
		})
		s.logActivity(ctx, fmt.Sprintf("Created order for %s", savedCustomer.Name), shared.EntityTypeOrder, savedOrder.ID)
		s.dispatchOrderEffects(ctx, savedOrder, integration.SinkActionCreate,
			fmt.Sprintf("Thanks %s, we received your order.", savedCustomer.Name))
	} else {
		s.logActivity(ctx, fmt.Sprintf("Updated order for %s", savedCustomer.Name), shared.EntityTypeOrder, savedOrder.ID)
		s.dispatchOrderEffects(ctx, savedOrder, integration.SinkActionUpdate, "")
	}

	return savedOrder, nil
}

// UpdateStatus moves an order to the given fulfillment status. The prior
// status is not validated; the dashboard drives transitions and the store
// records whatever it asks for.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status trade.OrderStatus) (trade.Order, error) {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return trade.Order{}, shared.ErrNotFound
	}

	previous := order.Status
	saved, err := s.orders.Save(ctx, order.WithStatus(status))
	if err != nil {
		return trade.Order{}, err
	}

	syncx.BestEffort(s.logger, "publish status changed", func() error {
		return s.events.Publish(ctx, trade.NewOrderStatusChangedEvent(saved, previous))
	})
	s.logActivity(ctx, fmt.Sprintf("Order status changed to %s", status), shared.EntityTypeOrder, saved.ID)

	message := ""
	if status == trade.OrderStatusShipped {
		message = fmt.Sprintf("Your order is on its way. Tracking code: %s", saved.ShippingCode)
	}
	s.dispatchOrderEffects(ctx, saved, integration.SinkActionUpdate, message)

	return saved, nil
}

// ConfirmPayment marks an order as paid
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID string) (trade.Order, error) {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return trade.Order{}, shared.ErrNotFound
	}

	saved, err := s.orders.Save(ctx, order.WithPaymentStatus(trade.PaymentStatusPaid))
	if err != nil {
		return trade.Order{}, err
	}

	s.logActivity(ctx, "Payment confirmed", shared.EntityTypeOrder, saved.ID)
	s.dispatchOrderEffects(ctx, saved, integration.SinkActionUpdate, "We received your payment, thank you.")

	return saved, nil
}

// UpdateShipping sets the shipping code on an order
func (s *OrderService) UpdateShipping(ctx context.Context, orderID, shippingCode string) (trade.Order, error) {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return trade.Order{}, shared.ErrNotFound
	}

	saved, err := s.orders.Save(ctx, order.WithShipping(shippingCode))
	if err != nil {
		return trade.Order{}, err
	}

	s.logActivity(ctx, fmt.Sprintf("Shipping code set to %s", shippingCode), shared.EntityTypeOrder, saved.ID)
	s.dispatchOrderEffects(ctx, saved, integration.SinkActionUpdate, "")

	return saved, nil
}

// DeleteOrder removes an order. Log and export sync are best-effort
// afterward.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return shared.ErrNotFound
	}

	if err := s.orders.Remove(ctx, orderID); err != nil {
		return err
	}

	s.logActivity(ctx, "Order deleted", shared.EntityTypeOrder, orderID)
	if s.exporter != nil {
		syncx.GoBestEffort(s.logger, "export order delete", func() error {
			_, err := s.exporter.Sync(ctx, order, integration.SinkActionDelete)
			return err
		})
	}

	return nil
}

// resolveCustomer finds the customer an incoming save refers to: by id when
// the caller knows it, otherwise by phone. The incoming details are merged
// onto the match so tags and creation time survive.
func (s *OrderService) resolveCustomer(incoming partner.Customer) partner.Customer {
	if incoming.ID != "" {
		if existing, ok := s.customers.Get(incoming.ID); ok {
			return existing.Merge(incoming)
		}
	}
	if incoming.Phone != "" {
		if existing, ok := s.customers.Find(func(c partner.Customer) bool {
			return c.Phone == incoming.Phone
		}); ok {
			return existing.Merge(incoming)
		}
	}
	return incoming
}

// logActivity appends an activity entry, best-effort
func (s *OrderService) logActivity(ctx context.Context, description string, targetType shared.EntityType, targetID string) {
	syncx.BestEffort(s.logger, "append activity", func() error {
		_, err := s.activity.Save(ctx, activity.NewEntry(description, targetType, targetID))
		return err
	})
}

// dispatchOrderEffects runs the external side effects of an order mutation
// in the background: spreadsheet sync and, when text is non-empty, a
// customer message. Failures are logged, never surfaced.
func (s *OrderService) dispatchOrderEffects(ctx context.Context, order trade.Order, action integration.SinkAction, text string) {
	if s.exporter != nil {
		syncx.GoBestEffort(s.logger, "export order sync", func() error {
			result, err := s.exporter.Sync(ctx, order, action)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("export sink rejected sync: %s", result.Error)
			}
			return nil
		})
	}
	if s.messenger != nil && text != "" {
		syncx.GoBestEffort(s.logger, "message customer", func() error {
			ok, err := s.messenger.SendText(ctx, order.CustomerID, text)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("messenger refused delivery")
			}
			return nil
		})
	}
}
