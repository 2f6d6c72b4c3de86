package trade

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/integration"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	syncx "github.com/shopdesk/backend/internal/sync"
)

// memoryGateway is an in-memory RemoteGateway used across the service tests
type memoryGateway[T shared.Record[T]] struct {
	mu      stdsync.Mutex
	records map[string]T
	seq     int
	prefix  string
	failAll error
}

func newMemoryGateway[T shared.Record[T]](prefix string) *memoryGateway[T] {
	return &memoryGateway[T]{records: make(map[string]T), prefix: prefix}
}

func (g *memoryGateway[T]) List(_ context.Context) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]T, 0, len(g.records))
	for _, r := range g.records {
		out = append(out, r)
	}
	return out, nil
}

func (g *memoryGateway[T]) Create(_ context.Context, record T) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var zero T
	if g.failAll != nil {
		return zero, g.failAll
	}
	g.seq++
	created := record.WithID(fmt.Sprintf("%s-%d", g.prefix, g.seq))
	g.records[created.EntityID()] = created
	return created, nil
}

func (g *memoryGateway[T]) Update(_ context.Context, id string, record T) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return false, g.failAll
	}
	if _, ok := g.records[id]; !ok {
		return false, nil
	}
	g.records[id] = record
	return true, nil
}

func (g *memoryGateway[T]) Delete(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return g.failAll
	}
	delete(g.records, id)
	return nil
}

// capturePublisher records published events synchronously
type capturePublisher struct {
	mu     stdsync.Mutex
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// fakeMessenger records sent texts; it can be told to fail or panic
type fakeMessenger struct {
	mu      stdsync.Mutex
	texts   []string
	err     error
	panicOn bool
}

func (m *fakeMessenger) SendText(_ context.Context, _ string, text string) (bool, error) {
	if m.panicOn {
		panic("messenger transport down")
	}
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return true, nil
}

func (m *fakeMessenger) SendImage(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

func (m *fakeMessenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// fakeExporter records sink calls
type fakeExporter struct {
	mu      stdsync.Mutex
	actions []integration.SinkAction
	err     error
}

func (e *fakeExporter) Sync(_ context.Context, _ any, action integration.SinkAction) (integration.SinkResult, error) {
	if e.err != nil {
		return integration.SinkResult{}, e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions = append(e.actions, action)
	return integration.SinkResult{Success: true}, nil
}

func (e *fakeExporter) Actions() []integration.SinkAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]integration.SinkAction(nil), e.actions...)
}

type orderFixture struct {
	service      *OrderService
	orders       *syncx.EntityStore[trade.Order]
	customers    *syncx.EntityStore[partner.Customer]
	activity     *syncx.EntityStore[activity.Entry]
	orderGateway *memoryGateway[trade.Order]
	custGateway  *memoryGateway[partner.Customer]
	publisher    *capturePublisher
	messenger    *fakeMessenger
	exporter     *fakeExporter
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	logger := zap.NewNop()
	guard := syncx.NewSuppressionGuard(syncx.DefaultSuppressionHold)
	coordinator := syncx.NewCoordinator(guard, logger)

	orderGateway := newMemoryGateway[trade.Order]("order")
	custGateway := newMemoryGateway[partner.Customer]("cust")
	actGateway := newMemoryGateway[activity.Entry]("act")

	orders := syncx.NewEntityStore(shared.EntityTypeOrder, orderGateway, syncx.NewCollection[trade.Order](), coordinator, logger)
	customers := syncx.NewEntityStore(shared.EntityTypeCustomer, custGateway, syncx.NewCollection[partner.Customer](), coordinator, logger)
	activityStore := syncx.NewEntityStore(shared.EntityTypeActivityLog, actGateway, syncx.NewCollection[activity.Entry](), coordinator, logger)

	publisher := &capturePublisher{}
	messenger := &fakeMessenger{}
	exporter := &fakeExporter{}

	service := NewOrderService(orders, customers, activityStore, publisher, logger,
		WithMessenger(messenger), WithExportSink(exporter))

	return &orderFixture{
		service:      service,
		orders:       orders,
		customers:    customers,
		activity:     activityStore,
		orderGateway: orderGateway,
		custGateway:  custGateway,
		publisher:    publisher,
		messenger:    messenger,
		exporter:     exporter,
	}
}

func testItems(t *testing.T, quantity int, unitPrice int64) []trade.OrderItem {
	t.Helper()
	item, err := trade.NewOrderItem("prod-1", "Ceramic mug", quantity, decimal.NewFromInt(unitPrice))
	require.NoError(t, err)
	return []trade.OrderItem{item}
}

func testOrder(t *testing.T, quantity int, unitPrice int64) trade.Order {
	t.Helper()
	order, err := trade.NewOrder("unresolved", "", testItems(t, quantity, unitPrice))
	require.NoError(t, err)
	return order
}

func TestOrderService_SaveOrder_NewCustomer(t *testing.T) {
	f := newOrderFixture(t)
	customer, err := partner.NewCustomer("Lan", "0901111111")
	require.NoError(t, err)

	saved, err := f.service.SaveOrder(context.Background(), testOrder(t, 2, 600000), customer)
	require.NoError(t, err)

	// Exactly one customer and one order exist, linked together
	assert.Len(t, f.customers.Snapshot(), 1)
	assert.Len(t, f.orders.Snapshot(), 1)
	savedCustomer := f.customers.Snapshot()[0]
	assert.Equal(t, savedCustomer.ID, saved.CustomerID)
	assert.Equal(t, "Lan", saved.CustomerName)
	assert.True(t, decimal.NewFromInt(1200000).Equal(saved.TotalAmount))

	// An activity entry references the order
	entries := f.activity.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, saved.ID, entries[0].TargetID)
	assert.Equal(t, shared.EntityTypeOrder, entries[0].TargetType)

	// The lifecycle event carries the saved order
	events := f.publisher.Events()
	require.Len(t, events, 1)
	created, ok := events[0].(*trade.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, saved.ID, created.Order.ID)
}

func TestOrderService_SaveOrder_MergesCustomerByPhone(t *testing.T) {
	f := newOrderFixture(t)
	existing, err := partner.NewCustomer("Lan", "0901111111")
	require.NoError(t, err)
	existing, err = f.customers.Save(context.Background(), existing.WithTag("VIP"))
	require.NoError(t, err)

	// Incoming save knows the phone but not the id, and renames the customer
	incoming, err := partner.NewCustomer("Lan Nguyen", "0901111111")
	require.NoError(t, err)

	saved, err := f.service.SaveOrder(context.Background(), testOrder(t, 1, 500000), incoming)
	require.NoError(t, err)

	require.Len(t, f.customers.Snapshot(), 1)
	merged := f.customers.Snapshot()[0]
	assert.Equal(t, existing.ID, merged.ID)
	assert.Equal(t, existing.ID, saved.CustomerID)
	assert.Equal(t, "Lan Nguyen", merged.Name)
	assert.True(t, merged.HasTag("VIP"))
}

func TestOrderService_SaveOrder_CustomerFailureAbortsOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.custGateway.failAll = errors.New("store unavailable")
	customer, err := partner.NewCustomer("Lan", "0901111111")
	require.NoError(t, err)

	_, err = f.service.SaveOrder(context.Background(), testOrder(t, 1, 500000), customer)
	require.Error(t, err)
	assert.Len(t, f.orders.Snapshot(), 0)
	assert.Len(t, f.publisher.Events(), 0)
}

func TestOrderService_SaveOrder_OrderFailureKeepsCustomer(t *testing.T) {
	f := newOrderFixture(t)
	f.orderGateway.failAll = errors.New("store unavailable")
	customer, err := partner.NewCustomer("Lan", "0901111111")
	require.NoError(t, err)

	_, err = f.service.SaveOrder(context.Background(), testOrder(t, 1, 500000), customer)
	require.Error(t, err)

	// The customer save settled first and is not rolled back
	assert.Len(t, f.customers.Snapshot(), 1)
	assert.Len(t, f.orders.Snapshot(), 0)
}

func TestOrderService_UpdateStatus_ShippedMessagesCustomer(t *testing.T) {
	f := newOrderFixture(t)
	saved := mustSaveOrder(t, f)

	saved, err := f.service.UpdateShipping(context.Background(), saved.ID, "GHN123")
	require.NoError(t, err)
	updated, err := f.service.UpdateStatus(context.Background(), saved.ID, trade.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusShipped, updated.Status)

	require.Eventually(t, func() bool {
		for _, text := range f.messenger.Texts() {
			if text == "Your order is on its way. Tracking code: GHN123" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	// Status change event carries the previous status
	var statusEvent *trade.OrderStatusChangedEvent
	for _, ev := range f.publisher.Events() {
		if e, ok := ev.(*trade.OrderStatusChangedEvent); ok {
			statusEvent = e
		}
	}
	require.NotNil(t, statusEvent)
	assert.Equal(t, trade.OrderStatusPending, statusEvent.PreviousStatus)
}

func TestOrderService_UpdateStatus_SideEffectFailureIsIsolated(t *testing.T) {
	f := newOrderFixture(t)
	saved := mustSaveOrder(t, f)
	f.messenger.panicOn = true
	f.exporter.err = errors.New("sheet quota exceeded")

	updated, err := f.service.UpdateStatus(context.Background(), saved.ID, trade.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusShipped, updated.Status)

	got, ok := f.orders.Get(saved.ID)
	require.True(t, ok)
	assert.Equal(t, trade.OrderStatusShipped, got.Status)
}

func TestOrderService_UpdateStatus_RepeatedTransitionAccepted(t *testing.T) {
	f := newOrderFixture(t)
	saved := mustSaveOrder(t, f)

	_, err := f.service.UpdateStatus(context.Background(), saved.ID, trade.OrderStatusShipped)
	require.NoError(t, err)
	updated, err := f.service.UpdateStatus(context.Background(), saved.ID, trade.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusShipped, updated.Status)
}

func TestOrderService_UpdateStatus_UnknownOrder(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.service.UpdateStatus(context.Background(), "missing", trade.OrderStatusShipped)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	f := newOrderFixture(t)
	saved := mustSaveOrder(t, f)

	updated, err := f.service.ConfirmPayment(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, trade.OrderStatusPending, updated.Status)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newOrderFixture(t)
	saved := mustSaveOrder(t, f)

	require.NoError(t, f.service.DeleteOrder(context.Background(), saved.ID))
	_, ok := f.orders.Get(saved.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, f.service.DeleteOrder(context.Background(), saved.ID), shared.ErrNotFound)
}

func mustSaveOrder(t *testing.T, f *orderFixture) trade.Order {
	t.Helper()
	customer, err := partner.NewCustomer("Lan", "0901111111")
	require.NoError(t, err)
	saved, err := f.service.SaveOrder(context.Background(), testOrder(t, 1, 500000), customer)
	require.NoError(t, err)
	return saved
}
