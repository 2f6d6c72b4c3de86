// Package app assembles the synchronization core. There is no standalone
// process: the dashboard embeds the App and calls its services in-process.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	appautomation "github.com/shopdesk/backend/internal/application/automation"
	appcatalog "github.com/shopdesk/backend/internal/application/catalog"
	apptrade "github.com/shopdesk/backend/internal/application/trade"
	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/automation"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/integration"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	"github.com/shopdesk/backend/internal/infrastructure/config"
	"github.com/shopdesk/backend/internal/infrastructure/event"
	"github.com/shopdesk/backend/internal/infrastructure/gateway"
	"github.com/shopdesk/backend/internal/infrastructure/logger"
	"github.com/shopdesk/backend/internal/infrastructure/metrics"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

// ChangeFeed is the full transport: subscription side for this client and
// publish side for the gateway's write notifications.
type ChangeFeed interface {
	syncx.Feed
	syncx.FeedPublisher
}

// App wires one store, subscriber, and service per entity type around a
// single suppression guard and change feed. One App per process.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Orders    *syncx.EntityStore[trade.Order]
	Customers *syncx.EntityStore[partner.Customer]
	Products  *syncx.EntityStore[catalog.Product]
	Vouchers  *syncx.EntityStore[catalog.Voucher]
	Activity  *syncx.EntityStore[activity.Entry]
	Rules     *syncx.EntityStore[automation.Rule]
	Returns   *syncx.EntityStore[trade.ReturnRequest]

	OrderService   *apptrade.OrderService
	ReturnService  *apptrade.ReturnService
	CatalogService *appcatalog.CatalogService
	RuleService    *appautomation.RuleService
	Engine         *appautomation.Engine
	Bus            *event.InMemoryEventBus

	db       *gateway.Database
	starters []func(context.Context)
	refresh  []func(context.Context) error
}

// Option configures optional collaborators
type Option func(*options)

type options struct {
	messenger integration.Messenger
	exporter  integration.ExportSink
	registry  prometheus.Registerer
}

// WithMessenger sets the customer messaging dispatcher
func WithMessenger(m integration.Messenger) Option {
	return func(o *options) { o.messenger = m }
}

// WithExportSink sets the spreadsheet export sink
func WithExportSink(e integration.ExportSink) Option {
	return func(o *options) { o.exporter = e }
}

// WithRegistry sets the Prometheus registry used when metrics are enabled
func WithRegistry(r prometheus.Registerer) Option {
	return func(o *options) { o.registry = r }
}

// NewLogger builds the process logger from configuration
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// New builds the full core from configuration and a change-feed transport
func New(cfg *config.Config, logger *zap.Logger, changeFeed ChangeFeed, opts ...Option) (*App, error) {
	o := &options{registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(o)
	}

	db, err := gateway.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	var recorder syncx.Recorder = syncx.NopRecorder{}
	var fires appautomation.FireRecorder
	if cfg.Metrics.Enabled {
		promRecorder, err := metrics.NewRecorder(o.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		recorder = promRecorder
		fires = promRecorder
	}

	guard := syncx.NewSuppressionGuard(cfg.Sync.SuppressionWindow)
	coordinator := syncx.NewCoordinator(guard, logger, syncx.WithRecorder(recorder))

	a := &App{
		Config: cfg,
		Logger: logger,
		Bus:    event.NewInMemoryEventBus(logger),
		db:     db,
	}

	a.Orders = wire[trade.Order](a, shared.EntityTypeOrder, db, changeFeed, guard, coordinator, recorder)
	a.Customers = wire[partner.Customer](a, shared.EntityTypeCustomer, db, changeFeed, guard, coordinator, recorder)
	a.Products = wire[catalog.Product](a, shared.EntityTypeProduct, db, changeFeed, guard, coordinator, recorder)
	a.Vouchers = wire[catalog.Voucher](a, shared.EntityTypeVoucher, db, changeFeed, guard, coordinator, recorder)
	a.Activity = wire[activity.Entry](a, shared.EntityTypeActivityLog, db, changeFeed, guard, coordinator, recorder)
	a.Rules = wire[automation.Rule](a, shared.EntityTypeAutomationRule, db, changeFeed, guard, coordinator, recorder)
	a.Returns = wire[trade.ReturnRequest](a, shared.EntityTypeReturnRequest, db, changeFeed, guard, coordinator, recorder)

	engineOpts := []appautomation.EngineOption{}
	if fires != nil {
		engineOpts = append(engineOpts, appautomation.WithFireRecorder(fires))
	}
	a.Engine = appautomation.NewEngine(a.Rules, a.Customers, a.Activity, logger, engineOpts...)
	a.Bus.Subscribe(a.Engine)

	orderOpts := []apptrade.OrderServiceOption{}
	if o.exporter != nil {
		orderOpts = append(orderOpts, apptrade.WithExportSink(o.exporter))
	}
	if o.messenger != nil {
		orderOpts = append(orderOpts, apptrade.WithMessenger(o.messenger))
	}
	a.OrderService = apptrade.NewOrderService(a.Orders, a.Customers, a.Activity, a.Bus, logger, orderOpts...)
	a.ReturnService = apptrade.NewReturnService(a.Returns, a.Orders, a.Activity, a.Bus, logger)
	a.CatalogService = appcatalog.NewCatalogService(a.Products, a.Vouchers, a.Activity, logger)
	a.RuleService = appautomation.NewRuleService(a.Rules, logger)

	return a, nil
}

// wire builds the collection, gateway store, entity store, and subscriber
// for one entity type and registers its start and refresh hooks
func wire[T shared.Record[T]](
	a *App,
	entityType shared.EntityType,
	db *gateway.Database,
	changeFeed ChangeFeed,
	guard *syncx.SuppressionGuard,
	coordinator *syncx.Coordinator,
	recorder syncx.Recorder,
) *syncx.EntityStore[T] {
	collection := syncx.NewCollection[T]()
	remote := gateway.NewStore[T](db, entityType, a.Logger, gateway.WithPublisher[T](changeFeed))
	store := syncx.NewEntityStore[T](entityType, remote, collection, coordinator, a.Logger)

	subscriber := syncx.NewSubscriber[T](entityType, changeFeed, collection, guard, a.Logger,
		syncx.WithSubscriberRecorder[T](recorder))
	a.starters = append(a.starters, subscriber.Start)
	a.refresh = append(a.refresh, store.Refresh)

	return store
}

// Start opens every change-feed subscription and, when configured, performs
// the initial full reconciliation.
func (a *App) Start(ctx context.Context) error {
	for _, start := range a.starters {
		start(ctx)
	}
	if a.Config.Sync.RefreshOnStart {
		if err := a.RefreshAll(ctx); err != nil {
			return err
		}
	}
	a.Logger.Info("synchronization core started")
	return nil
}

// RefreshAll re-lists every collection from the store
func (a *App) RefreshAll(ctx context.Context) error {
	for _, refresh := range a.refresh {
		if err := refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the store connection
func (a *App) Close() error {
	return a.db.Close()
}
