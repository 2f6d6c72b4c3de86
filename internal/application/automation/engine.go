package automation

import (
	"context"
	"fmt"

	"github.com/shopdesk/backend/internal/domain/activity"
	"github.com/shopdesk/backend/internal/domain/automation"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
	syncx "github.com/shopdesk/backend/internal/sync"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FireRecorder counts rule firings for metrics
type FireRecorder interface {
	RuleFired(ruleName string)
}

type nopFireRecorder struct{}

func (nopFireRecorder) RuleFired(string) {}

// Engine evaluates the automation rule set against lifecycle events. It
// holds no state of its own: every evaluation reads the current rules from
// the rule collection. Actions must be idempotent because events can be
// re-delivered; tag addition is a set union, so re-applying it is a no-op on
// the customer. The activity log still records every evaluation.
type Engine struct {
	rules     *syncx.EntityStore[automation.Rule]
	customers *syncx.EntityStore[partner.Customer]
	activity  *syncx.EntityStore[activity.Entry]
	logger    *zap.Logger
	recorder  FireRecorder
}

// EngineOption is a functional option for Engine
type EngineOption func(*Engine)

// WithFireRecorder sets the metrics recorder
func WithFireRecorder(recorder FireRecorder) EngineOption {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// NewEngine creates a new rule engine
func NewEngine(
	rules *syncx.EntityStore[automation.Rule],
	customers *syncx.EntityStore[partner.Customer],
	activityStore *syncx.EntityStore[activity.Entry],
	logger *zap.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		rules:     rules,
		customers: customers,
		activity:  activityStore,
		logger:    logger,
		recorder:  nopFireRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EventTypes returns the lifecycle events the engine reacts to
func (e *Engine) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeReturnRequested,
	}
}

// Handle implements shared.EventHandler. Only events carrying an order are
// evaluable; anything else is ignored.
func (e *Engine) Handle(ctx context.Context, event shared.DomainEvent) error {
	carrier, ok := event.(trade.OrderCarrier)
	if !ok {
		return nil
	}
	return e.Evaluate(ctx, event.EventType(), carrier.TriggeringOrder())
}

// Evaluate runs every enabled rule for the trigger against the order. All
// conditions of a rule must match (a rule with no conditions is vacuously
// true); matching rules apply all their actions in order.
func (e *Engine) Evaluate(ctx context.Context, trigger string, order trade.Order) error {
	var firstErr error
	for _, rule := range e.rules.Snapshot() {
		if !rule.IsEnabled || rule.Trigger != trigger {
			continue
		}
		if !e.conditionsMatch(rule, order) {
			continue
		}

		e.logger.Info("automation rule fired",
			zap.String("rule", rule.Name),
			zap.String("trigger", trigger),
			zap.String("order_id", order.ID),
		)
		e.recorder.RuleFired(rule.Name)

		for _, action := range rule.Actions {
			if err := e.applyAction(ctx, rule, action, order); err != nil {
				e.logger.Error("automation action failed",
					zap.String("rule", rule.Name),
					zap.String("action", string(action.Type)),
					zap.Error(err),
				)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

// conditionsMatch evaluates every condition with AND semantics
func (e *Engine) conditionsMatch(rule automation.Rule, order trade.Order) bool {
	for _, condition := range rule.Conditions {
		value, ok := e.resolveField(condition.Field, order)
		if !ok {
			e.logger.Warn("rule condition references unknown field",
				zap.String("rule", rule.Name),
				zap.String("field", string(condition.Field)),
			)
			return false
		}
		if !condition.Matches(value) {
			return false
		}
	}
	return true
}

// resolveField maps a condition field to its value on the order. The field
// set is closed: adding a field means extending this switch, so the
// evaluator stays a total function over known cases.
func (e *Engine) resolveField(field automation.ConditionField, order trade.Order) (decimal.Decimal, bool) {
	switch field {
	case automation.FieldTotalAmount:
		return order.TotalAmount, true
	}
	return decimal.Zero, false
}

// applyAction applies one action. Each arm must stay idempotent.
func (e *Engine) applyAction(ctx context.Context, rule automation.Rule, action automation.Action, order trade.Order) error {
	switch action.Type {
	case automation.ActionAddCustomerTag:
		return e.addCustomerTag(ctx, rule, order, action.Value)
	}
	return fmt.Errorf("unknown action type %q", action.Type)
}

// addCustomerTag adds the tag to the order's customer through the same
// mutation path as every other customer write
func (e *Engine) addCustomerTag(ctx context.Context, rule automation.Rule, order trade.Order, tag string) error {
	customer, ok := e.customers.Get(order.CustomerID)
	if !ok {
		return fmt.Errorf("customer %s not found for rule %q: %w", order.CustomerID, rule.Name, shared.ErrMissingEntity)
	}

	if _, err := e.customers.Save(ctx, customer.WithTag(tag)); err != nil {
		return err
	}

	syncx.BestEffort(e.logger, "append rule activity", func() error {
		_, err := e.activity.Save(ctx, activity.NewEntry(
			fmt.Sprintf("Rule %q tagged customer with %q", rule.Name, tag),
			shared.EntityTypeCustomer, customer.ID,
		))
		return err
	})
	return nil
}

// Ensure Engine implements EventHandler
var _ shared.EventHandler = (*Engine)(nil)
