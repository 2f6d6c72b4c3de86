package automation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopdesk/backend/internal/domain/automation"
	"github.com/shopdesk/backend/internal/domain/shared"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

// RuleService handles maintenance of the automation rule set. Rules are
// validated on save so the engine only ever evaluates well-formed
// definitions.
type RuleService struct {
	rules    *syncx.EntityStore[automation.Rule]
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(rules *syncx.EntityStore[automation.Rule], logger *zap.Logger) *RuleService {
	return &RuleService{
		rules:    rules,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Save creates or updates a rule after validating its definition
func (s *RuleService) Save(ctx context.Context, rule automation.Rule) (automation.Rule, error) {
	if err := s.validate.Struct(rule); err != nil {
		return automation.Rule{}, fmt.Errorf("%w: %s", shared.ErrRuleValidation, err)
	}
	return s.rules.Save(ctx, rule)
}

// Toggle flips a rule's enabled flag
func (s *RuleService) Toggle(ctx context.Context, ruleID string) (automation.Rule, error) {
	rule, ok := s.rules.Get(ruleID)
	if !ok {
		return automation.Rule{}, shared.ErrNotFound
	}
	return s.rules.Save(ctx, rule.WithEnabled(!rule.IsEnabled))
}

// Delete removes a rule
func (s *RuleService) Delete(ctx context.Context, ruleID string) error {
	return s.rules.Remove(ctx, ruleID)
}
