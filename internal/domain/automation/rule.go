package automation

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConditionField is the closed set of payload fields a condition can inspect.
// New fields are added here and in the engine's resolver, so an unsupported
// field is a compile-time visible gap rather than a silent mismatch.
type ConditionField string

const (
	FieldTotalAmount ConditionField = "totalAmount"
)

// ConditionOperator is the closed set of comparison operators
type ConditionOperator string

const (
	OperatorGreaterThan ConditionOperator = "GREATER_THAN"
)

// ActionType is the closed set of rule actions
type ActionType string

const (
	ActionAddCustomerTag ActionType = "ADD_CUSTOMER_TAG"
)

// Condition compares a numeric field of the triggering payload against a
// fixed value. All conditions of a rule must match (AND semantics).
type Condition struct {
	Field    ConditionField    `json:"field" validate:"required,oneof=totalAmount"`
	Operator ConditionOperator `json:"operator" validate:"required,oneof=GREATER_THAN"`
	Value    decimal.Decimal   `json:"value"`
}

// Matches applies the operator to the resolved field value
func (c Condition) Matches(value decimal.Decimal) bool {
	switch c.Operator {
	case OperatorGreaterThan:
		return value.GreaterThan(c.Value)
	}
	return false
}

// Action is a single side effect applied when a rule fires. Every action type
// must be idempotent: events can be re-delivered, so applying an action twice
// must yield the same state as applying it once.
type Action struct {
	Type  ActionType `json:"type" validate:"required,oneof=ADD_CUSTOMER_TAG"`
	Value string     `json:"value" validate:"required"`
}

// Rule is pure declarative data: the engine evaluates rules but never mutates
// them; only a human toggles or edits a rule.
type Rule struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	Name       string      `json:"name" validate:"required"`
	Trigger    string      `json:"trigger" validate:"required"`
	Conditions []Condition `json:"conditions" gorm:"serializer:json" validate:"dive"`
	Actions    []Action    `json:"actions" gorm:"serializer:json" validate:"min=1,dive"`
	IsEnabled  bool        `json:"is_enabled"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewRule creates a new enabled rule
func NewRule(name, trigger string, conditions []Condition, actions []Action) Rule {
	now := time.Now()
	return Rule{
		Name:       name,
		Trigger:    trigger,
		Conditions: conditions,
		Actions:    actions,
		IsEnabled:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EntityID returns the rule id
func (r Rule) EntityID() string {
	return r.ID
}

// WithID returns a copy with the canonical id assigned
func (r Rule) WithID(id string) Rule {
	r.ID = id
	return r
}

// Clone returns a copy with its own Conditions and Actions backing arrays
func (r Rule) Clone() Rule {
	r.Conditions = append([]Condition(nil), r.Conditions...)
	r.Actions = append([]Action(nil), r.Actions...)
	return r
}

// WithEnabled returns a copy with the enabled flag set
func (r Rule) WithEnabled(enabled bool) Rule {
	r.IsEnabled = enabled
	r.UpdatedAt = time.Now()
	return r
}
