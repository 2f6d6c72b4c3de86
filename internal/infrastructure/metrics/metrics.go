// Package metrics provides Prometheus instrumentation for the sync layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopdesk/backend/internal/domain/shared"
	syncx "github.com/shopdesk/backend/internal/sync"
)

// Prometheus metric names.
const (
	MetricFeedEventsTotal     = "shopdesk_changefeed_events_total"
	MetricFeedSuppressedTotal = "shopdesk_changefeed_suppressed_total"
	MetricMutationsTotal      = "shopdesk_mutations_total"
	MetricRulesFiredTotal     = "shopdesk_automation_rules_fired_total"
)

// Recorder implements sync.Recorder on Prometheus counters.
// Safe for concurrent use.
type Recorder struct {
	feedEvents     *prometheus.CounterVec
	feedSuppressed *prometheus.CounterVec
	mutations      *prometheus.CounterVec
	rulesFired     *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with the registry
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFeedEventsTotal,
			Help: "Change-feed notifications applied to a collection.",
		}, []string{"entity_type", "kind"}),
		feedSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFeedSuppressedTotal,
			Help: "Change-feed notifications dropped inside a suppression window.",
		}, []string{"entity_type", "kind"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricMutationsTotal,
			Help: "Coordinated local mutations by outcome.",
		}, []string{"entity_type", "outcome"}),
		rulesFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRulesFiredTotal,
			Help: "Automation rules whose conditions matched and actions ran.",
		}, []string{"rule"}),
	}

	for _, c := range []prometheus.Collector{r.feedEvents, r.feedSuppressed, r.mutations, r.rulesFired} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// FeedEvent implements sync.Recorder
func (r *Recorder) FeedEvent(entityType shared.EntityType, kind syncx.ChangeKind, applied bool) {
	if applied {
		r.feedEvents.WithLabelValues(entityType.String(), string(kind)).Inc()
	} else {
		r.feedSuppressed.WithLabelValues(entityType.String(), string(kind)).Inc()
	}
}

// Mutation implements sync.Recorder
func (r *Recorder) Mutation(entityType shared.EntityType, succeeded bool) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	r.mutations.WithLabelValues(entityType.String(), outcome).Inc()
}

// RuleFired counts one automation rule firing
func (r *Recorder) RuleFired(ruleName string) {
	r.rulesFired.WithLabelValues(ruleName).Inc()
}

// Ensure Recorder implements sync.Recorder
var _ syncx.Recorder = (*Recorder)(nil)
