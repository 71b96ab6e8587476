package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes engine activity as Prometheus collectors.
type Metrics struct {
	Runs           *prometheus.CounterVec
	ActiveRuns     prometheus.Gauge
	Triggers       *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	Errors         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered (e.g. by a previous engine in the same process) are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "macrograph_runs_total",
			Help: "Finished automaton runs by outcome",
		}, []string{"outcome"}),
		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "macrograph_active_runs",
			Help: "Automaton runs currently executing",
		}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "macrograph_triggers_total",
			Help: "Observer triggers by node",
		}, []string{"node_id"}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "macrograph_action_duration_seconds",
			Help:    "Duration of action executions",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"action"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "macrograph_errors_total",
			Help: "Observer and action failures by kind",
		}, []string{"kind"}),
	}

	var err error
	if m.Runs, err = register(reg, m.Runs); err != nil {
		return nil, err
	}
	if m.ActiveRuns, err = register(reg, m.ActiveRuns); err != nil {
		return nil, err
	}
	if m.Triggers, err = register(reg, m.Triggers); err != nil {
		return nil, err
	}
	if m.ActionDuration, err = register(reg, m.ActionDuration); err != nil {
		return nil, err
	}
	if m.Errors, err = register(reg, m.Errors); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.Inc()
		},
		OnRunStop: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.Dec()
			m.Runs.WithLabelValues(string(e.Outcome)).Inc()
		},
		OnTrigger: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Triggers.WithLabelValues(e.NodeID).Inc()
		},
		OnActionExecute: func(ctx context.Context, e *domain.ActionEvent) {
			m.ActionDuration.WithLabelValues(actionLabel(e.Action)).Observe(e.Duration.Seconds())
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			kind := "unknown"
			switch {
			case errors.Is(e.Error, domain.ErrObserverFailed):
				kind = "observer"
			case errors.Is(e.Error, domain.ErrActionFailed):
				kind = "action"
			}
			m.Errors.WithLabelValues(kind).Inc()
		},
	}
}

// actionLabel keeps label cardinality low: "click(10,20,left)" becomes "click".
func actionLabel(desc string) string {
	if i := strings.IndexAny(desc, "( "); i > 0 {
		return desc[:i]
	}
	return desc
}
