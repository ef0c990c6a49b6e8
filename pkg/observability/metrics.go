package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/formflow/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the lifecycle hooks.
type Metrics struct {
	transitions  *prometheus.CounterVec
	pollDuration *prometheus.HistogramVec
	navigations  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_lifecycle_transitions_total",
				Help: "Total number of applied lifecycle transitions",
			},
			[]string{"transition", "to"},
		),
		pollDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "formflow_status_poll_duration_seconds",
				Help: "Duration of background processing status polls",
			},
			[]string{"done"},
		),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_navigations_total",
				Help: "Total number of navigations delegated to the host router",
			},
			[]string{"path"},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.pollDuration, m.navigations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors. Combine
// them with any host-supplied hooks before handing them to the engine.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.Name, string(e.To)).Inc()
		},
		OnPollTick: func(_ context.Context, e *domain.PollEvent) {
			done := "false"
			if e.Done {
				done = "true"
			}
			m.pollDuration.WithLabelValues(done).Observe(e.Duration.Seconds())
		},
		OnNavigate: func(_ context.Context, e *domain.NavigateEvent) {
			m.navigations.WithLabelValues(e.Path).Inc()
		},
	}
}
