// Package observability exposes engine lifecycle activity as Prometheus
// metrics. Attach the returned hooks with pergola.WithLifecycleHooks and
// serve the registry with promhttp.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pergola/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Navigations   *prometheus.CounterVec
	PhaseDuration *prometheus.HistogramVec
	Fetches       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pergola_navigations_total",
				Help: "Total navigations by trigger and outcome",
			},
			[]string{"trigger", "status"},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "pergola_transition_phase_duration_seconds",
				Help: "Duration of transition lifecycle phases",
			},
			[]string{"transition", "phase"},
		),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pergola_fetches_total",
				Help: "Markup requests by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Navigations, m.PhaseDuration, m.Fetches)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRefresh: func(_ context.Context, e *domain.NavigationEvent) {
			// The boot refresh is not a navigation.
			if e.Boot {
				return
			}
			m.Navigations.WithLabelValues(string(e.Trigger), "success").Inc()
		},
		OnError: func(_ context.Context, e *domain.NavigationEvent, _ error) {
			m.Navigations.WithLabelValues(string(e.Trigger), "failure").Inc()
		},
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			m.PhaseDuration.WithLabelValues(e.Transition, e.Phase).Observe(e.Duration.Seconds())
		},
		OnFetch: func(_ context.Context, e *domain.FetchEvent) {
			switch {
			case e.Err != "":
				m.Fetches.WithLabelValues("error").Inc()
			case e.Cached:
				m.Fetches.WithLabelValues("hit").Inc()
			default:
				m.Fetches.WithLabelValues("fetched").Inc()
			}
		},
	}
}
