package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Bootstrap metrics
	BootstrapStepsTotal   *prometheus.CounterVec
	BootstrapStepDuration *prometheus.HistogramVec

	// Autocomplete metrics
	AutocompleteLookupsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		BootstrapStepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plugin_bootstrap_steps_total",
				Help: "Total number of executed bootstrap steps",
			},
			[]string{"step", "status"},
		),
		BootstrapStepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plugin_bootstrap_step_duration_seconds",
				Help:    "Bootstrap step duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		AutocompleteLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plugin_autocomplete_lookups_total",
				Help: "Total number of autocomplete provider lookups",
			},
			[]string{"outcome"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.BootstrapStepsTotal,
			m.BootstrapStepDuration,
			m.AutocompleteLookupsTotal,
		)
	}

	return m
}

// RecordStep records a bootstrap step execution
func (m *Metrics) RecordStep(step string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.BootstrapStepsTotal.WithLabelValues(step, status).Inc()
	m.BootstrapStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordAutocompleteLookup records the outcome of an autocomplete lookup
func (m *Metrics) RecordAutocompleteLookup(outcome string) {
	m.AutocompleteLookupsTotal.WithLabelValues(outcome).Inc()
}
