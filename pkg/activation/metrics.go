package activation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the activation package.
type Metrics struct {
	// Per-module rule evaluations
	evaluations *prometheus.CounterVec

	// Misconfigured modules excluded from plans
	misconfiguredModules *prometheus.CounterVec

	// Plans by dispatch mode
	plans *prometheus.CounterVec

	// Planning latency
	planDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with Prometheus collectors.
// Collectors register with the default registry, so create at most one
// instance per process.
func NewMetrics() *Metrics {
	return &Metrics{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_activation_evaluations_total",
				Help: "Total number of per-module rule evaluations by outcome",
			},
			[]string{"document_type", "outcome"},
		),

		misconfiguredModules: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_activation_misconfigured_modules_total",
				Help: "Total number of modules excluded from plans as misconfigured",
			},
			[]string{"document_type"},
		),

		plans: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_activation_plans_total",
				Help: "Total number of activation plans computed by dispatch mode",
			},
			[]string{"document_type", "dispatch_mode"},
		),

		planDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minerva_activation_plan_duration_seconds",
				Help:    "Duration of activation plan computation in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"document_type"},
		),
	}
}

// RecordEvaluation records a per-module evaluation outcome.
func (m *Metrics) RecordEvaluation(documentType string, outcome Outcome) {
	m.evaluations.WithLabelValues(documentType, string(outcome)).Inc()
}

// RecordMisconfiguredModule records a module excluded as misconfigured.
func (m *Metrics) RecordMisconfiguredModule(documentType string) {
	m.misconfiguredModules.WithLabelValues(documentType).Inc()
}

// RecordPlan records a computed activation plan.
func (m *Metrics) RecordPlan(documentType string, mode DispatchMode, duration time.Duration) {
	m.plans.WithLabelValues(documentType, string(mode)).Inc()
	m.planDuration.WithLabelValues(documentType).Observe(duration.Seconds())
}
