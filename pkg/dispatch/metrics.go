package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the dispatch package.
type Metrics struct {
	// Cache lookups
	cacheLookups *prometheus.CounterVec

	// Reasoner calls
	dispatches *prometheus.CounterVec

	// Concurrent requests coalesced into one flight
	sharedFlights *prometheus.CounterVec

	// Modules per batch
	batchSize *prometheus.HistogramVec

	// Reasoner call latency
	dispatchDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with Prometheus collectors.
// Collectors register with the default registry, so create at most one
// instance per process.
func NewMetrics() *Metrics {
	return &Metrics{
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_dispatch_cache_lookups_total",
				Help: "Total number of verdict cache lookups by result",
			},
			[]string{"document_type", "result"},
		),

		dispatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_dispatch_reasoner_calls_total",
				Help: "Total number of reasoner calls by result",
			},
			[]string{"document_type", "result"},
		),

		sharedFlights: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minerva_dispatch_shared_flights_total",
				Help: "Total number of requests served by another request's in-flight reasoner call",
			},
			[]string{"document_type"},
		),

		batchSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minerva_dispatch_batch_size_modules",
				Help:    "Number of modules per reasoner batch",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
			},
			[]string{"document_type"},
		),

		dispatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minerva_dispatch_reasoner_duration_seconds",
				Help:    "Duration of reasoner calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"document_type"},
		),
	}
}

// RecordCacheLookup records a verdict cache lookup.
func (m *Metrics) RecordCacheLookup(documentType string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.cacheLookups.WithLabelValues(documentType, result).Inc()
}

// RecordDispatch records one reasoner call.
func (m *Metrics) RecordDispatch(documentType string, batch int, ok bool, duration time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.dispatches.WithLabelValues(documentType, result).Inc()
	m.batchSize.WithLabelValues(documentType).Observe(float64(batch))
	m.dispatchDuration.WithLabelValues(documentType).Observe(duration.Seconds())
}

// RecordSharedFlight records a request coalesced into an in-flight call.
func (m *Metrics) RecordSharedFlight(documentType string) {
	m.sharedFlights.WithLabelValues(documentType).Inc()
}
