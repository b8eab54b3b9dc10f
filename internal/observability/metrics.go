// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scheduler metrics
	TickRunsTotal *prometheus.CounterVec
	TickDuration  *prometheus.HistogramVec
	TicksSkipped  *prometheus.CounterVec

	// Engine metrics
	EntitiesProcessed *prometheus.CounterVec
	EntitiesSkipped   *prometheus.CounterVec

	// Broadcast metrics
	EventsPublished *prometheus.CounterVec

	// Storage metrics
	StoreErrors *prometheus.CounterVec

	// Health metrics
	LastSuccessfulTick *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "global_pick_trade"
	}

	return &Metrics{
		TickRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tick_runs_total",
			Help:      "Total number of tick runs by job and status",
		}, []string{"job", "status"}),
		TickDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Tick execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"job"}),
		TicksSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "ticks_skipped_total",
			Help:      "Total number of ticks skipped because the previous run was still busy",
		}, []string{"job"}),

		EntitiesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "entities_processed_total",
			Help:      "Total number of entities successfully processed per job",
		}, []string{"job"}),
		EntitiesSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "entities_skipped_total",
			Help:      "Total number of entities skipped per job by reason",
		}, []string{"job", "reason"}),

		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "events_published_total",
			Help:      "Total number of events published by event name",
		}, []string{"event"}),

		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of store errors by store and operation",
		}, []string{"store", "operation"}),

		LastSuccessfulTick: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_tick_timestamp",
			Help:      "Unix timestamp of the last successful tick per job",
		}, []string{"job"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTick records a completed tick run for a job.
func RecordTick(job, status string, durationSeconds float64) {
	DefaultMetrics.TickRunsTotal.WithLabelValues(job, status).Inc()
	DefaultMetrics.TickDuration.WithLabelValues(job).Observe(durationSeconds)
}

// RecordTickSkipped records a tick skipped under the skip-if-busy policy.
func RecordTickSkipped(job string) {
	DefaultMetrics.TicksSkipped.WithLabelValues(job).Inc()
}

// RecordEntityProcessed increments the processed counter for a job.
func RecordEntityProcessed(job string) {
	DefaultMetrics.EntitiesProcessed.WithLabelValues(job).Inc()
}

// RecordEntitySkipped increments the skipped counter for a job.
func RecordEntitySkipped(job, reason string) {
	DefaultMetrics.EntitiesSkipped.WithLabelValues(job, reason).Inc()
}

// RecordEventPublished increments the published counter for an event name.
func RecordEventPublished(event string) {
	DefaultMetrics.EventsPublished.WithLabelValues(event).Inc()
}

// RecordStoreError increments the store error counter.
func RecordStoreError(store, operation string) {
	DefaultMetrics.StoreErrors.WithLabelValues(store, operation).Inc()
}
