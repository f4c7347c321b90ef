package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics tracks expiry sweep runs and per-record outcomes.
// A nil *SweepMetrics records nothing.
type SweepMetrics struct {
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastRun         prometheus.Gauge
	lastRunArchived prometheus.Gauge

	evaluatedTotal        *prometheus.CounterVec
	transitionsTotal      *prometheus.CounterVec
	categoryFailuresTotal *prometheus.CounterVec
}

// NewSweepMetrics creates and registers sweep metrics with the provided registry.
func NewSweepMetrics(namespace, subsystem string, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_total",
				Help:      "Total number of expiry sweeps by result",
			},
			[]string{"result"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of expiry sweeps in seconds",
				// CLI-backed stores take seconds per operation.
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last expiry sweep finished",
			},
		),

		lastRunArchived: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_run_archived",
				Help:      "Records archived by the last expiry sweep",
			},
		),

		evaluatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "records_evaluated_total",
				Help:      "Total number of records classified by category and status",
			},
			[]string{"category", "status"},
		),

		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "archive_transitions_total",
				Help:      "Total number of archive attempts by category and outcome",
			},
			[]string{"category", "outcome"},
		),

		categoryFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "category_failures_total",
				Help:      "Total number of categories skipped by reason",
			},
			[]string{"category", "reason"},
		),
	}

	registry.MustRegister(
		sm.runsTotal,
		sm.runDuration,
		sm.lastRun,
		sm.lastRunArchived,
		sm.evaluatedTotal,
		sm.transitionsTotal,
		sm.categoryFailuresTotal,
	)

	return sm
}

// RecordEvaluated records a record classification. Status is "valid",
// "expired" or "indeterminate".
func (sm *SweepMetrics) RecordEvaluated(category, status string) {
	if sm == nil {
		return
	}
	sm.evaluatedTotal.WithLabelValues(category, status).Inc()
}

// RecordTransition records an archive attempt. Outcome is "archived",
// "write_failed" or "delete_failed".
func (sm *SweepMetrics) RecordTransition(category, outcome string) {
	if sm == nil {
		return
	}
	sm.transitionsTotal.WithLabelValues(category, outcome).Inc()
}

// RecordCategoryFailure records a skipped category.
func (sm *SweepMetrics) RecordCategoryFailure(category, reason string) {
	if sm == nil {
		return
	}
	sm.categoryFailuresTotal.WithLabelValues(category, reason).Inc()
}

// RecordSweep records a finished sweep. Result is "success", "partial" or
// "fatal"; the last-run gauges are only updated for non-fatal runs.
func (sm *SweepMetrics) RecordSweep(result string, duration time.Duration, archived int64, finished time.Time) {
	if sm == nil {
		return
	}
	sm.runsTotal.WithLabelValues(result).Inc()
	sm.runDuration.Observe(duration.Seconds())
	if result == "fatal" {
		return
	}
	sm.lastRun.Set(float64(finished.UnixNano()) / 1e9)
	sm.lastRunArchived.Set(float64(archived))
}
