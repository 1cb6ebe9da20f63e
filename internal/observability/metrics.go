// Package observability provides Prometheus metrics for generation runs.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "lotto_cover_lab"

// Run status label values.
const (
	StatusComplete  = "complete"
	StatusShortfall = "shortfall"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Metrics holds the Prometheus collectors for the engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Search metrics
	CandidatesEvaluated prometheus.Counter
	CandidatesAccepted  prometheus.Counter
	CandidatesRejected  *prometheus.CounterVec
	CandidatesSelected  prometheus.Counter

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	Shortfalls  prometheus.Counter

	// History metrics
	HistoryDrawsLoaded prometheus.Gauge
	HistoryFallbacks   *prometheus.CounterVec

	// Storage metrics
	StoreOpDuration *prometheus.HistogramVec
	StoreOpErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates and registers all collectors on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		CandidatesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_evaluated_total",
			Help:      "Total number of combinations passed through the filter",
		}),
		CandidatesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_accepted_total",
			Help:      "Total number of combinations accepted and scored",
		}),
		CandidatesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_rejected_total",
			Help:      "Total number of combinations rejected by predicate",
		}, []string{"predicate"}),
		CandidatesSelected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_selected_total",
			Help:      "Total number of candidates in final selections",
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Total number of generation runs by mode and status",
		}, []string{"mode", "status"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Generation run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"mode"}),
		Shortfalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "shortfalls_total",
			Help:      "Total number of runs that accepted fewer candidates than targeted",
		}),

		HistoryDrawsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "draws_loaded",
			Help:      "Number of historical draws in the last loaded snapshot",
		}),
		HistoryFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "fallbacks_total",
			Help:      "Total number of default substitutions by kind",
		}, []string{"kind"}),

		StoreOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		StoreOpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_errors_total",
			Help:      "Total number of failed store operations",
		}, []string{"operation"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last run that completed",
		}),
	}
}

// RunSample is the outcome of one run, as seen by metrics.
type RunSample struct {
	Mode            string
	Status          string
	DurationSeconds float64
	Evaluated       int
	Accepted        int
	Selected        int
	Rejections      map[string]int
	FinishedUnix    int64
}

// RecordRun records the aggregate counters of a finished run.
func (m *Metrics) RecordRun(s RunSample) {
	if m == nil {
		return
	}
	m.CandidatesEvaluated.Add(float64(s.Evaluated))
	m.CandidatesAccepted.Add(float64(s.Accepted))
	m.CandidatesSelected.Add(float64(s.Selected))
	for predicate, n := range s.Rejections {
		if n > 0 {
			m.CandidatesRejected.WithLabelValues(predicate).Add(float64(n))
		}
	}

	m.RunsTotal.WithLabelValues(s.Mode, s.Status).Inc()
	m.RunDuration.WithLabelValues(s.Mode).Observe(s.DurationSeconds)
	if s.Status == StatusShortfall {
		m.Shortfalls.Inc()
	}
	if s.Status != StatusFailed && s.FinishedUnix > 0 {
		m.LastSuccessfulRun.Set(float64(s.FinishedUnix))
	}
}

// RecordHistory records the size of a loaded history snapshot and any
// default substitutions.
func (m *Metrics) RecordHistory(draws int, historyUnavailable, rankDefaulted bool) {
	if m == nil {
		return
	}
	m.HistoryDrawsLoaded.Set(float64(draws))
	if historyUnavailable {
		m.HistoryFallbacks.WithLabelValues("history").Inc()
	}
	if rankDefaulted {
		m.HistoryFallbacks.WithLabelValues("rank_profile").Inc()
	}
}

// RecordStoreOp records a store operation's latency and failure.
func (m *Metrics) RecordStoreOp(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.StoreOpDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.StoreOpErrors.WithLabelValues(operation).Inc()
	}
}
