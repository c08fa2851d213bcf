package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/config"
)

// EvaluationMetrics tracks metrics related to invariant evaluation.
//
// Metrics:
//   - ganymede_invariant_evaluations_total: evaluations by invariant, kind and outcome
//   - ganymede_invariant_evaluation_duration_seconds: evaluation duration by kind
//   - ganymede_invariant_runs_total: suite runs by outcome
//   - ganymede_invariant_run_duration_seconds: suite run duration
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	runsTotal          *prometheus.CounterVec
	runDuration        prometheus.Histogram
}

// NewEvaluationMetrics creates and registers evaluation metrics with the
// provided registry.
func NewEvaluationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of invariant evaluations",
			},
			[]string{"invariant", "kind", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single invariant evaluation in seconds",
				// Built-in checks are sub-millisecond; custom validators may not be.
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
			},
			[]string{"kind"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of suite runs",
			},
			[]string{"outcome"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of a full suite run in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.runsTotal,
		em.runDuration,
	)

	return em
}

// RecordEvaluation records a single invariant evaluation.
func (m *EvaluationMetrics) RecordEvaluation(invariantName, kind string, passed bool, duration time.Duration) {
	m.evaluationsTotal.WithLabelValues(invariantName, kind, outcomeLabel(passed)).Inc()
	m.evaluationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRun records a completed suite run.
func (m *EvaluationMetrics) RecordRun(passed bool, duration time.Duration) {
	m.runsTotal.WithLabelValues(outcomeLabel(passed)).Inc()
	m.runDuration.Observe(duration.Seconds())
}

func outcomeLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
