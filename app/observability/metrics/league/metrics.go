package leaguemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeagueMetrics records league operation outcomes.
type LeagueMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordRejection(ctx context.Context, operation, reason string)
	RecordPersistenceFailure(ctx context.Context, operation string)
}

type prometheusMetrics struct {
	attempts            *prometheus.CounterVec
	successes           *prometheus.CounterVec
	failures            *prometheus.CounterVec
	durations           *prometheus.HistogramVec
	rejections          *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
}

// NewPrometheus registers the league collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (LeagueMetrics, error) {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "operation_attempts_total",
			Help:      "League operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "operation_success_total",
			Help:      "League operations that completed without an infrastructure error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "operation_failures_total",
			Help:      "League operations that failed with an error or panic.",
		}, []string{"operation", "service"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "operation_duration_seconds",
			Help:      "League operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "rejections_total",
			Help:      "League mutations rejected by a domain rule.",
		}, []string{"operation", "reason"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "league",
			Name:      "persistence_failures_total",
			Help:      "Snapshots that could not be written to the store.",
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.durations, m.rejections, m.persistenceFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordRejection(_ context.Context, operation, reason string) {
	m.rejections.WithLabelValues(operation, reason).Inc()
}

func (m *prometheusMetrics) RecordPersistenceFailure(_ context.Context, operation string) {
	m.persistenceFailures.WithLabelValues(operation).Inc()
}

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() LeagueMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordRejection(context.Context, string, string)                        {}
func (noop) RecordPersistenceFailure(context.Context, string)                       {}
