// Package metrics provides Prometheus metrics for the dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconcileCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_reconcile_cycles_total",
			Help: "Total number of reconciliation cycles by resulting state",
		},
		[]string{"state"},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_reconcile_duration_seconds",
			Help:    "Time taken for a reconciliation cycle including the four reads",
			Buckets: prometheus.DefBuckets,
		},
	)

	CollectionReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_collection_reads_total",
			Help: "Total number of collection reads by outcome",
		},
		[]string{"collection", "outcome"},
	)

	TimeLogsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_time_logs_created_total",
			Help: "Total number of time log create attempts by outcome",
		},
		[]string{"outcome"},
	)

	SummaryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_summary_requests_total",
			Help: "Total number of AI summary requests by outcome",
		},
		[]string{"outcome"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Number of signed in sessions",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_rate_limit_hits_total",
			Help: "Total number of requests rejected by the per-user limiter",
		},
		[]string{"route"},
	)
)

func RecordCycle(state string, duration time.Duration) {
	ReconcileCyclesTotal.WithLabelValues(state).Inc()
	ReconcileDuration.Observe(duration.Seconds())
}

func RecordRead(collection, outcome string) {
	CollectionReadsTotal.WithLabelValues(collection, outcome).Inc()
}

func RecordTimeLog(outcome string) {
	TimeLogsCreatedTotal.WithLabelValues(outcome).Inc()
}

func RecordSummary(outcome string) {
	SummaryRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordRateLimit(route string) {
	RateLimitHits.WithLabelValues(route).Inc()
}
