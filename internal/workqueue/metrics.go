package workqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only updated on the worker goroutine, so it has a single writer.
var (
	submissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loans",
			Subsystem: "workqueue",
			Name:      "submissions_total",
			Help:      "Jobs accepted for execution.",
		},
	)

	queueFullTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loans",
			Subsystem: "workqueue",
			Name:      "queue_full_total",
			Help:      "Enqueue attempts that timed out because the queue was full.",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "loans",
			Subsystem: "workqueue",
			Name:      "run_duration_seconds",
			Help:      "Job execution latency.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loans",
			Subsystem: "workqueue",
			Name:      "queue_depth",
			Help:      "Jobs waiting behind the one in flight.",
		},
	)
)
