package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loans",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Loan API operations by outcome (ok or error kind).",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loans",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Loan API operation latency, including decoding.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
