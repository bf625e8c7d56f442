// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queriesTotal counts finished count queries by outcome.
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "research_trends_queries_total",
		Help: "Total per-year count queries by outcome",
	}, []string{"outcome"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "research_trends_query_duration_seconds",
		Help:    "Count query latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	})

	queriesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "research_trends_queries_in_flight",
		Help: "Count queries currently awaiting a response",
	})
)

const (
	outcomeOK        = "ok"
	outcomeAbandoned = "abandoned"
)
