// Package metrics defines Prometheus metrics for rexlibris.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rexlibris"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Result pool metrics.
var (
	PoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_size",
		Help:      "Current number of buffered catalogue records.",
	})

	PoolFillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_fills_total",
		Help:      "Total number of pool fill operations by mode.",
	}, []string{"mode"}) // "sync" or "async"

	PoolRecordsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_records_added_total",
		Help:      "Total number of records admitted to the pool.",
	})

	PoolDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_duplicates_total",
		Help:      "Total number of fetched records dropped as duplicates.",
	})

	PoolDrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_draws_total",
		Help:      "Total number of records handed to consumers.",
	})

	PoolFillDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pool_fill_duration_seconds",
		Help:      "Duration of pool fill operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Primo search metrics.
var (
	SearchRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Total number of Primo search requests issued.",
	})

	SearchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_failures_total",
		Help:      "Total number of Primo search requests that failed.",
	})
)

// Word supply metrics.
var (
	WordsBuffered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "words_buffered",
		Help:      "Current number of buffered query words.",
	})

	WordRefillsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "word_refills_total",
		Help:      "Total number of word supply refill attempts.",
	})

	WordFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "word_fallbacks_total",
		Help:      "Total number of draws served from the fallback word list.",
	})
)
