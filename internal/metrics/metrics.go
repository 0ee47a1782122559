// Package metrics provides Prometheus metrics for cardwatch.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream API Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardwatch_upstream_requests_total",
			Help: "Total number of pricing API requests made",
		},
		[]string{"endpoint"}, // "search", "products", "prices"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardwatch_upstream_request_duration_seconds",
			Help:    "Pricing API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardwatch_upstream_errors_total",
			Help: "Pricing API failures by endpoint",
		},
		[]string{"endpoint"},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_search_cache_hits_total",
			Help: "Search id-list cache hit count",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_search_cache_misses_total",
			Help: "Search id-list cache miss count",
		},
	)

	// Ingestion Metrics
	IngestRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_ingest_runs_total",
			Help: "Total number of daily ingestion runs",
		},
	)

	EntriesAppendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardwatch_history_entries_appended_total",
			Help: "Total number of history entries appended to the ledger",
		},
	)

	ProductsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardwatch_products_tracked",
			Help: "Number of products with at least one ledger entry",
		},
	)

	IngestBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardwatch_ingest_batch_duration_seconds",
			Help:    "Time taken to ingest one batch of cards",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)
