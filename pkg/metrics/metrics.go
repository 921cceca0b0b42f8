// Package metrics exposes Prometheus collectors for the travel planner.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts completed searches by the distance tier that answered them.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_searches_total",
			Help: "Total number of route searches by distance source",
		},
		[]string{"source"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tripwise_search_duration_seconds",
			Help:    "Time spent planning a search, cache lookup included",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_cache_hits_total",
			Help: "Total number of distance cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_cache_misses_total",
			Help: "Total number of distance cache misses",
		},
		[]string{"backend"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_cache_errors_total",
			Help: "Total number of distance cache failures",
		},
		[]string{"backend", "operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripwise_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"method", "route"},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripwise_rate_limit_exceeded_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	CatalogEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripwise_catalog_entries",
			Help: "Number of places and city pairs known to the resolver",
		},
		[]string{"kind"},
	)
)

func RecordSearch(source string, duration time.Duration) {
	SearchesTotal.WithLabelValues(source).Inc()
	SearchDuration.Observe(duration.Seconds())
}

func RecordCacheHit(backend string) {
	CacheHits.WithLabelValues(backend).Inc()
}

func RecordCacheMiss(backend string) {
	CacheMisses.WithLabelValues(backend).Inc()
}

func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRateLimitExceeded() {
	RateLimitExceeded.Inc()
}

func SetCatalogSize(places, pairs int) {
	CatalogEntries.WithLabelValues("places").Set(float64(places))
	CatalogEntries.WithLabelValues("pairs").Set(float64(pairs))
}
