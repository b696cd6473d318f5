package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheStaleHits   prometheus.Counter
	CacheStoreErrors prometheus.Counter
	RefreshFailures  prometheus.Counter
	RefreshDropped   prometheus.Counter

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec
}

// NewCollector creates a metrics collector with its own registry so tests
// never trip over duplicate registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total cache hits",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total cache misses",
	})
	cacheStaleHits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_stale_hits_total",
		Help:      "Cache hits served past their stale window",
	})
	cacheStoreErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_store_errors_total",
		Help:      "Cache store operations that failed and fell through to the source",
	})
	refreshFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refresh_failures_total",
		Help:      "Background cache refreshes that ended in the dead-letter log",
	})
	refreshDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refresh_dropped_total",
		Help:      "Background refresh tasks dropped because the queue was full",
	})

	dbOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_operations_total",
			Help:      "Total database operations",
		},
		[]string{"operation", "status"},
	)
	dbDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Database operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		httpRequests, httpDuration,
		cacheHits, cacheMisses, cacheStaleHits, cacheStoreErrors,
		refreshFailures, refreshDropped,
		dbOperations, dbDuration,
	)

	return &Collector{
		registry:         registry,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		CacheStaleHits:   cacheStaleHits,
		CacheStoreErrors: cacheStoreErrors,
		RefreshFailures:  refreshFailures,
		RefreshDropped:   refreshDropped,
		DBOperations:     dbOperations,
		DBDuration:       dbDuration,
	}
}

// Handler returns the Prometheus scrape handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
