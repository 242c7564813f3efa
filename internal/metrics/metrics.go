// Package metrics provides Prometheus metrics for the squad builder.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric of the service. It satisfies cache.Observer and
// selection.Observer.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Selection
	oracleAttempts    prometheus.Counter
	validationFailure prometheus.Counter
	violations        prometheus.Histogram
	fallbacks         prometheus.Counter
	buildDuration     *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "squad_builder",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Builds served from the response cache",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Builds computed because no cached result existed",
	})
	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Cached results dropped to stay within capacity",
	})
	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Current number of cached results",
	})

	m.oracleAttempts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "selection",
		Name:      "oracle_attempts_total",
		Help:      "Calls made to the selection oracle",
	})
	m.validationFailure = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "selection",
		Name:      "validation_failures_total",
		Help:      "Oracle proposals rejected by constraint validation",
	})
	m.violations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "selection",
		Name:      "violations_per_failure",
		Help:      "Number of violations found in a rejected proposal",
		Buckets:   []float64{1, 2, 3, 5, 8},
	})
	m.fallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "selection",
		Name:      "fallbacks_total",
		Help:      "Builds that used the top-rated fallback squad",
	})
	m.buildDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "build_duration_seconds",
		Help:      "Time to produce a squad result",
		Buckets:   m.histogramBuckets,
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// CacheHit records a cache hit.
func (m *Manager) CacheHit() { m.cacheHits.Inc() }

// CacheMiss records a cache miss.
func (m *Manager) CacheMiss() { m.cacheMisses.Inc() }

// CacheEviction records an eviction.
func (m *Manager) CacheEviction() { m.cacheEvictions.Inc() }

// CacheSize records the current number of entries.
func (m *Manager) CacheSize(n int) { m.cacheSize.Set(float64(n)) }

// OracleAttempt records one oracle call.
func (m *Manager) OracleAttempt() { m.oracleAttempts.Inc() }

// ValidationFailed records a rejected proposal.
func (m *Manager) ValidationFailed(violations int) {
	m.validationFailure.Inc()
	m.violations.Observe(float64(violations))
}

// Fallback records a build that used the fallback squad.
func (m *Manager) Fallback() { m.fallbacks.Inc() }

// ObserveBuild records how long a build took. Outcome is one of
// "oracle", "fallback", "cached" or "error".
func (m *Manager) ObserveBuild(outcome string, d time.Duration) {
	m.buildDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
