// Package metrics provides Prometheus metrics for the dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh cycle metrics
	refreshTotal    prometheus.Counter
	refreshFailures prometheus.Counter
	refreshSkipped  prometheus.Counter // triggers coalesced while a cycle was in flight
	refreshDuration prometheus.Histogram

	// Ingestion metrics, labeled by source (leads / rentals)
	rowsParsed  *prometheus.GaugeVec
	rowsSkipped *prometheus.GaugeVec

	// Snapshot metrics
	snapshotLastUnix prometheus.Gauge
	snapshotAge      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bayview",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_total",
		Help:      "Total number of refresh cycles started",
	})

	m.refreshFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_failures_total",
		Help:      "Total number of refresh cycles that failed (previous snapshot retained)",
	})

	m.refreshSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_skipped_total",
		Help:      "Total number of refresh triggers coalesced because a cycle was in flight",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Histogram of full refresh cycle duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.rowsParsed = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_parsed",
		Help:      "Rows successfully parsed in the last refresh, by source",
	}, []string{"source"})

	m.rowsSkipped = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_skipped",
		Help:      "Malformed rows dropped in the last refresh, by source",
	}, []string{"source"})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_refresh_unix",
		Help:      "Unix timestamp of the last successful snapshot replacement",
	})

	m.snapshotAge = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_age_seconds",
		Help:      "Seconds since the last successful snapshot replacement",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "Total HTTP error responses by endpoint and error class",
	}, []string{"endpoint", "class"})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the registry metrics are served from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordRefreshStarted increments the refresh cycle counter.
func RecordRefreshStarted() { globalManager.refreshTotal.Inc() }

// RecordRefreshFailed increments the failed cycle counter.
func RecordRefreshFailed() { globalManager.refreshFailures.Inc() }

// RecordRefreshSkipped increments the coalesced trigger counter.
func RecordRefreshSkipped() { globalManager.refreshSkipped.Inc() }

// RecordRefreshDuration observes one full cycle duration.
func RecordRefreshDuration(d time.Duration) {
	globalManager.refreshDuration.Observe(d.Seconds())
}

// UpdateRowCounts records parsed and skipped row counts for one source.
func UpdateRowCounts(source string, parsed, skipped int) {
	globalManager.rowsParsed.WithLabelValues(source).Set(float64(parsed))
	globalManager.rowsSkipped.WithLabelValues(source).Set(float64(skipped))
}

// UpdateSnapshotRefreshed records a successful snapshot replacement.
func UpdateSnapshotRefreshed(at time.Time) {
	globalManager.snapshotLastUnix.Set(float64(at.Unix()))
	globalManager.snapshotAge.Set(0)
}

// UpdateSnapshotAge records the current snapshot age.
func UpdateSnapshotAge(age time.Duration) {
	globalManager.snapshotAge.Set(age.Seconds())
}

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one request duration.
func RecordHTTPRequestDuration(endpoint, method string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// RecordHTTPError counts one error response.
func RecordHTTPError(endpoint, class string) {
	globalManager.httpErrors.WithLabelValues(endpoint, class).Inc()
}

// UpdateSystemMemoryUsage records current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemory.Set(float64(bytes))
}

// UpdateSystemGoroutineCount records the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutines.Set(float64(count))
}
