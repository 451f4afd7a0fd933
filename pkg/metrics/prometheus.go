// Package metrics provides Prometheus metrics for the campusfeed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the feed service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core feed metrics
	eventsNormalized  prometheus.Counter
	catalogLoads      prometheus.Counter
	catalogLoadErrors prometheus.Counter
	feedQueries       prometheus.Counter
	saveToggles       prometheus.Counter
	customPublished   prometheus.Counter
	customWithdrawn   prometheus.Counter

	// Degradation metrics
	storageCorruptions *prometheus.CounterVec
	annotateFallbacks  prometheus.Counter

	// State gauges
	catalogSize prometheus.Gauge
	customSize  prometheus.Gauge
	savedSize   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets sets the latency histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "campusfeed",
		subsystem:        "feed",
		histogramBuckets: prometheus.DefBuckets,
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

	m.eventsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_normalized_total",
		Help:      "Total number of raw records normalized into canonical events",
	})
	m.catalogLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_loads_total",
		Help:      "Total number of successful catalog loads",
	})
	m.catalogLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_load_errors_total",
		Help:      "Total number of catalog loads that fell back to an empty list",
	})
	m.feedQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queries_total",
		Help:      "Total number of feed queries served",
	})
	m.saveToggles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_toggles_total",
		Help:      "Total number of save toggle operations",
	})
	m.customPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "custom_events_published_total",
		Help:      "Total number of custom events published",
	})
	m.customWithdrawn = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "custom_events_withdrawn_total",
		Help:      "Total number of custom events withdrawn",
	})

	m.storageCorruptions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_corruptions_total",
		Help:      "Total number of corrupt stored payloads replaced with defaults",
	}, []string{"key"})
	m.annotateFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annotate_fallbacks_total",
		Help:      "Total number of annotation requests served by the local heuristic",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_events",
		Help:      "Number of catalog events currently loaded",
	})
	m.customSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "custom_events",
		Help:      "Number of custom events currently stored",
	})
	m.savedSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saved_events",
		Help:      "Number of events currently marked saved",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// GetRegistry returns the registry behind the global manager, for the
// metrics scrape handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordEventsNormalized adds n normalized records.
func RecordEventsNormalized(n int) { globalManager.eventsNormalized.Add(float64(n)) }

// RecordCatalogLoad counts a successful catalog load.
func RecordCatalogLoad() { globalManager.catalogLoads.Inc() }

// RecordCatalogLoadError counts a catalog load that degraded to empty.
func RecordCatalogLoadError() { globalManager.catalogLoadErrors.Inc() }

// RecordFeedQuery counts a served feed query.
func RecordFeedQuery() { globalManager.feedQueries.Inc() }

// RecordSaveToggle counts one toggle operation.
func RecordSaveToggle() { globalManager.saveToggles.Inc() }

// RecordCustomPublished counts one published custom event.
func RecordCustomPublished() { globalManager.customPublished.Inc() }

// RecordCustomWithdrawn counts one withdrawn custom event.
func RecordCustomWithdrawn() { globalManager.customWithdrawn.Inc() }

// RecordStorageCorruption counts a corrupt payload replaced by a default.
func RecordStorageCorruption(key string) {
	globalManager.storageCorruptions.WithLabelValues(key).Inc()
}

// RecordAnnotateFallback counts a heuristic-served annotation.
func RecordAnnotateFallback() { globalManager.annotateFallbacks.Inc() }

// UpdateCatalogSize sets the loaded catalog gauge.
func UpdateCatalogSize(n int) { globalManager.catalogSize.Set(float64(n)) }

// UpdateCustomSize sets the stored custom-events gauge.
func UpdateCustomSize(n int) { globalManager.customSize.Set(float64(n)) }

// UpdateSavedSize sets the saved-events gauge.
func UpdateSavedSize(n int) { globalManager.savedSize.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}
