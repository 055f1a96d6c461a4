package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for the HTTP layer and the listing engine.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	listingRows     prometheus.Histogram
	emptyListings   prometheus.Counter
	uncaughtErrors  prometheus.Counter
}

// NewMetrics registers collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of failed HTTP requests by error code",
		}, []string{"path", "method", "code"}),
		listingRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticket_listing_rows",
			Help:    "Rows returned per ticket listing page",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		}),
		emptyListings: factory.NewCounter(prometheus.CounterOpts{
			Name: "ticket_listing_empty_total",
			Help: "Listings served for users without open tickets",
		}),
		uncaughtErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "uncaught_exceptions_total",
			Help: "Server errors reported through the uncaught exception event",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// ObserveListing records the size of a served listing page.
func (m *Metrics) ObserveListing(rows int, empty bool) {
	if m == nil {
		return
	}
	m.listingRows.Observe(float64(rows))
	if empty {
		m.emptyListings.Inc()
	}
}

// RecordUncaught counts a reported uncaught exception.
func (m *Metrics) RecordUncaught() {
	if m == nil {
		return
	}
	m.uncaughtErrors.Inc()
}
