package metrics

import (
	"errors"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "product_api",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "product_api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "product_api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	productOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "product_api",
			Subsystem: "products",
			Name:      "operations_total",
			Help:      "Total number of product service operations by outcome.",
		},
		[]string{"operation", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		productOperations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the func that ends it
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveRequest records a finished HTTP request. path should be a route
// template, not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProductOperation counts a product service call by its outcome
func RecordProductOperation(operation string, err error) {
	productOperations.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidPageRequest), errors.Is(err, domain.ErrInvalidSortField):
		return "invalid"
	default:
		return "error"
	}
}
