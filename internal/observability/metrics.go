package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks HTTP requests served by the storefront.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal tracks calls to the commerce API.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_upstream_requests_total",
			Help: "Total number of commerce API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// CircuitBreakerState tracks commerce API circuit state (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Commerce API circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// ContentReloadsTotal counts successful reloads of the static pages file.
	ContentReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_content_reloads_total",
			Help: "Total number of content page reloads",
		},
	)

	// TrackingLookupsTotal tracks order tracking lookups by result.
	TrackingLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_tracking_lookups_total",
			Help: "Total number of order tracking lookups",
		},
		[]string{"result"},
	)
)
