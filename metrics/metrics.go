// Package metrics provides Prometheus metrics collection for HTTP server monitoring.
// It exports three metrics for tracking HTTP request performance:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// It also tracks domain outcomes: label resolutions and shorthand expansions
// labelled by whether they produced a result.
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	LabelResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_resolutions_total",
			Help: "Warning label resolutions by outcome (matched or unmatched)",
		},
		[]string{"outcome"},
	)

	ShorthandExpansionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shorthand_expansions_total",
			Help: "Shorthand expansions by outcome (expanded or passthrough)",
		},
		[]string{"outcome"},
	)
)

// ObserveResolution records the outcome of a warning label resolution.
func ObserveResolution(matched bool) {
	outcome := "unmatched"
	if matched {
		outcome = "matched"
	}
	LabelResolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveExpansion records the outcome of a shorthand expansion.
func ObserveExpansion(expanded bool) {
	outcome := "passthrough"
	if expanded {
		outcome = "expanded"
	}
	ShorthandExpansionsTotal.WithLabelValues(outcome).Inc()
}

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(LabelResolutionsTotal)
	prometheus.MustRegister(ShorthandExpansionsTotal)
}
