// Package metrics exposes Prometheus collectors for the signals service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	upstreamRequestsTotal      *prometheus.CounterVec
	linkChecksTotal            *prometheus.CounterVec
	mapperInFlight             *prometheus.GaugeVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call repeatedly; the
// Observe helpers call it lazily.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawpulse_http_requests_total",
				Help: "Total number of inbound HTTP requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawpulse_http_request_duration_seconds",
				Help:    "Histogram of inbound HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)

		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawpulse_upstream_requests_total",
				Help: "Outbound fetches, labeled by upstream and outcome.",
			},
			[]string{"upstream", "outcome"},
		)

		linkChecksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawpulse_link_checks_total",
				Help: "URL validation decisions, labeled by category and outcome.",
			},
			[]string{"category", "outcome"},
		)

		mapperInFlight = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pawpulse_mapper_in_flight",
				Help: "Invocations currently running inside bounded mappers.",
			},
			[]string{"pool"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveHTTPRequest records one inbound request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveUpstream records the outcome of an outbound fetch.
func ObserveUpstream(upstream, outcome string) {
	Init()
	if upstream == "" {
		upstream = "unknown"
	}
	upstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
}

// ObserveLinkCheck records a validator decision.
func ObserveLinkCheck(category, outcome string) {
	Init()
	linkChecksTotal.WithLabelValues(category, outcome).Inc()
}

// IncInFlight increments the in-flight gauge for a mapper pool.
func IncInFlight(pool string) {
	Init()
	mapperInFlight.WithLabelValues(pool).Inc()
}

// DecInFlight decrements the in-flight gauge for a mapper pool.
func DecInFlight(pool string) {
	Init()
	mapperInFlight.WithLabelValues(pool).Dec()
}
