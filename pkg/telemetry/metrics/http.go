package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the HTTP surface.
//
// Metrics:
//   - mairchen_http_requests_total: requests by method, route and status
//   - mairchen_http_request_duration_seconds: request latency by route
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with registry.
func NewHTTPMetrics(registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(hm.requests, hm.duration)
	return hm
}

// Record records a served request. route must be a fixed pattern, not the
// raw URL path.
func (hm *HTTPMetrics) Record(method, route string, status int, duration time.Duration) {
	hm.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	hm.duration.WithLabelValues(route).Observe(duration.Seconds())
}
