package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

// Namespace prefixes every metric registered by this package.
const Namespace = "mairchen"

// Collector is the entry point for all Prometheus metrics of the service.
type Collector struct {
	registry *prometheus.Registry

	storyMetrics    *StoryMetrics
	providerMetrics *ProviderMetrics
	httpMetrics     *HTTPMetrics
}

// NewCollector creates a collector on registry. If registry is nil a fresh
// registry with the Go runtime and process collectors is used.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		registry:        registry,
		storyMetrics:    NewStoryMetrics(registry),
		providerMetrics: NewProviderMetrics(registry),
		httpMetrics:     NewHTTPMetrics(registry),
	}
}

// RecordStory records a finished generation.
//
// Parameters:
//   - tier: provider tier that served the request
//   - outcome: "success" or "upstream_failure"
//   - duration: time spent in the generator
//   - tokens: total tokens reported by the provider
//   - cost: amount charged to the daily ledger after the call
func (c *Collector) RecordStory(tier, outcome string, duration time.Duration, tokens int, cost float64) {
	if c == nil {
		return
	}
	c.storyMetrics.Record(tier, outcome, duration, tokens, cost)
}

// RecordProviderError records an upstream failure classified by error type.
func (c *Collector) RecordProviderError(tier string, err error) {
	if c == nil || err == nil {
		return
	}
	c.providerMetrics.RecordError(tier, errorType(err))
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpMetrics.Record(method, route, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// errorType maps provider errors onto a small fixed label set.
func errorType(err error) string {
	var (
		authErr    *providers.AuthError
		rateErr    *providers.RateLimitError
		timeoutErr *providers.TimeoutError
		provErr    *providers.ProviderError
	)

	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.Is(err, providers.ErrEmptyResponse):
		return "empty_response"
	case errors.As(err, &provErr) && provErr.StatusCode >= 500:
		return "server_error"
	case errors.As(err, &provErr) && provErr.StatusCode == 0:
		return "transport"
	case errors.As(err, &provErr):
		return "client_error"
	default:
		return "unknown"
	}
}
