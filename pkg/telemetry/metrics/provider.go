package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProviderMetrics tracks upstream failures.
//
// Metrics:
//   - mairchen_provider_errors_total: errors by tier and type
type ProviderMetrics struct {
	errors *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with registry.
func NewProviderMetrics(registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"tier", "error_type"},
		),
	}

	registry.MustRegister(pm.errors)
	return pm
}

// RecordError records an error from the provider.
//
// Error types: "auth", "rate_limit", "timeout", "empty_response",
// "server_error", "client_error", "transport", "unknown".
func (pm *ProviderMetrics) RecordError(tier, errType string) {
	pm.errors.WithLabelValues(tier, errType).Inc()
}
