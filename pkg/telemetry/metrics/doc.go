// Package metrics provides Prometheus metrics for the story service.
//
// # Overview
//
// A Collector owns a dedicated registry. Components register their own
// metrics on it (the admission controller does so through
// limits.NewMetrics(collector.Registry())), and the collector adds:
//
//   - Story metrics: generations by tier and outcome, generation latency,
//     tokens and cost per story
//   - Provider metrics: upstream errors by tier and error type
//   - HTTP metrics: requests by route and status, request duration
//   - Ledger gauges: requests and cost today, remaining budget and active
//     clients, read from the controller snapshot on every scrape
//
// # Usage
//
//	collector := metrics.NewCollector(nil)
//	ctrl, _ := limits.NewController(lim, limits.WithMetrics(limits.NewMetrics(collector.Registry())))
//	collector.RegisterLedger(ctrl.Snapshot)
//
//	collector.RecordStory("openai", "success", 2*time.Second, 812, 0.000812)
//
//	mux.Handle("/metrics", collector.Handler())
//
// All Record methods are safe to call on a nil *Collector, so callers do not
// need to check whether metrics are enabled.
package metrics
