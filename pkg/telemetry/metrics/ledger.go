package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sebastiansucker/mAIrchen/pkg/limits"
)

// RegisterLedger exposes the admission ledger as gauges. snapshot is called
// once per gauge on every scrape.
//
// Metrics:
//   - mairchen_ledger_requests_today
//   - mairchen_ledger_cost_today
//   - mairchen_ledger_budget_remaining
//   - mairchen_ledger_active_clients
func (c *Collector) RegisterLedger(snapshot func() limits.Snapshot) {
	if c == nil || snapshot == nil {
		return
	}

	gauge := func(name, help string, value func(limits.Snapshot) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "ledger",
				Name:      name,
				Help:      help,
			},
			func() float64 { return value(snapshot()) },
		)
	}

	c.registry.MustRegister(
		gauge("requests_today", "Admitted requests since the last daily reset",
			func(s limits.Snapshot) float64 { return float64(s.GlobalRequestsToday) }),
		gauge("cost_today", "Estimated cost charged since the last daily reset",
			func(s limits.Snapshot) float64 { return s.EstimatedCostToday }),
		gauge("budget_remaining", "Remaining daily budget",
			func(s limits.Snapshot) float64 { return s.BudgetRemaining }),
		gauge("active_clients", "Clients currently tracked by the ledger",
			func(s limits.Snapshot) float64 { return float64(s.ActiveClients) }),
	)
}

// RegisterUsageDrops exposes the number of usage records dropped by the
// asynchronous recorder.
func (c *Collector) RegisterUsageDrops(dropped func() int64) {
	if c == nil || dropped == nil {
		return
	}
	c.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "usage",
			Name:      "dropped_records_total",
			Help:      "Usage records dropped because the recorder buffer was full",
		},
		func() float64 { return float64(dropped()) },
	))
}
