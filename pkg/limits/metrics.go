package limits

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for admission decisions.
type Metrics struct {
	// Admission decisions by result and reason
	decisions *prometheus.CounterVec

	// Cost applied after the provider call, by source
	costApplied *prometheus.CounterVec

	// Daily counter resets
	resets *prometheus.CounterVec

	// Clients removed by the idle sweep
	swept prometheus.Counter

	// Time spent holding the ledger lock in TryAdmit
	checkDuration prometheus.Histogram
}

// NewMetrics registers admission metrics with reg. A nil reg uses the
// default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mairchen_admission_decisions_total",
				Help: "Total number of admission decisions",
			},
			[]string{"result", "reason"},
		),

		costApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mairchen_admission_cost_applied_total",
				Help: "Total cost charged to the daily ledger",
			},
			[]string{"source"},
		),

		resets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mairchen_admission_daily_resets_total",
				Help: "Total number of daily counter resets",
			},
			[]string{"counter"},
		),

		swept: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mairchen_admission_swept_clients_total",
				Help: "Total number of idle clients removed from the ledger",
			},
		),

		checkDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mairchen_admission_check_duration_seconds",
				Help:    "Duration of admission checks",
				Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
			},
		),
	}
}

// RecordDecision records an admission decision.
func (m *Metrics) RecordDecision(d Decision, duration time.Duration) {
	if m == nil {
		return
	}
	result := "admitted"
	if !d.Admitted {
		result = "rejected"
	}
	m.decisions.WithLabelValues(result, d.Reason.String()).Inc()
	m.checkDuration.Observe(duration.Seconds())
}

// RecordCost records cost added to the ledger.
func (m *Metrics) RecordCost(source string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.costApplied.WithLabelValues(source).Add(amount)
}

// RecordReset records a daily counter reset.
func (m *Metrics) RecordReset(counter string) {
	if m == nil {
		return
	}
	m.resets.WithLabelValues(counter).Inc()
}

// RecordSweep records clients removed by a sweep.
func (m *Metrics) RecordSweep(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.swept.Add(float64(removed))
}
