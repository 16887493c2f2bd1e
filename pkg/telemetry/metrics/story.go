package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoryMetrics tracks story generation.
//
// Metrics:
//   - mairchen_story_generations_total: generations by tier and outcome
//   - mairchen_story_generation_duration_seconds: generator latency
//   - mairchen_story_tokens: tokens per story
//   - mairchen_story_cost: cost charged per story
//   - mairchen_story_cost_total: cumulative cost charged
type StoryMetrics struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tokens      *prometheus.HistogramVec
	cost        *prometheus.HistogramVec
	costTotal   *prometheus.CounterVec
}

// NewStoryMetrics creates and registers story metrics with registry.
func NewStoryMetrics(registry *prometheus.Registry) *StoryMetrics {
	sm := &StoryMetrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "story",
				Name:      "generations_total",
				Help:      "Total number of story generations by outcome",
			},
			[]string{"tier", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "story",
				Name:      "generation_duration_seconds",
				Help:      "Duration of story generation in seconds",
				// Stories take seconds to minutes depending on length and tier.
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
			},
			[]string{"tier"},
		),

		tokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "story",
				Name:      "tokens",
				Help:      "Total tokens used per story",
				Buckets:   []float64{250, 500, 750, 1000, 1500, 2000, 3000, 4000},
			},
			[]string{"tier"},
		),

		cost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "story",
				Name:      "cost",
				Help:      "Cost charged per story",
				Buckets:   []float64{0, 0.0005, 0.001, 0.0015, 0.002, 0.003, 0.005},
			},
			[]string{"tier"},
		),

		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "story",
				Name:      "cost_total",
				Help:      "Total cost charged for stories",
			},
			[]string{"tier"},
		),
	}

	registry.MustRegister(
		sm.generations,
		sm.duration,
		sm.tokens,
		sm.cost,
		sm.costTotal,
	)

	return sm
}

// Record records one generation. Token and cost distributions only include
// successful stories.
func (sm *StoryMetrics) Record(tier, outcome string, duration time.Duration, tokens int, cost float64) {
	sm.generations.WithLabelValues(tier, outcome).Inc()
	sm.duration.WithLabelValues(tier).Observe(duration.Seconds())

	if cost > 0 {
		sm.costTotal.WithLabelValues(tier).Add(cost)
	}
	if outcome != "success" {
		return
	}
	sm.tokens.WithLabelValues(tier).Observe(float64(tokens))
	sm.cost.WithLabelValues(tier).Observe(cost)
}
