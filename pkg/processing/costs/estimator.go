package costs

import (
	"log/slog"

	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

// Estimator applies post-call cost corrections to a CostSink.
type Estimator struct {
	calc   *Calculator
	sink   CostSink
	logger *slog.Logger
}

// NewEstimator creates an estimator that charges sink.
func NewEstimator(calc *Calculator, sink CostSink) *Estimator {
	return &Estimator{
		calc:   calc,
		sink:   sink,
		logger: slog.Default().With("component", "costs.estimator"),
	}
}

// RecordActualUsage charges tokensUsed at the tier's rate and returns the
// amount charged. It must be called once per admitted request that reached
// the provider, with zero tokens on failure. The charge is added on top of
// the admission placeholder.
func (e *Estimator) RecordActualUsage(tokensUsed int, tier providers.Tier) float64 {
	cost := e.calc.ActualCost(tokensUsed, tier)
	e.sink.AddCost(cost)

	e.logger.Debug("actual usage recorded",
		"tier", string(tier),
		"tokens", tokensUsed,
		"cost", cost,
	)
	return cost
}

// Calculator returns the underlying calculator.
func (e *Estimator) Calculator() *Calculator {
	return e.calc
}
