package costs

import (
	"math"
	"testing"

	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

type sinkFunc func(float64)

func (f sinkFunc) AddCost(amount float64) { f(amount) }

func TestCalculator_ActualCost(t *testing.T) {
	calc := NewCalculator(DefaultPricing())

	tests := []struct {
		tier   providers.Tier
		tokens int
		want   float64
	}{
		{providers.TierOpenAI, 2000, 0.002},
		{providers.TierCompatible, 1500, 0.0015},
		{providers.TierOllamaCloud, 2000, 0.001},
		{providers.TierOllamaLocal, 5000, 0},
		{providers.TierOpenAI, 0, 0},
		{providers.TierOpenAI, -10, 0},
	}

	for _, tt := range tests {
		got := calc.ActualCost(tt.tokens, tt.tier)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ActualCost(%d, %q) = %v, want %v", tt.tokens, tt.tier, got, tt.want)
		}
	}
}

func TestCalculator_UpdatePricing(t *testing.T) {
	calc := NewCalculator(Pricing{})

	// Unlisted tiers fall back to the built-in rate.
	if got := calc.Rate(providers.TierOllamaCloud); got != 0.0005 {
		t.Errorf("Rate(ollama-cloud) = %v, want 0.0005", got)
	}

	calc.UpdatePricing(Pricing{Rates: map[providers.Tier]float64{providers.TierOllamaCloud: 0.002}})
	if got := calc.Rate(providers.TierOllamaCloud); got != 0.002 {
		t.Errorf("Rate(ollama-cloud) = %v after update, want 0.002", got)
	}
}

func TestEstimator_RecordActualUsage(t *testing.T) {
	var charged []float64
	est := NewEstimator(NewCalculator(DefaultPricing()), sinkFunc(func(a float64) {
		charged = append(charged, a)
	}))

	got := est.RecordActualUsage(2000, providers.TierOpenAI)
	if math.Abs(got-0.002) > 1e-12 {
		t.Errorf("RecordActualUsage() = %v, want 0.002", got)
	}

	// Failures still report exactly once, with zero tokens.
	est.RecordActualUsage(0, providers.TierOpenAI)

	if len(charged) != 2 {
		t.Fatalf("sink called %d times, want 2", len(charged))
	}
	if charged[1] != 0 {
		t.Errorf("zero-token charge = %v, want 0", charged[1])
	}
}
