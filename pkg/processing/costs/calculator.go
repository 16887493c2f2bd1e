package costs

import (
	"sync"

	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

// Calculator prices token usage per provider tier. It is safe for concurrent
// use and supports hot-reload of pricing.
type Calculator struct {
	pricing Pricing
	mu      sync.RWMutex
}

// NewCalculator creates a calculator with the given pricing.
func NewCalculator(pricing Pricing) *Calculator {
	return &Calculator{pricing: clonePricing(pricing)}
}

// Rate returns the cost per 1000 tokens for tier.
func (c *Calculator) Rate(tier providers.Tier) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if rate, ok := c.pricing.Rates[tier]; ok {
		return rate
	}
	return providers.DefaultSpec(tier).CostPer1KTokens
}

// ActualCost returns tokens / 1000 * Rate(tier).
func (c *Calculator) ActualCost(tokens int, tier providers.Tier) float64 {
	return calculateTokenCost(tokens, c.Rate(tier))
}

// UpdatePricing replaces the rates.
func (c *Calculator) UpdatePricing(pricing Pricing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pricing = clonePricing(pricing)
}

// calculateTokenCost calculates the cost for a given number of tokens.
func calculateTokenCost(tokens int, costPer1K float64) float64 {
	if tokens <= 0 {
		return 0.0
	}
	return float64(tokens) / 1000.0 * costPer1K
}

func clonePricing(p Pricing) Pricing {
	rates := make(map[providers.Tier]float64, len(p.Rates))
	for tier, rate := range p.Rates {
		rates[tier] = rate
	}
	return Pricing{Rates: rates}
}
