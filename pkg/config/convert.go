package config

import (
	"github.com/sebastiansucker/mAIrchen/pkg/limits"
	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

// AdmissionLimits returns the limits for the admission controller.
func (c LimitsConfig) AdmissionLimits() limits.Limits {
	return limits.Limits{
		PerClientLimit:   c.PerClientLimit,
		Window:           c.Window,
		GlobalDailyLimit: c.GlobalDailyLimit,
		MaxDailyCost:     c.MaxDailyCost,
		CostPerRequest:   c.CostPerRequest,
	}
}

// ClientConfig returns the provider client configuration.
func (c ProviderConfig) ClientConfig() providers.Config {
	return providers.Config{
		Tier:         providers.ParseTier(c.Tier),
		BaseURL:      c.BaseURL,
		APIKey:       c.APIKey,
		Model:        c.Model,
		Timeout:      c.Timeout,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
	}
}

// Pricing returns the per-tier rates.
func (c CostsConfig) Pricing() costs.Pricing {
	rates := make(map[providers.Tier]float64, len(c.Rates))
	for name, rate := range c.Rates {
		rates[providers.ParseTier(name)] = rate
	}
	return costs.Pricing{Rates: rates}
}

// BudgetConfig returns the token budget settings.
func (c CostsConfig) BudgetConfig() costs.BudgetConfig {
	wr := make(map[costs.AgeTier]costs.WordRate, len(c.WordRates))
	for tier, r := range c.WordRates {
		wr[costs.ParseAgeTier(tier)] = costs.WordRate{MinWPM: r.MinWPM, MaxWPM: r.MaxWPM}
	}
	return costs.BudgetConfig{
		WordRates:     wr,
		WordsToTokens: c.WordsToTokens,
		Overhead:      c.TokenOverhead,
	}
}
