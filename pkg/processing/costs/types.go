package costs

import "github.com/sebastiansucker/mAIrchen/pkg/providers"

// Pricing holds cost-per-1000-token rates by provider tier.
type Pricing struct {
	// Rates maps each tier to its cost per 1000 tokens. Tiers not listed use
	// the built-in rate from providers.DefaultSpec.
	Rates map[providers.Tier]float64
}

// DefaultPricing returns the built-in rate of every tier.
func DefaultPricing() Pricing {
	rates := make(map[providers.Tier]float64)
	for _, tier := range providers.Tiers() {
		rates[tier] = providers.DefaultSpec(tier).CostPer1KTokens
	}
	return Pricing{Rates: rates}
}

// AgeTier is a reading-level bucket.
type AgeTier string

const (
	// AgeTier12 covers grades 1 and 2.
	AgeTier12 AgeTier = "12"

	// AgeTier34 covers grades 3 and 4.
	AgeTier34 AgeTier = "34"
)

// ParseAgeTier maps a grade value to its tier. Anything other than "12"
// falls into AgeTier34.
func ParseAgeTier(grade string) AgeTier {
	if grade == string(AgeTier12) {
		return AgeTier12
	}
	return AgeTier34
}

// WordRate is a words-per-minute range for one age tier.
type WordRate struct {
	MinWPM int
	MaxWPM int
}

// BudgetConfig configures the token-budget calculator.
type BudgetConfig struct {
	// WordRates maps age tiers to reading speeds.
	WordRates map[AgeTier]WordRate

	// WordsToTokens converts words to tokens.
	// Default: 1.3
	WordsToTokens float64

	// Overhead is added to every budget for the title and formatting.
	// Default: 200
	Overhead int
}

// DefaultBudgetConfig returns the built-in reading speeds.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		WordRates: map[AgeTier]WordRate{
			AgeTier12: {MinWPM: 60, MaxWPM: 70},
			AgeTier34: {MinWPM: 80, MaxWPM: 100},
		},
		WordsToTokens: 1.3,
		Overhead:      200,
	}
}

// TokenBudget is the length window requested from the provider.
type TokenBudget struct {
	AgeTier   AgeTier `json:"age_tier"`
	Minutes   int     `json:"minutes"`
	MinWords  int     `json:"min_words"`
	MaxWords  int     `json:"max_words"`
	MaxTokens int     `json:"max_tokens"`
}

// CostSink receives cost corrections. limits.Controller implements it.
type CostSink interface {
	AddCost(amount float64)
}
