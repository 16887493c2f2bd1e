package costs

import (
	"math"
	"sync"
)

// BudgetCalculator derives word ranges and token caps from reading time.
type BudgetCalculator struct {
	config BudgetConfig
	mu     sync.RWMutex
}

// NewBudgetCalculator creates a calculator. Missing word rates and a zero
// ratio take the defaults.
func NewBudgetCalculator(cfg BudgetConfig) *BudgetCalculator {
	return &BudgetCalculator{config: withBudgetDefaults(cfg)}
}

// Budget returns the word range and token cap for a story of the given
// length in minutes.
func (b *BudgetCalculator) Budget(minutes int, tier AgeTier) TokenBudget {
	b.mu.RLock()
	cfg := b.config
	b.mu.RUnlock()

	rate, ok := cfg.WordRates[tier]
	if !ok {
		rate = cfg.WordRates[AgeTier34]
	}

	maxWords := minutes * rate.MaxWPM
	return TokenBudget{
		AgeTier:   tier,
		Minutes:   minutes,
		MinWords:  minutes * rate.MinWPM,
		MaxWords:  maxWords,
		MaxTokens: wordsToTokens(maxWords, cfg.WordsToTokens) + cfg.Overhead,
	}
}

// UpdateConfig replaces the reading speeds.
func (b *BudgetCalculator) UpdateConfig(cfg BudgetConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config = withBudgetDefaults(cfg)
}

// wordsToTokens returns ceil(words * ratio). The product is rounded to six
// decimals first so 500 * 1.3 yields 650, not 651.
func wordsToTokens(words int, ratio float64) int {
	x := float64(words) * ratio
	return int(math.Ceil(math.Round(x*1e6) / 1e6))
}

func withBudgetDefaults(cfg BudgetConfig) BudgetConfig {
	def := DefaultBudgetConfig()

	rates := make(map[AgeTier]WordRate, len(def.WordRates))
	for tier, rate := range def.WordRates {
		rates[tier] = rate
	}
	for tier, rate := range cfg.WordRates {
		rates[tier] = rate
	}
	cfg.WordRates = rates

	if cfg.WordsToTokens <= 0 {
		cfg.WordsToTokens = def.WordsToTokens
	}
	if cfg.Overhead < 0 {
		cfg.Overhead = def.Overhead
	}
	return cfg
}
