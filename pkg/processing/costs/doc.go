// Package costs turns story length and token usage into money and token
// budgets.
//
// # Two-Phase Accounting
//
// Admission charges a flat estimate per request (see limits.Limits). Once the
// provider reports actual usage, RecordActualUsage adds
//
//	tokens / 1000 * rate(tier)
//
// to the same ledger. The placeholder is not subtracted, so every admitted
// request is charged slightly more than it really cost.
//
// # Token Budget
//
// The budget calculator bounds how long a story may be:
//
//	minWords  = minutes * minWPM(ageTier)
//	maxWords  = minutes * maxWPM(ageTier)
//	maxTokens = ceil(maxWords * wordsToTokens) + overhead
//
// With the defaults, five minutes for grades 3 and 4 gives 400 to 500 words
// and 850 tokens.
//
// # Usage
//
//	calc := costs.NewCalculator(costs.DefaultPricing())
//	est := costs.NewEstimator(calc, controller)
//	est.RecordActualUsage(resp.Usage.TotalTokens, providers.TierOpenAI)
//
//	budgets := costs.NewBudgetCalculator(costs.DefaultBudgetConfig())
//	b := budgets.Budget(5, costs.ParseAgeTier("34"))
package costs
