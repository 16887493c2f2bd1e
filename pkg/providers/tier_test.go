package providers

import "testing"

func TestParseTier(t *testing.T) {
	tests := map[string]Tier{
		"openai":        TierOpenAI,
		"OpenAI":        TierOpenAI,
		"ollama-cloud":  TierOllamaCloud,
		" ollama-local": TierOllamaLocal,
		"mistral":       TierCompatible,
		"":              TierCompatible,
		"compatible":    TierCompatible,
	}

	for in, want := range tests {
		if got := ParseTier(in); got != want {
			t.Errorf("ParseTier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultSpec_Rates(t *testing.T) {
	want := map[Tier]float64{
		TierOpenAI:      0.001,
		TierCompatible:  0.001,
		TierOllamaCloud: 0.0005,
		TierOllamaLocal: 0,
	}
	for _, tier := range Tiers() {
		if got := DefaultSpec(tier).CostPer1KTokens; got != want[tier] {
			t.Errorf("DefaultSpec(%q).CostPer1KTokens = %v, want %v", tier, got, want[tier])
		}
	}
}

func TestTier_RequiresAPIKey(t *testing.T) {
	if !TierOpenAI.RequiresAPIKey() {
		t.Error("openai should require an API key")
	}
	if TierOllamaLocal.RequiresAPIKey() {
		t.Error("ollama-local should not require an API key")
	}
}
