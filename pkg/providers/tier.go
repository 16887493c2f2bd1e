package providers

import "strings"

// Tier selects the upstream backend and its pricing.
type Tier string

const (
	// TierOpenAI is api.openai.com.
	TierOpenAI Tier = "openai"

	// TierCompatible is any hosted OpenAI-compatible endpoint. It is the
	// fallback for unrecognized tier names.
	TierCompatible Tier = "compatible"

	// TierOllamaCloud is the hosted Ollama service.
	TierOllamaCloud Tier = "ollama-cloud"

	// TierOllamaLocal is a self-hosted Ollama daemon.
	TierOllamaLocal Tier = "ollama-local"
)

// ParseTier maps a configured name to a Tier. Unknown names, including
// vendor names such as "mistral", map to TierCompatible.
func ParseTier(name string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(name))) {
	case TierOpenAI:
		return TierOpenAI
	case TierOllamaCloud:
		return TierOllamaCloud
	case TierOllamaLocal:
		return TierOllamaLocal
	default:
		return TierCompatible
	}
}

// Tiers lists every tier.
func Tiers() []Tier {
	return []Tier{TierOpenAI, TierCompatible, TierOllamaCloud, TierOllamaLocal}
}

// TierSpec is the fixed description of a tier.
type TierSpec struct {
	Tier Tier

	// BaseURL is the chat completions API root.
	BaseURL string

	// APIKey is the credential used when none is configured. Empty means a
	// key is required.
	APIKey string

	// DefaultModel is used when a request names no model.
	DefaultModel string

	// CostPer1KTokens is the price of one thousand tokens.
	CostPer1KTokens float64
}

// DefaultSpec returns the built-in settings for t.
func DefaultSpec(t Tier) TierSpec {
	switch t {
	case TierOpenAI:
		return TierSpec{
			Tier:            TierOpenAI,
			BaseURL:         "https://api.openai.com/v1",
			DefaultModel:    "gpt-4",
			CostPer1KTokens: 0.001,
		}
	case TierOllamaCloud:
		return TierSpec{
			Tier:            TierOllamaCloud,
			BaseURL:         "https://ollama.com/v1",
			APIKey:          "dummy-key",
			DefaultModel:    "ministral-3:8b-cloud",
			CostPer1KTokens: 0.0005,
		}
	case TierOllamaLocal:
		return TierSpec{
			Tier:            TierOllamaLocal,
			BaseURL:         "http://localhost:11434/v1",
			APIKey:          "dummy-key",
			DefaultModel:    "mistral:7b",
			CostPer1KTokens: 0,
		}
	default:
		return TierSpec{
			Tier:            TierCompatible,
			BaseURL:         "https://api.mistral.ai/v1",
			DefaultModel:    "mistral-large-latest",
			CostPer1KTokens: 0.001,
		}
	}
}

// RequiresAPIKey reports whether the tier has no usable built-in credential.
func (t Tier) RequiresAPIKey() bool {
	return DefaultSpec(t).APIKey == ""
}
