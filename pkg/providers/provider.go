package providers

import (
	"context"
	"time"
)

// Provider generates chat completions.
//
// Implementations must respect context cancellation.
type Provider interface {
	// Complete sends req and returns the first choice.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Tier returns the tier this provider bills under.
	Tier() Tier

	// DefaultModel returns the model used when a request names none.
	DefaultModel() string
}

// Config configures a Client.
type Config struct {
	// Tier selects endpoint defaults and pricing.
	Tier Tier

	// BaseURL overrides the tier's API root.
	BaseURL string

	// APIKey overrides the tier's credential.
	APIKey string

	// Model overrides the tier's default model.
	Model string

	// Timeout bounds a single HTTP attempt.
	// Default: 120 seconds
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for transient failures.
	// Default: 0
	MaxRetries int

	// RetryBackoff is the delay before the first retry; it doubles per attempt.
	// Default: 1 second
	RetryBackoff time.Duration
}

// withDefaults fills empty fields from the tier spec.
func (c Config) withDefaults() Config {
	spec := DefaultSpec(c.Tier)
	if c.Tier == "" {
		c.Tier = spec.Tier
	}
	if c.BaseURL == "" {
		c.BaseURL = spec.BaseURL
	}
	if c.APIKey == "" {
		c.APIKey = spec.APIKey
	}
	if c.Model == "" {
		c.Model = spec.DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
	return c
}
