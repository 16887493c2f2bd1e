package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the provider answers without choices.
var ErrEmptyResponse = errors.New("no response from API")

// ProviderError represents a general provider error.
type ProviderError struct {
	// Tier is the tier that returned the error
	Tier Tier

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Tier, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Tier, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	Tier    Tier
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Tier, e.Message)
}

// RateLimitError represents an upstream rate limit (HTTP 429).
type RateLimitError struct {
	Tier    Tier
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Tier, e.Message)
}

// TimeoutError represents a request that ran out of time.
type TimeoutError struct {
	Tier    Tier
	Timeout time.Duration
	Cause   error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Tier, e.Timeout)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ConfigError represents an invalid client configuration.
type ConfigError struct {
	Tier    Tier
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s", e.Tier, e.Field, e.Message)
}

// classify converts a go-openai error into one of this package's types.
func (c *Client) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Tier: c.config.Tier, Timeout: c.config.Timeout, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Tier: c.config.Tier, Timeout: c.config.Timeout, Cause: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return c.statusError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return c.statusError(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return &ProviderError{Tier: c.config.Tier, Message: err.Error(), Cause: err}
}

func (c *Client) statusError(status int, message string, cause error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Tier: c.config.Tier, Message: message}
	case http.StatusTooManyRequests:
		return &RateLimitError{Tier: c.config.Tier, Message: message}
	default:
		return &ProviderError{Tier: c.config.Tier, StatusCode: status, Message: message, Cause: cause}
	}
}

// isRetryable reports whether another attempt might succeed. Transport
// failures (no status) and 5xx responses are retried.
func isRetryable(err error) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) {
		return false
	}
	return perr.StatusCode == 0 || perr.StatusCode >= 500
}
