package limits

import (
	"errors"
	"fmt"
	"time"
)

// Reason identifies why a request was rejected.
type Reason int

const (
	// ReasonNone is set on admitted decisions.
	ReasonNone Reason = iota

	// ReasonRateLimited means the client exhausted its own window.
	ReasonRateLimited

	// ReasonGlobalLimitExceeded means the service-wide daily request cap was hit.
	ReasonGlobalLimitExceeded

	// ReasonBudgetExhausted means the service-wide daily cost cap was hit.
	ReasonBudgetExhausted
)

// String returns the reason in snake_case, suitable for metric labels.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonGlobalLimitExceeded:
		return "global_limit_exceeded"
	case ReasonBudgetExhausted:
		return "budget_exhausted"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Decision is the outcome of an admission check.
type Decision struct {
	// Admitted is true when the request was accepted and charged.
	Admitted bool

	// Reason explains a rejection. ReasonNone when admitted.
	Reason Reason

	// RetryAfter is the time until the blocking limit frees up.
	RetryAfter time.Duration

	// Hint is the user-facing wait message.
	Hint string
}

// Err returns nil for admitted decisions and a *RejectionError otherwise.
func (d Decision) Err() error {
	if d.Admitted {
		return nil
	}
	return &RejectionError{
		Reason:     d.Reason,
		RetryAfter: d.RetryAfter,
		Hint:       d.Hint,
	}
}

// Limits holds the admission configuration.
type Limits struct {
	// PerClientLimit is the number of requests one client may make per Window.
	// Default: 10
	PerClientLimit int

	// Window is the per-client sliding window.
	// Default: 1 hour
	Window time.Duration

	// GlobalDailyLimit caps accepted requests per day across all clients.
	// Default: 1000
	GlobalDailyLimit int

	// MaxDailyCost caps accumulated cost per day.
	// Default: 5.0
	MaxDailyCost float64

	// CostPerRequest is the flat estimate charged at admission.
	// Default: 0.0015
	CostPerRequest float64
}

// DefaultLimits returns the production defaults.
func DefaultLimits() Limits {
	return Limits{
		PerClientLimit:   10,
		Window:           time.Hour,
		GlobalDailyLimit: 1000,
		MaxDailyCost:     5.0,
		CostPerRequest:   0.0015,
	}
}

// Validate reports the first invalid field.
func (l Limits) Validate() error {
	switch {
	case l.PerClientLimit <= 0:
		return fmt.Errorf("%w: per-client limit must be positive, got %d", ErrInvalidLimits, l.PerClientLimit)
	case l.Window <= 0:
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidLimits, l.Window)
	case l.GlobalDailyLimit <= 0:
		return fmt.Errorf("%w: global daily limit must be positive, got %d", ErrInvalidLimits, l.GlobalDailyLimit)
	case l.MaxDailyCost <= 0:
		return fmt.Errorf("%w: max daily cost must be positive, got %g", ErrInvalidLimits, l.MaxDailyCost)
	case l.CostPerRequest < 0:
		return fmt.Errorf("%w: cost per request cannot be negative, got %g", ErrInvalidLimits, l.CostPerRequest)
	}
	return nil
}

// Snapshot is a consistent read of the ledger and limits.
type Snapshot struct {
	GlobalRequestsToday int     `json:"global_requests_today"`
	GlobalLimit         int     `json:"global_limit"`
	EstimatedCostToday  float64 `json:"estimated_cost_today"`
	DailyBudget         float64 `json:"daily_budget"`
	BudgetRemaining     float64 `json:"budget_remaining"`
	RateLimitPerClient  int     `json:"rate_limit_per_ip"`
	ActiveClients       int     `json:"active_ips"`
}

var (
	// ErrRateLimited is wrapped by rejections caused by the per-client window.
	ErrRateLimited = errors.New("client rate limit exceeded")

	// ErrGlobalLimitExceeded is wrapped by rejections caused by the daily request cap.
	ErrGlobalLimitExceeded = errors.New("global daily request limit exceeded")

	// ErrBudgetExhausted is wrapped by rejections caused by the daily cost cap.
	ErrBudgetExhausted = errors.New("daily budget exhausted")

	// ErrInvalidLimits is returned when a Limits value fails validation.
	ErrInvalidLimits = errors.New("invalid limits configuration")
)

// RejectionError carries a rejected Decision through error returns.
type RejectionError struct {
	Reason     Reason
	RetryAfter time.Duration
	Hint       string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return fmt.Sprintf("admission rejected (%s): %s", e.Reason, e.Hint)
}

// Unwrap maps the reason to its sentinel error.
func (e *RejectionError) Unwrap() error {
	switch e.Reason {
	case ReasonRateLimited:
		return ErrRateLimited
	case ReasonGlobalLimitExceeded:
		return ErrGlobalLimitExceeded
	case ReasonBudgetExhausted:
		return ErrBudgetExhausted
	default:
		return nil
	}
}
