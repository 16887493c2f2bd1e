package limits

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Controller is the single choke point for story generation requests.
//
// The Controller owns the Ledger. TryAdmit checks all three limits and
// charges the flat estimate as one atomic step, so two concurrent callers can
// never both observe the last free slot.
//
// # Example
//
//	ctrl, _ := limits.NewController(limits.DefaultLimits())
//
//	d := ctrl.TryAdmit("203.0.113.7", time.Now())
//	if !d.Admitted {
//	    // respond 429 with d.Hint
//	}
type Controller struct {
	mu     sync.Mutex
	ledger *Ledger
	limits Limits

	clock   Clock
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source used by Admit and Sweep.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller with an empty ledger whose daily
// counters reset one day from now.
func NewController(limits Limits, opts ...Option) (*Controller, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		limits: limits,
		clock:  SystemClock{},
		logger: slog.Default().With("component", "limits.controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ledger = newLedger(c.clock.Now())

	return c, nil
}

// Admit calls TryAdmit with the controller's clock.
func (c *Controller) Admit(clientKey string) Decision {
	return c.TryAdmit(clientKey, c.clock.Now())
}

// TryAdmit decides whether clientKey may make a request at now. Admitted
// requests are recorded and charged the flat cost estimate before the lock is
// released.
func (c *Controller) TryAdmit(clientKey string, now time.Time) Decision {
	start := time.Now()

	c.mu.Lock()
	decision := c.tryAdmitLocked(clientKey, now)
	c.mu.Unlock()

	c.metrics.RecordDecision(decision, time.Since(start))
	if !decision.Admitted {
		c.logger.Debug("request rejected",
			"reason", decision.Reason.String(),
			"retry_after", decision.RetryAfter.String(),
		)
	}
	return decision
}

// tryAdmitLocked runs the check sequence. Caller must hold c.mu.
func (c *Controller) tryAdmitLocked(clientKey string, now time.Time) Decision {
	requestsReset, costReset := c.ledger.resetIfExpired(now)
	if requestsReset {
		c.metrics.RecordReset("requests")
	}
	if costReset {
		c.metrics.RecordReset("cost")
	}

	if c.ledger.cost.value >= c.limits.MaxDailyCost {
		wait := c.ledger.cost.resetAt.Sub(now)
		return Decision{
			Reason:     ReasonBudgetExhausted,
			RetryAfter: wait,
			Hint:       fmt.Sprintf("Tägliches Budget erreicht. Service pausiert für ~%dh.", int(wait.Hours())),
		}
	}

	if c.ledger.requests.value >= c.limits.GlobalDailyLimit {
		wait := c.ledger.requests.resetAt.Sub(now)
		return Decision{
			Reason:     ReasonGlobalLimitExceeded,
			RetryAfter: wait,
			Hint:       fmt.Sprintf("Tägliches Anfrage-Limit erreicht. Bitte in ~%dh erneut versuchen.", int(wait.Hours())),
		}
	}

	history := c.ledger.prune(clientKey, now, c.limits.Window)
	if len(history) >= c.limits.PerClientLimit {
		wait := history[0].Add(c.limits.Window).Sub(now)
		return Decision{
			Reason:     ReasonRateLimited,
			RetryAfter: wait,
			Hint:       fmt.Sprintf("Zu viele Anfragen. Bitte warte ~%d Minuten.", int(wait.Minutes())),
		}
	}

	c.ledger.recordAccept(clientKey, now, c.limits.CostPerRequest)
	return Decision{Admitted: true}
}

// AddCost adds amount to today's cost. It is used for the post-call
// correction and does not move the reset instant.
func (c *Controller) AddCost(amount float64) {
	c.mu.Lock()
	c.ledger.addCost(amount)
	c.mu.Unlock()

	c.metrics.RecordCost("actual", amount)
}

// Snapshot returns the current counters and limits, read under the ledger lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		GlobalRequestsToday: c.ledger.requests.value,
		GlobalLimit:         c.limits.GlobalDailyLimit,
		EstimatedCostToday:  roundTo(c.ledger.cost.value, 2),
		DailyBudget:         c.limits.MaxDailyCost,
		BudgetRemaining:     roundTo(c.limits.MaxDailyCost-c.ledger.cost.value, 2),
		RateLimitPerClient:  c.limits.PerClientLimit,
		ActiveClients:       len(c.ledger.history),
	}
}

// Limits returns the limits currently in force.
func (c *Controller) Limits() Limits {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limits
}

// UpdateLimits replaces the limits. History and counters are kept, so a
// lowered cap takes effect on the next check.
func (c *Controller) UpdateLimits(limits Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.limits = limits
	c.mu.Unlock()

	c.logger.Info("limits updated",
		"per_client_limit", limits.PerClientLimit,
		"window", limits.Window.String(),
		"global_daily_limit", limits.GlobalDailyLimit,
		"max_daily_cost", limits.MaxDailyCost,
	)
	return nil
}

// Sweep drops clients with no requests inside the window and returns how
// many were dropped. Admission outcomes are unaffected.
func (c *Controller) Sweep(now time.Time) int {
	c.mu.Lock()
	removed := c.ledger.sweep(now, c.limits.Window)
	c.mu.Unlock()

	c.metrics.RecordSweep(removed)
	return removed
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(val float64, decimals int) float64 {
	ratio := math.Pow(10, float64(decimals))
	return math.Round(val*ratio) / ratio
}
