package limits

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// manualClock is a Clock that only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{now: t}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var epoch = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, limits Limits) (*Controller, *manualClock) {
	t.Helper()
	clock := newManualClock(epoch)
	ctrl, err := NewController(limits, WithClock(clock))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	return ctrl, clock
}

func TestNewController_InvalidLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Limits)
	}{
		{"zero per-client limit", func(l *Limits) { l.PerClientLimit = 0 }},
		{"zero window", func(l *Limits) { l.Window = 0 }},
		{"negative global limit", func(l *Limits) { l.GlobalDailyLimit = -1 }},
		{"zero budget", func(l *Limits) { l.MaxDailyCost = 0 }},
		{"negative flat cost", func(l *Limits) { l.CostPerRequest = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := DefaultLimits()
			tt.mutate(&limits)

			_, err := NewController(limits)
			if !errors.Is(err, ErrInvalidLimits) {
				t.Errorf("NewController() error = %v, want ErrInvalidLimits", err)
			}
		})
	}
}

func TestTryAdmit_PerClientWindow(t *testing.T) {
	limits := DefaultLimits()
	limits.PerClientLimit = 2
	limits.Window = 3600 * time.Second
	ctrl, _ := newTestController(t, limits)

	want := []bool{true, true, false}
	offsets := []time.Duration{0, 10 * time.Second, 20 * time.Second}

	var last Decision
	for i, off := range offsets {
		last = ctrl.TryAdmit("A", epoch.Add(off))
		if last.Admitted != want[i] {
			t.Fatalf("request %d: Admitted = %v, want %v", i+1, last.Admitted, want[i])
		}
	}

	if last.Reason != ReasonRateLimited {
		t.Errorf("Reason = %v, want %v", last.Reason, ReasonRateLimited)
	}
	if last.RetryAfter != 3580*time.Second {
		t.Errorf("RetryAfter = %v, want 3580s", last.RetryAfter)
	}
	if want := "Zu viele Anfragen. Bitte warte ~59 Minuten."; last.Hint != want {
		t.Errorf("Hint = %q, want %q", last.Hint, want)
	}

	// Other clients are unaffected.
	if d := ctrl.TryAdmit("B", epoch.Add(20*time.Second)); !d.Admitted {
		t.Errorf("client B rejected: %+v", d)
	}

	// Still blocked one second before the oldest entry leaves the window.
	if d := ctrl.TryAdmit("A", epoch.Add(3599*time.Second)); d.Admitted {
		t.Error("client A admitted while oldest entry is still inside the window")
	}

	// An entry exactly one window old no longer counts.
	if d := ctrl.TryAdmit("A", epoch.Add(3600*time.Second)); !d.Admitted {
		t.Errorf("client A rejected after oldest entry aged out: %+v", d)
	}
	if d := ctrl.TryAdmit("A", epoch.Add(3601*time.Second)); d.Admitted {
		t.Error("client A admitted past its cap")
	}
}

func TestTryAdmit_GlobalLimit(t *testing.T) {
	limits := DefaultLimits()
	limits.GlobalDailyLimit = 3
	ctrl, _ := newTestController(t, limits)

	for i, key := range []string{"a", "b", "c"} {
		if d := ctrl.TryAdmit(key, epoch.Add(time.Duration(i)*time.Second)); !d.Admitted {
			t.Fatalf("request %d rejected: %+v", i+1, d)
		}
	}

	d := ctrl.TryAdmit("d", epoch.Add(time.Hour))
	if d.Admitted {
		t.Fatal("request admitted past the global cap")
	}
	if d.Reason != ReasonGlobalLimitExceeded {
		t.Errorf("Reason = %v, want %v", d.Reason, ReasonGlobalLimitExceeded)
	}
	if want := "Tägliches Anfrage-Limit erreicht. Bitte in ~23h erneut versuchen."; d.Hint != want {
		t.Errorf("Hint = %q, want %q", d.Hint, want)
	}

	// Exactly at reset_at nothing resets yet.
	if d := ctrl.TryAdmit("e", epoch.Add(24*time.Hour)); d.Admitted {
		t.Error("request admitted at the reset instant")
	}

	// First observation past reset_at resets the counter.
	after := epoch.Add(24*time.Hour + time.Second)
	if d := ctrl.TryAdmit("f", after); !d.Admitted {
		t.Errorf("request rejected after daily reset: %+v", d)
	}
	if got := ctrl.Snapshot().GlobalRequestsToday; got != 1 {
		t.Errorf("GlobalRequestsToday = %d, want 1", got)
	}
}

func TestTryAdmit_BudgetCheckedFirst(t *testing.T) {
	limits := Limits{
		PerClientLimit:   2,
		Window:           time.Hour,
		GlobalDailyLimit: 2,
		MaxDailyCost:     1.0,
		CostPerRequest:   0.5,
	}
	ctrl, _ := newTestController(t, limits)

	ctrl.TryAdmit("A", epoch)
	ctrl.TryAdmit("A", epoch.Add(time.Second))

	// All three limits are now exhausted for client A; budget wins.
	d := ctrl.TryAdmit("A", epoch.Add(2*time.Hour))
	if d.Reason != ReasonBudgetExhausted {
		t.Fatalf("Reason = %v, want %v", d.Reason, ReasonBudgetExhausted)
	}
	if want := "Tägliches Budget erreicht. Service pausiert für ~22h."; d.Hint != want {
		t.Errorf("Hint = %q, want %q", d.Hint, want)
	}

	err := d.Err()
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("Err() = %v, want ErrBudgetExhausted", err)
	}
	var rej *RejectionError
	if !errors.As(err, &rej) || rej.RetryAfter != 22*time.Hour {
		t.Errorf("RejectionError = %+v, want RetryAfter 22h", rej)
	}
}

func TestTryAdmit_GlobalBeforeClient(t *testing.T) {
	limits := DefaultLimits()
	limits.PerClientLimit = 1
	limits.GlobalDailyLimit = 1
	ctrl, _ := newTestController(t, limits)

	ctrl.TryAdmit("A", epoch)
	d := ctrl.TryAdmit("A", epoch.Add(time.Second))
	if d.Reason != ReasonGlobalLimitExceeded {
		t.Errorf("Reason = %v, want %v", d.Reason, ReasonGlobalLimitExceeded)
	}
}

func TestTryAdmit_NineHundredRequests(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultLimits())

	for i := 0; i < 900; i++ {
		key := fmt.Sprintf("client-%d", i)
		if d := ctrl.TryAdmit(key, epoch.Add(time.Duration(i)*time.Second)); !d.Admitted {
			t.Fatalf("request %d rejected: %+v", i+1, d)
		}
	}

	snap := ctrl.Snapshot()
	if snap.GlobalRequestsToday != 900 {
		t.Errorf("GlobalRequestsToday = %d, want 900", snap.GlobalRequestsToday)
	}
	if snap.EstimatedCostToday != 1.35 {
		t.Errorf("EstimatedCostToday = %v, want 1.35", snap.EstimatedCostToday)
	}

	if d := ctrl.TryAdmit("next", epoch.Add(901*time.Second)); !d.Admitted {
		t.Errorf("request 901 rejected: %+v", d)
	}
}

func TestAddCost_DoubleCountsPlaceholder(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultLimits())

	if d := ctrl.TryAdmit("A", epoch); !d.Admitted {
		t.Fatalf("TryAdmit rejected: %+v", d)
	}
	ctrl.AddCost(2000.0 / 1000 * 0.001)

	got := ctrl.ledger.cost.value
	if math.Abs(got-0.0035) > 1e-12 {
		t.Errorf("cost = %v, want 0.0035", got)
	}
	if !ctrl.ledger.cost.resetAt.Equal(epoch.Add(24 * time.Hour)) {
		t.Errorf("AddCost moved resetAt to %v", ctrl.ledger.cost.resetAt)
	}
}

func TestAddCost_CanExhaustBudget(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxDailyCost = 1.0
	ctrl, _ := newTestController(t, limits)

	ctrl.TryAdmit("A", epoch)
	ctrl.AddCost(1.0)

	if d := ctrl.TryAdmit("B", epoch.Add(time.Minute)); d.Reason != ReasonBudgetExhausted {
		t.Errorf("Reason = %v, want %v", d.Reason, ReasonBudgetExhausted)
	}
}

func TestSnapshot(t *testing.T) {
	limits := DefaultLimits()
	ctrl, _ := newTestController(t, limits)

	ctrl.TryAdmit("A", epoch)
	ctrl.TryAdmit("B", epoch)
	ctrl.TryAdmit("A", epoch.Add(time.Second))
	ctrl.AddCost(0.2)

	snap := ctrl.Snapshot()
	want := Snapshot{
		GlobalRequestsToday: 3,
		GlobalLimit:         1000,
		EstimatedCostToday:  0.2,
		DailyBudget:         5.0,
		BudgetRemaining:     4.8,
		RateLimitPerClient:  10,
		ActiveClients:       2,
	}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
}

func TestAdmit_UsesClock(t *testing.T) {
	limits := DefaultLimits()
	limits.PerClientLimit = 1
	ctrl, clock := newTestController(t, limits)

	if d := ctrl.Admit("A"); !d.Admitted {
		t.Fatalf("first Admit rejected: %+v", d)
	}
	if d := ctrl.Admit("A"); d.Admitted {
		t.Fatal("second Admit admitted inside the window")
	}

	clock.Advance(time.Hour + time.Second)
	if d := ctrl.Admit("A"); !d.Admitted {
		t.Errorf("Admit after window rejected: %+v", d)
	}
}

func TestUpdateLimits(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultLimits())

	ctrl.TryAdmit("A", epoch)
	ctrl.TryAdmit("A", epoch.Add(time.Second))

	lowered := DefaultLimits()
	lowered.PerClientLimit = 2
	if err := ctrl.UpdateLimits(lowered); err != nil {
		t.Fatalf("UpdateLimits() error = %v", err)
	}
	if d := ctrl.TryAdmit("A", epoch.Add(2*time.Second)); d.Reason != ReasonRateLimited {
		t.Errorf("Reason = %v, want %v after lowering the cap", d.Reason, ReasonRateLimited)
	}

	invalid := DefaultLimits()
	invalid.Window = 0
	if err := ctrl.UpdateLimits(invalid); err == nil {
		t.Error("UpdateLimits() accepted invalid limits")
	}
	if got := ctrl.Limits().PerClientLimit; got != 2 {
		t.Errorf("PerClientLimit = %d after rejected update, want 2", got)
	}
}

func TestSweep(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultLimits())

	ctrl.TryAdmit("old", epoch)
	ctrl.TryAdmit("fresh", epoch.Add(50*time.Minute))

	removed := ctrl.Sweep(epoch.Add(61 * time.Minute))
	if removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if got := ctrl.Snapshot().ActiveClients; got != 1 {
		t.Errorf("ActiveClients = %d, want 1", got)
	}
}

func TestTryAdmit_ConcurrentSingleClient(t *testing.T) {
	limits := DefaultLimits()
	ctrl, _ := newTestController(t, limits)

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ctrl.TryAdmit("shared", epoch).Admitted {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != int64(limits.PerClientLimit) {
		t.Errorf("admitted %d requests, want %d", got, limits.PerClientLimit)
	}
}

func TestTryAdmit_ConcurrentGlobalCap(t *testing.T) {
	limits := DefaultLimits()
	limits.GlobalDailyLimit = 50
	ctrl, _ := newTestController(t, limits)

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", i)
			if ctrl.TryAdmit(key, epoch).Admitted {
				admitted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if got := admitted.Load(); got != 50 {
		t.Errorf("admitted %d requests, want 50", got)
	}
	if got := ctrl.Snapshot().GlobalRequestsToday; got != 50 {
		t.Errorf("GlobalRequestsToday = %d, want 50", got)
	}
}

func TestMetrics_RecordDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	limits := DefaultLimits()
	limits.PerClientLimit = 1

	ctrl, err := NewController(limits, WithMetrics(NewMetrics(reg)), WithClock(newManualClock(epoch)))
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	ctrl.TryAdmit("A", epoch)
	ctrl.TryAdmit("A", epoch)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var total float64
	for _, mf := range families {
		if mf.GetName() != "mairchen_admission_decisions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	if total != 2 {
		t.Errorf("decisions total = %v, want 2", total)
	}
}
