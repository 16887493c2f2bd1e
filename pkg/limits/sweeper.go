package limits

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the idle-client sweep every 15 minutes.
const DefaultSweepSchedule = "*/15 * * * *"

// Sweeper periodically removes idle clients from a Controller's ledger.
type Sweeper struct {
	ctrl     *Controller
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper for ctrl. An empty schedule uses
// DefaultSweepSchedule.
func NewSweeper(ctrl *Controller, schedule string) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &Sweeper{
		ctrl:     ctrl,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "limits.sweeper"),
	}
}

// Start schedules the sweep. It stops when ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("idle client sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce sweeps immediately.
func (s *Sweeper) RunOnce() {
	removed := s.ctrl.Sweep(s.ctrl.clock.Now())
	if removed > 0 {
		s.logger.Info("idle clients swept", "removed", removed)
	}
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("idle client sweeper stopped")
}

// IsRunning reports whether the schedule is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
