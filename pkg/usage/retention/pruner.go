package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep records.
	// 0 keeps records forever.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() Config {
	return Config{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner deletes usage records older than the retention period.
type Pruner struct {
	storage usage.Storage
	config  Config
	now     func() time.Time
	logger  *slog.Logger
}

// NewPruner creates a new retention pruner.
func NewPruner(storage usage.Storage, config Config) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		now:     time.Now,
		logger:  slog.Default().With("component", "usage.retention"),
	}
}

// Prune deletes records created before now minus RetentionDays and returns
// how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing pruned")
		return 0, nil
	}

	cutoff := p.Cutoff()
	deleted, err := p.storage.Delete(ctx, &usage.Query{Until: &cutoff})
	if err != nil {
		return 0, usage.NewRetentionError(p.config.RetentionDays, err)
	}

	if deleted > 0 {
		p.logger.Info("usage records pruned",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff,
		)
	}
	return deleted, nil
}

// Cutoff returns the oldest creation time that is kept.
func (p *Pruner) Cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.config.RetentionDays)
}
