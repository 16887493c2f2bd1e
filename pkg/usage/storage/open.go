package storage

import (
	"fmt"

	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.UsageConfig) (usage.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			WALMode:     true,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown usage backend %q", cfg.Backend)
	}
}
