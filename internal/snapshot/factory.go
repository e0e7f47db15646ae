// Package snapshot persists the whole user graph as a single snapshot.
// This file contains the factory creating a store from configuration.
package snapshot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/beatrix-photos/internal/config"
)

// Open creates the snapshot store selected by the configuration.
func Open(ctx context.Context, cfg config.SnapshotConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.Path, logger), nil
	case "sqlite":
		sqliteCfg := DefaultSQLiteConfig(cfg.SQLitePath)
		if cfg.JournalMode != "" {
			sqliteCfg.JournalMode = cfg.JournalMode
		}
		if cfg.BusyTimeout > 0 {
			sqliteCfg.BusyTimeout = cfg.BusyTimeout
		}
		if cfg.SynchronousMode != "" {
			sqliteCfg.SynchronousMode = cfg.SynchronousMode
		}
		return NewSQLiteStore(ctx, sqliteCfg, logger)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
