// Package db persists player data containers in memory, SQLite or PostgreSQL.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/sleeper/internal/config"
)

// Open creates the repository selected by cfg.Driver and applies its migrations.
func Open(ctx context.Context, cfg config.Storage) (PlayerDataRepository, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		slog.Warn("using in-memory player storage, data is lost on restart")
		return NewMemoryPlayerData(), nil
	case config.DriverSQLite:
		repo, err := NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		slog.Info("sqlite storage ready", "path", cfg.SQLitePath)
		return repo, nil
	case config.DriverPostgres:
		repo, err := NewPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres storage: %w", err)
		}
		slog.Info("postgres storage ready", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
