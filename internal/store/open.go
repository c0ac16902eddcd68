// Package store selects the core.Store implementation named by config.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/memory"
	"github.com/JonMunkholm/inventory/internal/store/postgres"
)

// Open returns the store for cfg.Driver. The caller must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
