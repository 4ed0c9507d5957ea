package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/kvdrop/backend"
	"github.com/sagarc03/kvdrop/config"
)

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return config.WithContext(ctx, cfg)
}

func configFromContext(ctx context.Context) (*config.Config, error) {
	return config.FromContext(ctx)
}

// openBackend connects, optionally migrates and validates the backend.
// The caller owns the returned Backend and must Close it.
func openBackend(ctx context.Context, cfg backend.Config, migrate bool) (backend.Backend, error) {
	db, err := backend.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect backend: %w", err)
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping backend: %w", err)
	}

	if migrate {
		if err = db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate backend: %w", err)
		}
		slog.Debug("backend migration complete", "type", cfg.Type)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate backend: %w", err)
	}

	return db, nil
}
