package main

import (
	"context"
	"fmt"

	"framecast/internal/config"
	"framecast/internal/store"
	"framecast/internal/store/postgres"
	"framecast/internal/store/sqlite"
)

const configPath = "framecast.yaml"

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
