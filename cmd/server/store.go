package main

import (
	"context"
	"log/slog"

	"pollcast/internal/platform/config"
	"pollcast/internal/platform/postgres"
	"pollcast/internal/poll/service"
	"pollcast/internal/poll/store"
)

// selectStore opens PostgreSQL when a URL is configured and falls back to the
// in-memory store on any failure. The choice holds for the process lifetime.
func selectStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (service.Store, func()) {
	if cfg.URL == "" {
		log.Info("using in-memory store")
		return store.NewInMemory(), func() {}
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		log.Warn("postgres unavailable, falling back to in-memory store", "error", err)
		return store.NewInMemory(), func() {}
	}
	if err := store.CreateSchema(ctx, db); err != nil {
		log.Warn("postgres schema setup failed, falling back to in-memory store", "error", err)
		_ = db.Close()
		return store.NewInMemory(), func() {}
	}

	log.Info("using postgres store")
	return store.NewPostgres(db), func() { _ = db.Close() }
}
