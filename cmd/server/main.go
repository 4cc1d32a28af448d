package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coopledger/internal/config"
	"coopledger/internal/db"
	"coopledger/internal/db/mock"
	applog "coopledger/internal/log"
	"coopledger/internal/server"

	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := applog.SetLevel(cfg.Server.LogLevel); err != nil {
		applog.Error(ctx, "invalid log level", "error", err)
		os.Exit(1)
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		applog.Error(ctx, "failed to open database", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Addr:     cfg.Server.Addr,
		Database: database,
	})

	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(ctx, "shutting down http server")
	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// openDatabase connects to the configured database, or falls back to a
// seeded in-memory database when no URL is configured so the service can be
// explored without provisioning postgres.
func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if cfg.Database.URL == "" {
		applog.Warn(ctx, "no database URL configured, using seeded in-memory database")
		return mock.New(ctx)
	}
	return db.Configure(cfg.Database)
}
