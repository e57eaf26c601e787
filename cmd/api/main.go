// Package main is the entry point for the countdown API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/zapponejosh/countdown-api/internal/api"
	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/config"
	"github.com/zapponejosh/countdown-api/internal/countdown"
	"github.com/zapponejosh/countdown-api/internal/database"
	"github.com/zapponejosh/countdown-api/internal/logger"
	"github.com/zapponejosh/countdown-api/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting countdown API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.Timezone),
		slog.String("locale", cfg.Locale),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("countdown API stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", applied))

	if cfg.EventsFile != "" {
		if err := seedEvents(ctx, db, cfg.EventsFile, log); err != nil {
			return err
		}
	}

	// Snapshot refresh
	formatter, err := countdown.ParseLocale(cfg.Locale)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	refresh := scheduler.NewRefreshJob(scheduler.RefreshConfig{
		Store:     db,
		Catalog:   calendar.DefaultCatalog(),
		Formatter: formatter,
		Location:  cfg.Location(),
		Log:       log,
	})

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if err := sched.RunNow(ctx, refresh); err != nil {
		log.Warn("initial refresh failed", slog.Any("error", err))
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	handlers := api.NewHandlers(db, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("countdown API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seedEvents upserts the events of the configured YAML file at startup.
func seedEvents(ctx context.Context, db *database.DB, path string, log *slog.Logger) error {
	defs, err := config.LoadEvents(path)
	if err != nil {
		return err
	}

	cat := calendar.DefaultCatalog()
	for _, def := range defs {
		if _, err := def.Build(cat); err != nil {
			return fmt.Errorf("events file %s: event %q: %w", path, def.Name, err)
		}
	}

	err = db.WithTx(ctx, func(tx *database.Tx) error {
		for _, def := range defs {
			if _, err := tx.UpsertEvent(ctx, def); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed events: %w", err)
	}

	log.Info("events seeded", slog.String("path", path), slog.Int("count", len(defs)))
	return nil
}
