// Command import loads tracked events from a YAML file into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -events data/events.yaml -db data/countdown.db
//
// This tool:
// 1. Parses the YAML events file
// 2. Validates every definition against the rule catalog
// 3. Creates/opens the SQLite database and runs migrations
// 4. Upserts all events in a single transaction
//
// The import is idempotent: events are matched by name, so running it twice
// updates definitions in place and keeps their ids.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/config"
	"github.com/zapponejosh/countdown-api/internal/database"
	"github.com/zapponejosh/countdown-api/internal/logger"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

func main() {
	eventsPath := flag.String("events", "data/events.yaml", "Path to YAML events file")
	dbPath := flag.String("db", "data/countdown.db", "Path to SQLite database")
	dryRun := flag.Bool("dry-run", false, "Validate only, do not write")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	if err := run(*eventsPath, *dbPath, *dryRun, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(eventsPath, dbPath string, dryRun bool, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and validate definitions
	// =========================================================================
	log.Info("reading events file", slog.String("path", eventsPath))

	defs, err := config.LoadEvents(eventsPath)
	if err != nil {
		return err
	}

	if err := validate(defs, calendar.DefaultCatalog()); err != nil {
		return err
	}
	log.Info("definitions valid", slog.Int("events", len(defs)))

	if dryRun {
		fmt.Printf("%d events valid, nothing written (dry run)\n", len(defs))
		return nil
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import in a transaction
	// =========================================================================
	byKind := map[tracker.Kind]int{}
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		for i, def := range defs {
			ev, err := tx.UpsertEvent(ctx, def)
			if err != nil {
				return fmt.Errorf("event %d (%s): %w", i+1, def.Name, err)
			}
			byKind[ev.Kind]++
			log.Debug("event imported",
				slog.String("id", ev.ID),
				slog.String("name", ev.Name),
				slog.String("kind", string(ev.Kind)))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import events: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stats, err := db.GetEventStats(ctx)
	if err != nil {
		return fmt.Errorf("event stats: %w", err)
	}

	elapsed := time.Since(startTime)
	log.Info("import verified",
		slog.Int("imported", len(defs)),
		slog.Int("total_events", stats.TotalEvents),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	for _, kind := range []tracker.Kind{tracker.KindInterval, tracker.KindSingleDate, tracker.KindYearly, tracker.KindRule} {
		fmt.Printf("%-14s %d\n", string(kind)+":", byKind[kind])
	}
	fmt.Printf("Events in store: %d\n", stats.TotalEvents)
	fmt.Printf("Time elapsed:    %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// validate builds every definition and reports all failures at once.
func validate(defs []tracker.Definition, cat *calendar.Catalog) error {
	var errs []error
	seen := make(map[string]int, len(defs))

	for i, def := range defs {
		if _, err := def.Build(cat); err != nil {
			errs = append(errs, fmt.Errorf("event %d (%q): %w", i+1, def.Name, err))
		}
		if prev, dup := seen[def.Name]; dup {
			errs = append(errs, fmt.Errorf("event %d (%q): duplicate of event %d", i+1, def.Name, prev))
		}
		seen[def.Name] = i + 1
	}
	return errors.Join(errs...)
}
