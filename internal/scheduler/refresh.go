package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/countdown"
	"github.com/zapponejosh/countdown-api/internal/database"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

// SnapshotStore is the part of the database the refresh job needs.
type SnapshotStore interface {
	ListEvents(ctx context.Context) ([]database.TrackedEvent, error)
	SaveSnapshot(ctx context.Context, eventID string, snap tracker.Snapshot) error
	PruneSnapshots(ctx context.Context, before calendar.Date) (int64, error)
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Day       calendar.Date
	Refreshed int
	Failed    int
	Pruned    int64
}

// RefreshJob re-evaluates every stored event for the current day and
// caches the snapshots. A failing event is logged and skipped; the others
// are still refreshed.
type RefreshJob struct {
	store     SnapshotStore
	catalog   *calendar.Catalog
	formatter countdown.Formatter
	location  *time.Location
	retain    int
	now       func() time.Time
	log       *slog.Logger
}

// RefreshConfig holds configuration for the refresh job.
type RefreshConfig struct {
	Store      SnapshotStore
	Catalog    *calendar.Catalog
	Formatter  countdown.Formatter
	Location   *time.Location   // defines "today"; UTC if nil
	RetainDays int              // cached days kept before today; 7 if zero
	Now        func() time.Time // time.Now if nil
	Log        *slog.Logger
}

// NewRefreshJob creates a refresh job.
func NewRefreshJob(cfg RefreshConfig) *RefreshJob {
	j := &RefreshJob{
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		formatter: cfg.Formatter,
		location:  cfg.Location,
		retain:    cfg.RetainDays,
		now:       cfg.Now,
		log:       cfg.Log,
	}
	if j.catalog == nil {
		j.catalog = calendar.DefaultCatalog()
	}
	if j.location == nil {
		j.location = time.UTC
	}
	if j.retain <= 0 {
		j.retain = 7
	}
	if j.now == nil {
		j.now = time.Now
	}
	if j.log == nil {
		j.log = slog.Default()
	}
	j.log = j.log.With(slog.String("job", j.Name()))
	return j
}

// Name returns the job name.
func (j *RefreshJob) Name() string {
	return "snapshot_refresh"
}

// Run implements Job.
func (j *RefreshJob) Run(ctx context.Context) error {
	_, err := j.Refresh(ctx)
	return err
}

// Today is the current calendar day in the job's time zone.
func (j *RefreshJob) Today() calendar.Date {
	return calendar.FromTime(j.now().In(j.location))
}

// Refresh evaluates all events for today. It fails only when the event
// list cannot be read or the context is cancelled.
func (j *RefreshJob) Refresh(ctx context.Context) (RefreshResult, error) {
	today := j.Today()
	result := RefreshResult{Day: today}

	events, err := j.store.ListEvents(ctx)
	if err != nil {
		return result, fmt.Errorf("list events: %w", err)
	}

	for _, stored := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := j.refreshOne(ctx, stored, today); err != nil {
			result.Failed++
			j.log.Warn("event refresh failed",
				slog.String("event_id", stored.ID),
				slog.String("name", stored.Name),
				slog.Any("error", err),
			)
			continue
		}
		result.Refreshed++
	}

	pruned, err := j.store.PruneSnapshots(ctx, today.AddDays(-j.retain))
	if err != nil && !errors.Is(err, context.Canceled) {
		j.log.Warn("snapshot prune failed", slog.Any("error", err))
	}
	result.Pruned = pruned

	j.log.Info("snapshots refreshed",
		slog.String("day", today.String()),
		slog.Int("refreshed", result.Refreshed),
		slog.Int("failed", result.Failed),
		slog.Int64("pruned", result.Pruned),
	)
	return result, nil
}

func (j *RefreshJob) refreshOne(ctx context.Context, stored database.TrackedEvent, today calendar.Date) error {
	ev, err := stored.Definition.Build(j.catalog)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	snap, err := tracker.Evaluate(ev, today, j.formatter)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return j.store.SaveSnapshot(ctx, stored.ID, snap)
}
