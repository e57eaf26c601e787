package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

// querier is satisfied by both *DB and *Tx so queries run inside or
// outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `id, name, kind, start_date, end_date, date, rule_id, created_at, updated_at`

func scanEvent(row rowScanner) (*TrackedEvent, error) {
	var ev TrackedEvent
	var kind string
	var startDate, endDate, date, ruleID, createdAt, updatedAt sql.NullString

	if err := row.Scan(&ev.ID, &ev.Name, &kind, &startDate, &endDate, &date, &ruleID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	ev.Kind = tracker.Kind(kind)
	ev.StartDate = startDate.String
	ev.EndDate = endDate.String
	ev.Date = date.String
	ev.RuleID = ruleID.String
	if t := parseTimestamp(createdAt); t != nil {
		ev.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		ev.UpdatedAt = *t
	}
	return &ev, nil
}

// =============================================================================
// Tracked Event Queries
// =============================================================================

// CreateEvent stores a new event definition under a fresh UUID. The kind
// alias is resolved and unused fields are dropped. Returns ErrDuplicate if
// the name is taken.
//
// The definition is not checked against the rule catalog here; callers
// build it with tracker.Definition.Build first.
func (db *DB) CreateEvent(ctx context.Context, def tracker.Definition) (*TrackedEvent, error) {
	return createEvent(ctx, db, def)
}

// CreateEvent is CreateEvent inside a transaction.
func (tx *Tx) CreateEvent(ctx context.Context, def tracker.Definition) (*TrackedEvent, error) {
	return createEvent(ctx, tx, def)
}

func createEvent(ctx context.Context, q querier, def tracker.Definition) (*TrackedEvent, error) {
	norm, err := def.Normalize()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	query := `
		INSERT INTO tracked_events (id, name, kind, start_date, end_date, date, rule_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = q.ExecContext(ctx, query,
		id,
		norm.Name,
		string(norm.Kind),
		nullString(norm.StartDate),
		nullString(norm.EndDate),
		nullString(norm.Date),
		nullString(norm.RuleID),
	)
	if err != nil {
		if errors.Is(translateError(err), ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert tracked event: %w", err)
	}

	return getEvent(ctx, q, id)
}

// UpsertEvent inserts def, or replaces the definition of the event with
// the same name while keeping its id. Used by the YAML importer so that
// re-running an import is idempotent. Cached snapshots of a replaced
// definition are dropped.
func (tx *Tx) UpsertEvent(ctx context.Context, def tracker.Definition) (*TrackedEvent, error) {
	norm, err := def.Normalize()
	if err != nil {
		return nil, err
	}

	prior, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM tracked_events WHERE name = ?`, norm.Name))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load tracked event %q: %w", norm.Name, err)
	}

	query := `
		INSERT INTO tracked_events (id, name, kind, start_date, end_date, date, rule_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			kind = excluded.kind,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			date = excluded.date,
			rule_id = excluded.rule_id,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`
	_, err = tx.ExecContext(ctx, query,
		uuid.NewString(),
		norm.Name,
		string(norm.Kind),
		nullString(norm.StartDate),
		nullString(norm.EndDate),
		nullString(norm.Date),
		nullString(norm.RuleID),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert tracked event %q: %w", norm.Name, err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM tracked_events WHERE name = ?`, norm.Name)
	ev, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("reload tracked event %q: %w", norm.Name, err)
	}

	if prior != nil && prior.Definition != ev.Definition {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_cache WHERE event_id = ?`, ev.ID); err != nil {
			return nil, fmt.Errorf("invalidate snapshots of %q: %w", norm.Name, err)
		}
	}
	return ev, nil
}

// GetEvent retrieves an event by id. Returns ErrNotFound if it doesn't exist.
func (db *DB) GetEvent(ctx context.Context, id string) (*TrackedEvent, error) {
	return getEvent(ctx, db, id)
}

func getEvent(ctx context.Context, q querier, id string) (*TrackedEvent, error) {
	row := q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM tracked_events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query tracked event: %w", err)
	}
	return ev, nil
}

// ListEvents returns all events ordered by name.
// Returns an empty slice when the store is empty.
func (db *DB) ListEvents(ctx context.Context) ([]TrackedEvent, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+eventColumns+` FROM tracked_events ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tracked events: %w", err)
	}
	defer rows.Close()

	events := []TrackedEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracked event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event and its cached snapshots.
// Returns ErrNotFound if the id doesn't exist.
func (db *DB) DeleteEvent(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM tracked_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tracked event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// Snapshot Cache Queries
// =============================================================================

// SaveSnapshot stores snap for eventID under snap.Today, replacing any
// earlier snapshot for the same day.
func (db *DB) SaveSnapshot(ctx context.Context, eventID string, snap tracker.Snapshot) error {
	payload, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshot_cache (event_id, day, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(event_id, day) DO UPDATE SET
			payload = excluded.payload,
			computed_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`
	if _, err := db.ExecContext(ctx, query, eventID, snap.Today.String(), payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the cached snapshot of eventID for day.
// Returns ErrNotFound on a cache miss.
func (db *DB) GetSnapshot(ctx context.Context, eventID string, day calendar.Date) (*CachedSnapshot, error) {
	query := `SELECT payload, computed_at FROM snapshot_cache WHERE event_id = ? AND day = ?`

	var payload []byte
	var computedAt sql.NullString
	err := db.QueryRowContext(ctx, query, eventID, day.String()).Scan(&payload, &computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	cached := &CachedSnapshot{EventID: eventID, Day: day.String()}
	if err := msgpack.Unmarshal(payload, &cached.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if t := parseTimestamp(computedAt); t != nil {
		cached.ComputedAt = *t
	}
	return cached, nil
}

// PruneSnapshots deletes cached snapshots for days before day and returns
// how many were removed.
func (db *DB) PruneSnapshots(ctx context.Context, before calendar.Date) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM snapshot_cache WHERE day < ?`, before.String())
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

// GetEventStats returns counts used by the health endpoint.
func (db *DB) GetEventStats(ctx context.Context) (*EventStats, error) {
	stats := &EventStats{ByKind: map[string]int{}}

	rows, err := db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM tracked_events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query event stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan event stats: %w", err)
		}
		stats.ByKind[kind] = n
		stats.TotalEvents += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event stats: %w", err)
	}

	var latest sql.NullString
	err = db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(day) FROM snapshot_cache`).Scan(&stats.CachedSnapshot, &latest)
	if err != nil {
		return nil, fmt.Errorf("query snapshot stats: %w", err)
	}
	if latest.Valid {
		stats.LatestDay = &latest.String
	}
	return stats, nil
}
