package database

import (
	"time"

	"github.com/zapponejosh/countdown-api/internal/tracker"
)

// TrackedEvent is a stored event definition.
type TrackedEvent struct {
	ID string `json:"id"`
	tracker.Definition
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CachedSnapshot is a snapshot computed for one event on one day.
type CachedSnapshot struct {
	EventID    string           `json:"event_id"`
	Day        string           `json:"day"` // YYYY-MM-DD
	Snapshot   tracker.Snapshot `json:"snapshot"`
	ComputedAt time.Time        `json:"computed_at"`
}

// EventStats summarizes the store for the health endpoint.
type EventStats struct {
	TotalEvents    int            `json:"total_events"`
	ByKind         map[string]int `json:"by_kind"`
	CachedSnapshot int            `json:"cached_snapshots"`
	LatestDay      *string        `json:"latest_day"`
}

// nullString converts empty strings to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
