package database

// migrationsSQL contains all database migrations, applied in order by
// version number. Each statement is idempotent.
var migrationsSQL = map[int]string{
	1: migrationV1TrackedEvents,
	2: migrationV2SnapshotCache,
}

// migrationV1TrackedEvents stores event definitions in their user-facing
// form: ISO date strings and catalog rule ids. Which columns are set
// depends on kind; the CHECK constraints mirror tracker.Definition.Build.
const migrationV1TrackedEvents = `
CREATE TABLE IF NOT EXISTS tracked_events (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL CHECK (kind IN ('interval', 'single_date', 'yearly', 'rule')),

    start_date TEXT,
    end_date TEXT,
    date TEXT,
    rule_id TEXT,

    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),

    CHECK (kind != 'interval' OR (start_date IS NOT NULL AND end_date IS NOT NULL AND start_date <= end_date)),
    CHECK (kind NOT IN ('single_date', 'yearly') OR date IS NOT NULL),
    CHECK (kind != 'rule' OR rule_id IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_tracked_events_kind ON tracked_events(kind);
`

// migrationV2SnapshotCache keeps the last computed snapshot per event and
// day as a msgpack blob.
const migrationV2SnapshotCache = `
CREATE TABLE IF NOT EXISTS snapshot_cache (
    event_id TEXT NOT NULL REFERENCES tracked_events(id) ON DELETE CASCADE,
    day TEXT NOT NULL,
    payload BLOB NOT NULL,
    computed_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    PRIMARY KEY (event_id, day)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_cache_day ON snapshot_cache(day);
`
