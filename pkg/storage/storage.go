package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// DB is the sqlite-backed library catalog. Recording into it is optional
// everywhere; the matching engine itself never touches it.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the catalog at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS roms (
  id            INTEGER PRIMARY KEY,
  system        TEXT NOT NULL,
  identity      TEXT NOT NULL,
  base_title    TEXT NOT NULL,
  tags          TEXT,
  filename      TEXT NOT NULL,
  dest_path     TEXT,
  run_id        INTEGER NOT NULL DEFAULT 0,
  first_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(system, identity)
);
CREATE INDEX IF NOT EXISTS idx_roms_system ON roms(system);
CREATE TABLE IF NOT EXISTS runs (
  id          INTEGER PRIMARY KEY,
  kind        TEXT NOT NULL,
  accepted    INTEGER NOT NULL DEFAULT 0,
  skipped     INTEGER NOT NULL DEFAULT 0,
  errors      INTEGER NOT NULL DEFAULT 0,
  started_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  finished_at DATETIME
);
CREATE TABLE IF NOT EXISTS thumb_matches (
  id         INTEGER PRIMARY KEY,
  system     TEXT NOT NULL,
  game_name  TEXT NOT NULL,
  candidate  TEXT NOT NULL,
  tier       TEXT NOT NULL,
  art_type   TEXT NOT NULL,
  matched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(system, game_name, art_type)
);
CREATE INDEX IF NOT EXISTS idx_matches_system ON thumb_matches(system);
	`); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

// Close releases the underlying handle; safe on nil.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// BeginRun records the start of a consolidation or thumbnail run and returns
// its id, to be stamped onto every rom the run touches.
func (d *DB) BeginRun(ctx context.Context, kind string) (int64, error) {
	res, err := d.sql.ExecContext(ctx, "INSERT INTO runs(kind) VALUES(?)", kind)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun closes out a run with its final counters. A run left unfinished
// (crash, ctrl-C) keeps a NULL finished_at, which ListRuns surfaces as empty.
func (d *DB) FinishRun(ctx context.Context, runID int64, accepted, skipped, errCount int) error {
	_, err := d.sql.ExecContext(ctx, `
UPDATE runs SET
  accepted = ?,
  skipped = ?,
  errors = ?,
  finished_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		accepted, skipped, errCount, runID)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, kind, accepted, skipped, errors, started_at, COALESCE(finished_at,'') FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Accepted, &r.Skipped, &r.Errors, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UpsertRom inserts a library entry or refreshes its last-seen time when the
// same identity was recorded by an earlier run.
func (d *DB) UpsertRom(ctx context.Context, system, identity, baseTitle, tags, filename, destPath string, runID int64) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO roms(system, identity, base_title, tags, filename, dest_path, run_id)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(system, identity) DO UPDATE SET
  filename = excluded.filename,
  dest_path = excluded.dest_path,
  run_id = excluded.run_id,
  last_seen_at = CURRENT_TIMESTAMP`,
		system, identity, baseTitle, tags, filename, destPath, runID)
	return err
}

// UpsertMatch records a thumbnail match, replacing any earlier match for the
// same game and art type.
func (d *DB) UpsertMatch(ctx context.Context, system, gameName, candidate, tier, artType string) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO thumb_matches(system, game_name, candidate, tier, art_type)
VALUES(?,?,?,?,?)
ON CONFLICT(system, game_name, art_type) DO UPDATE SET
  candidate = excluded.candidate,
  tier = excluded.tier,
  matched_at = CURRENT_TIMESTAMP`,
		system, gameName, candidate, tier, artType)
	return err
}

// ListRoms returns catalog entries, optionally filtered by system.
func (d *DB) ListRoms(ctx context.Context, opts ListOptions) ([]Rom, error) {
	query := "SELECT id, system, identity, base_title, COALESCE(tags,''), filename, COALESCE(dest_path,''), run_id, first_seen_at, last_seen_at FROM roms"
	var args []any
	if opts.System != "" {
		query += " WHERE system = ?"
		args = append(args, opts.System)
	}
	query += " ORDER BY system, base_title"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roms []Rom
	for rows.Next() {
		var r Rom
		if err := rows.Scan(&r.ID, &r.System, &r.Identity, &r.BaseTitle, &r.Tags, &r.Filename, &r.DestPath, &r.RunID, &r.FirstSeen, &r.LastSeen); err != nil {
			return nil, err
		}
		roms = append(roms, r)
	}
	return roms, rows.Err()
}

// ListMatches returns recorded matches, optionally filtered by system.
func (d *DB) ListMatches(ctx context.Context, opts ListOptions) ([]Match, error) {
	query := "SELECT id, system, game_name, candidate, tier, art_type, matched_at FROM thumb_matches"
	var args []any
	if opts.System != "" {
		query += " WHERE system = ?"
		args = append(args, opts.System)
	}
	query += " ORDER BY system, game_name"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.System, &m.GameName, &m.Candidate, &m.Tier, &m.ArtType, &m.MatchedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetStats aggregates per-system and per-tier counts for reporting.
func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{
		RomsBySystem:  make(map[string]int),
		MatchesByTier: make(map[string]int),
	}

	rows, err := d.sql.QueryContext(ctx, "SELECT system, COUNT(*) FROM roms GROUP BY system")
	if err != nil {
		return stats, err
	}
	for rows.Next() {
		var system string
		var n int
		if err := rows.Scan(&system, &n); err != nil {
			rows.Close()
			return stats, err
		}
		stats.RomsBySystem[system] = n
		stats.TotalRoms += n
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return stats, err
	}
	if err := rows.Close(); err != nil {
		return stats, err
	}

	rows, err = d.sql.QueryContext(ctx, "SELECT tier, COUNT(*) FROM thumb_matches GROUP BY tier")
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return stats, err
		}
		stats.MatchesByTier[tier] = n
		stats.TotalMatches += n
	}
	return stats, rows.Err()
}
