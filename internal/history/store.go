// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists build records in a local SQLite database.
// See docs/ARCHITECTURE § Build History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docpages/pkg/types"
)

const dbFile = "history.db"

// Store manages the build-history SQLite database.
type Store struct {
	db         *sql.DB
	historyDir string
	maxResults int
}

// NewStore opens or creates the history database at <dir>/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		historyDir: cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			source_dir TEXT NOT NULL,
			build_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_mode ON builds(mode)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_status ON builds(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a build record and returns it with the assigned ID.
func (s *Store) Record(ctx context.Context, rec types.BuildRecord) (types.BuildRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (mode, source_dir, build_dir, started_at, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Mode,
		rec.SourceDir,
		rec.BuildDir,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		string(rec.Status),
		rec.Error,
	)
	if err != nil {
		return rec, fmt.Errorf("inserting build record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return rec, fmt.Errorf("reading inserted id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// QueryOptions filters a history listing.
type QueryOptions struct {
	// Mode filters by generator mode when non-empty.
	Mode string

	// Status filters by build status when non-empty.
	Status types.BuildStatus

	// Limit caps the number of results; 0 means the store default.
	Limit int
}

// List returns the most recent builds matching opts, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.BuildRecord, error) {
	query := `SELECT id, mode, source_dir, build_dir, started_at, duration_ms, status, COALESCE(error, '')
		FROM builds`
	var conds []string
	var args []any

	if opts.Mode != "" {
		conds = append(conds, "mode = ?")
		args = append(args, opts.Mode)
	}
	if opts.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(opts.Status))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var records []types.BuildRecord
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Last returns the most recent build, or nil when the history is empty.
func (s *Store) Last(ctx context.Context) (*types.BuildRecord, error) {
	records, err := s.List(ctx, QueryOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func scanBuild(rows *sql.Rows) (types.BuildRecord, error) {
	var rec types.BuildRecord
	var startedAt string
	var durationMS int64
	var status string

	if err := rows.Scan(&rec.ID, &rec.Mode, &rec.SourceDir, &rec.BuildDir,
		&startedAt, &durationMS, &status, &rec.Error); err != nil {
		return rec, fmt.Errorf("scanning build row: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return rec, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
	}
	rec.StartedAt = ts
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Status = types.BuildStatus(status)
	return rec, nil
}
