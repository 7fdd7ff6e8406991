// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package history keeps a record of THERM runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/fftherm/internal/persistence/sqlite"
	"github.com/ManuGH/fftherm/internal/therm"
)

// migrations are applied in order; never edit a released step.
var migrations = []string{
	`CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		thmz_path TEXT NOT NULL,
		started_at_ms INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		result TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX idx_runs_started ON runs(started_at_ms);`,
}

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("run not found")

// Store implements therm.Recorder on SQLite.
type Store struct {
	path string
	db   *sql.DB
}

var _ therm.Recorder = (*Store)(nil)

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path, sqlite.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	if err := sqlite.Migrate(context.Background(), db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

// RecordRun stores run. Recording the same id again replaces the entry.
func (s *Store) RecordRun(ctx context.Context, run therm.Run) error {
	query := `
	INSERT INTO runs (id, model, thmz_path, started_at_ms, duration_ms, result, message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		model = excluded.model,
		thmz_path = excluded.thmz_path,
		started_at_ms = excluded.started_at_ms,
		duration_ms = excluded.duration_ms,
		result = excluded.result,
		message = excluded.message
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Model, run.THMZPath, run.Started.UnixMilli(), run.Duration.Milliseconds(), run.Result, run.Message,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, model, thmz_path, started_at_ms, duration_ms, result, message FROM runs`

// List returns the newest runs first. A limit below one returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]therm.Run, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at_ms DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []therm.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (therm.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return therm.Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (therm.Run, error) {
	var (
		run                 therm.Run
		startedMs, duration int64
	)
	if err := row.Scan(&run.ID, &run.Model, &run.THMZPath, &startedMs, &duration, &run.Result, &run.Message); err != nil {
		return therm.Run{}, err
	}
	run.Started = time.UnixMilli(startedMs)
	run.Duration = time.Duration(duration) * time.Millisecond
	return run, nil
}

// Verify runs an integrity check of the database file.
func (s *Store) Verify(full bool) ([]string, error) {
	return sqlite.VerifyIntegrity(s.path, full)
}

func (s *Store) Close() error {
	return s.db.Close()
}
