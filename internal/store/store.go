/*
PURPOSE:
  Sweep history. Keeps every sweep run and every combination outcome in a
  SQLite database so results from many CSV files and machines can be
  compared later.

REQUIREMENTS:
  Implementation-discovered:
  - Optional; enabled with --history.
  - Pure-Go driver (modernc.org/sqlite) so the binary needs no cgo.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run, history)
  - Implements: engine.Recorder

ERROR HANDLING:
  - Returns wrapped errors; the engine logs and continues on record failures.

USAGE:
  st, err := store.Open("flexsweep.db")
  st.BeginRun(ctx, store.Run{ID: id, ...})
*/

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/daryltucker/flexsweep/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	mode        TEXT NOT NULL,
	tool        TEXT NOT NULL,
	top         TEXT NOT NULL,
	config      TEXT NOT NULL,
	total       INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	state       TEXT NOT NULL,
	params      TEXT NOT NULL,
	result      TEXT,
	error       TEXT,
	started_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`

// Run is one recorded sweep.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Mode       string
	Tool       string
	Top        string
	Config     string
	Total      int
	Failed     int
}

// Store is the sweep history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	// one writer; the sweep is sequential anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a sweep.
func (s *Store) BeginRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, mode, tool, top, config) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC(), r.Mode, r.Tool, r.Top, r.Config)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

// FinishRun stores the final tally of a sweep.
func (s *Store) FinishRun(ctx context.Context, summary model.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, failed = ? WHERE id = ?`,
		time.Now().UTC(), summary.Total, len(summary.Failures), summary.RunID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", summary.RunID, err)
	}
	return nil
}

// RecordOutcome stores one combination's outcome.
func (s *Store) RecordOutcome(ctx context.Context, o model.Outcome) error {
	params, err := json.Marshal(o.Params)
	if err != nil {
		return err
	}
	var result sql.NullString
	if o.Result != nil {
		data, err := json.Marshal(o.Result)
		if err != nil {
			return err
		}
		result = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, name, state, params, result, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.Name, o.State, string(params), result, o.Error, o.Timestamp.UTC(), o.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record outcome %s: %w", o.Name, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, mode, tool, top, config, total, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Mode, &r.Tool, &r.Top, &r.Config, &r.Total, &r.Failed); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the outcomes of one run in execution order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]model.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, state, params, result, error, started_at, duration_ms
		 FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.Outcome
	for rows.Next() {
		o := model.Outcome{RunID: runID}
		var params string
		var result, errText sql.NullString
		var ms int64
		if err := rows.Scan(&o.Name, &o.State, &params, &result, &errText, &o.Timestamp, &ms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(params), &o.Params); err != nil {
			return nil, err
		}
		if result.Valid {
			if err := json.Unmarshal([]byte(result.String), &o.Result); err != nil {
				return nil, err
			}
		}
		o.Error = errText.String
		o.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, o)
	}
	return out, rows.Err()
}
