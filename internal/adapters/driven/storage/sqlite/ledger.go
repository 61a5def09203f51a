// Package sqlite provides an ingest ledger backed by a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.IngestLedger = (*Ledger)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ingest_failures (
	run_id TEXT NOT NULL REFERENCES ingest_runs(id) ON DELETE CASCADE,
	source TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingest_failures_run ON ingest_failures(run_id);
`

// Ledger records ingestion runs in a SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open creates (or opens) the ledger database at the given path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	// The ledger sees one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent reads.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// RecordRun persists one completed ingestion run with its failures.
func (l *Ledger) RecordRun(ctx context.Context, run domain.IngestRun) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, started_at, finished_at, chunk_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range run.Failures {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ingest_failures (run_id, source, reason) VALUES (?, ?, ?)`,
			run.ID, f.Source, f.Reason,
		)
		if err != nil {
			return fmt.Errorf("insert failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run, or domain.ErrNotFound when no
// run has been recorded.
func (l *Ledger) LastRun(ctx context.Context) (*domain.IngestRun, error) {
	var (
		run      domain.IngestRun
		started  int64
		finished int64
	)
	err := l.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, chunk_count
		 FROM ingest_runs ORDER BY finished_at DESC, id DESC LIMIT 1`,
	).Scan(&run.ID, &started, &finished, &run.ChunkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	run.StartedAt = time.UnixMilli(started)
	run.FinishedAt = time.UnixMilli(finished)

	rows, err := l.db.QueryContext(ctx,
		`SELECT source, reason FROM ingest_failures WHERE run_id = ?`, run.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.SourceFailure
		if err := rows.Scan(&f.Source, &f.Reason); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		run.Failures = append(run.Failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}

	return &run, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}
