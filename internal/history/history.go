// Package history persists finished runs and their timing records in a
// SQLite database.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // CGO-free sqlite driver

	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

// Run is one persisted run.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Error     string
	Records   int
}

const (
	// StatusSuccess marks a run whose final outcome was a success.
	StatusSuccess = "success"
	// StatusFailure marks a run halted by a step failure.
	StatusFailure = "failure"
)

// Store persists runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath, creating the schema if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to enable WAL mode")
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to initialise schema")
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			duration_ns INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			records INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS step_records (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			label TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, idx),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_step_records_run ON step_records(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "unable to execute schema statement")
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "unable to close database")
}

// SaveRun persists one finished run and all its records. runErr is the
// final outcome failure, nil on success.
func (s *Store) SaveRun(ctx context.Context, log *timing.Log, runErr error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	status, errText := StatusSuccess, ""
	if runErr != nil {
		status, errText = StatusFailure, runErr.Error()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ns, status, error, records) VALUES (?, ?, ?, ?, ?, ?)`,
		log.RunID().String(), log.StartedAt().UTC(), int64(log.Total()), status, errText, log.Len(),
	)
	if err != nil {
		return errors.Wrap(err, "unable to insert run")
	}

	for _, rec := range log.Records() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO step_records (run_id, idx, label, duration_ns) VALUES (?, ?, ?, ?)`,
			log.RunID().String(), rec.Index, rec.Label, int64(rec.Duration),
		)
		if err != nil {
			return errors.Wrap(err, "unable to insert step record")
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit run")
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ns, status, error, records FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query runs")
	}
	defer func() { _ = rows.Close() }()

	var runs []Run

	for rows.Next() {
		var (
			run        Run
			id         string
			durationNS int64
			errText    sql.NullString
		)

		err := rows.Scan(&id, &run.StartedAt, &durationNS, &run.Status, &errText, &run.Records)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan run")
		}

		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse run id")
		}

		run.Duration = time.Duration(durationNS)
		run.Error = errText.String

		runs = append(runs, run)
	}

	return runs, errors.Wrap(rows.Err(), "unable to iterate runs")
}

// StepRecords returns the records of one run, in execution order.
func (s *Store) StepRecords(ctx context.Context, runID uuid.UUID) ([]timing.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, label, duration_ns FROM step_records WHERE run_id = ? ORDER BY idx`,
		runID.String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query step records")
	}
	defer func() { _ = rows.Close() }()

	var records []timing.Record

	for rows.Next() {
		var (
			rec        timing.Record
			durationNS int64
		)

		err := rows.Scan(&rec.Index, &rec.Label, &durationNS)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan step record")
		}

		rec.Duration = time.Duration(durationNS)

		records = append(records, rec)
	}

	return records, errors.Wrap(rows.Err(), "unable to iterate step records")
}
