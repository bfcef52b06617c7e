// Package runstore persists upload run history backed by SQLite, giving
// every reconciliation run an auditable record of what happened to each
// file.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"subsync/internal/config"
)

// Store manages run persistence.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database under the data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "runs.db"))
}

// OpenPath opens the run database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Run is one recorded reconciliation run.
type Run struct {
	ID         string
	Mode       string
	Folder     string
	StartedAt  time.Time
	FinishedAt time.Time
	TotalFiles int
	Uploaded   int
	Skipped    int
	Unmatched  int
	Failed     int
}

// Outcome statuses recorded per file.
const (
	StatusUploaded  = "uploaded"
	StatusSkipped   = "skipped"
	StatusUnmatched = "unmatched"
	StatusFailed    = "failed"
)

// FileOutcome is the recorded result for one submission file.
type FileOutcome struct {
	RunID    string
	Filename string
	SheetRow int
	Method   string
	Status   string
	Error    string
}

// BeginRun inserts a new run record.
func (s *Store) BeginRun(ctx context.Context, id, mode, folder string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, folder, started_at) VALUES (?, ?, ?, ?)`,
		id, mode, folder, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the final counters and finish time for a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total_files = ?, uploaded = ?, skipped = ?, unmatched = ?, failed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		run.TotalFiles, run.Uploaded, run.Skipped, run.Unmatched, run.Failed,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: run %s not found", run.ID)
	}
	return nil
}

// RecordOutcome appends one file outcome to a run.
func (s *Store) RecordOutcome(ctx context.Context, outcome FileOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_outcomes (run_id, filename, sheet_row, method, status, error)
         VALUES (?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.Filename,
		nullableInt(outcome.SheetRow),
		outcome.Method,
		outcome.Status,
		nullableString(outcome.Error),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// ListRuns returns recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, folder, started_at, finished_at, total_files, uploaded, skipped, unmatched, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.Mode, &run.Folder, &started, &finished,
			&run.TotalFiles, &run.Uploaded, &run.Skipped, &run.Unmatched, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outcomes returns the file outcomes for a run in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, filename, sheet_row, method, status, error
         FROM file_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []FileOutcome
	for rows.Next() {
		var outcome FileOutcome
		var sheetRow sql.NullInt64
		var outcomeErr sql.NullString
		if err := rows.Scan(&outcome.RunID, &outcome.Filename, &sheetRow,
			&outcome.Method, &outcome.Status, &outcomeErr); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if sheetRow.Valid {
			outcome.SheetRow = int(sheetRow.Int64)
		}
		if outcomeErr.Valid {
			outcome.Error = outcomeErr.String
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value <= 0 {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
