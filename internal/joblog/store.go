package joblog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vodpress/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Status reflects the recorded outcome of one invocation.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one ledger row: a single pipeline invocation from trigger to
// completion or failure.
type Record struct {
	ID          string
	SourceKey   string
	BaseName    string
	Status      Status
	OutputPath  string
	ErrorDetail string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Store persists the invocation ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("joblog requires config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
}

// OpenPath opens the ledger at an explicit database path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
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
	if s == nil {
		return ""
	}
	return s.path
}

// Begin records the start of an invocation.
func (s *Store) Begin(ctx context.Context, id, sourceKey, baseName string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_runs (id, source_key, base_name, status, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		id, sourceKey, baseName, StatusRunning, now,
	)
	if err != nil {
		return fmt.Errorf("insert job run: %w", err)
	}
	return nil
}

// Finish records the terminal status of an invocation.
func (s *Store) Finish(ctx context.Context, id string, status Status, outputPath, errorDetail string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE job_runs
         SET status = ?, output_path = ?, error_detail = ?, finished_at = ?
         WHERE id = ?`,
		status, nullableString(outputPath), nullableString(errorDetail), now, id,
	)
	if err != nil {
		return fmt.Errorf("update job run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job run %s not found", id)
	}
	return nil
}

// Recent returns up to limit ledger rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_key, base_name, status, output_path, error_detail, started_at, finished_at
         FROM job_runs
         ORDER BY started_at DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query job runs: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec         Record
			status      string
			outputPath  sql.NullString
			errorDetail sql.NullString
			startedAt   string
			finishedAt  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.SourceKey, &rec.BaseName, &status, &outputPath, &errorDetail, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan job run: %w", err)
		}
		rec.Status = Status(status)
		rec.OutputPath = outputPath.String
		rec.ErrorDetail = errorDetail.String
		rec.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			rec.FinishedAt = parseTimestamp(finishedAt.String)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
