package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hetulpatel/stackseed/internal/models"
)

const (
	defaultPath = "data/seed.db"
	// fixed width so text ordering matches time ordering
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store wraps the SQLite ledger of sent submissions.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database, then ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{path: path, db: db}
	if err := s.CreateTables(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTables ensures the ledger tables exist.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// DropTables removes the ledger tables.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS submissions; DROP TABLE IF EXISTS runs;`)
	return err
}

// ClearTables empties the ledger.
func (s *Store) ClearTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM submissions; DELETE FROM runs;`)
	return err
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	source TEXT,
	sent INTEGER NOT NULL DEFAULT 0,
	rejected INTEGER NOT NULL DEFAULT 0,
	started_at TEXT,
	finished_at TEXT,
	error TEXT
);
CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	line INTEGER NOT NULL,
	endpoint TEXT NOT NULL,
	payload_hash TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	api_status TEXT,
	api_error TEXT,
	sent_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_run_idx ON submissions(run_id, line);
`

// RecordSubmission appends one sent request. It never updates earlier rows, so
// re-running a seeder leaves a second set of rows behind.
func (s *Store) RecordSubmission(ctx context.Context, sub models.Submission) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO submissions (run_id, kind, line, endpoint, payload_hash, status_code, api_status, api_error, sent_at)
VALUES (?,?,?,?,?,?,?,?,?)`,
		sub.RunID,
		string(sub.Kind),
		sub.Line,
		sub.Endpoint,
		sub.PayloadHash,
		sub.StatusCode,
		sub.APIStatus,
		sub.APIError,
		formatTime(sub.SentAt),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Run is the stored summary of one seeding run.
type Run struct {
	RunID      string
	Kind       models.Kind
	Source     string
	Sent       int
	Rejected   int
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// SaveRun inserts or replaces a run summary.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (run_id, kind, source, sent, rejected, started_at, finished_at, error)
VALUES (?,?,?,?,?,?,?,?)
ON CONFLICT(run_id) DO UPDATE SET
	sent=excluded.sent,
	rejected=excluded.rejected,
	finished_at=excluded.finished_at,
	error=excluded.error;`,
		run.RunID,
		string(run.Kind),
		run.Source,
		run.Sent,
		run.Rejected,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.RunID, err)
	}
	return nil
}

// Runs lists stored runs, newest first. A limit of zero returns all of them.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, kind, source, sent, rejected, started_at, finished_at, error FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                 Run
			kind              string
			source, errText   sql.NullString
			started, finished sql.NullString
		)
		if err := rows.Scan(&r.RunID, &kind, &source, &r.Sent, &r.Rejected, &started, &finished, &errText); err != nil {
			return nil, err
		}
		r.Kind = models.Kind(kind)
		r.Source = source.String
		r.Error = errText.String
		r.StartedAt = parseTime(started.String)
		r.FinishedAt = parseTime(finished.String)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Submissions returns the rows recorded for a run in line order.
func (s *Store) Submissions(ctx context.Context, runID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, kind, line, endpoint, payload_hash, status_code, api_status, api_error, sent_at
FROM submissions WHERE run_id = ? ORDER BY line, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Submission
	for rows.Next() {
		var (
			sub               models.Submission
			kind, sentAt      string
			apiStatus, apiErr sql.NullString
		)
		if err := rows.Scan(&sub.RunID, &kind, &sub.Line, &sub.Endpoint, &sub.PayloadHash, &sub.StatusCode, &apiStatus, &apiErr, &sentAt); err != nil {
			return nil, err
		}
		sub.Kind = models.Kind(kind)
		sub.APIStatus = apiStatus.String
		sub.APIError = apiErr.String
		sub.SentAt = parseTime(sentAt)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}
	}
	return ts
}
