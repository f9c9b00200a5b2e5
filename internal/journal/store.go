package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// timestampLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run ID is not in the journal.
var ErrRunNotFound = errors.New("run not found")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
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

// BeginRun records the start of a pass and returns the run with a fresh ID.
func (s *Store) BeginRun(ctx context.Context, kind Kind, directory string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Directory: directory,
		DryRun:    dryRun,
		StartedAt: s.now().UTC(),
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, kind, directory, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		nullableString(run.Directory),
		boolToInt(run.DryRun),
		run.StartedAt.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordAction appends a file action to its run.
func (s *Store) RecordAction(ctx context.Context, action Action) error {
	if strings.TrimSpace(action.RunID) == "" {
		return errors.New("record action: run id is required")
	}
	created := action.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	err := s.exec(ctx,
		`INSERT INTO actions (run_id, status, source, target, code, score, error_message, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		action.RunID,
		action.Status,
		nullableString(action.Source),
		nullableString(action.Target),
		nullableString(action.Code),
		action.Score,
		nullableString(action.Error),
		created.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// FinishRun stores the final counts and the error that ended the run, if any.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary, runErr error) error {
	var message any
	if runErr != nil {
		message = runErr.Error()
	}
	err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, scanned = ?, changed = ?, failed = ?, error_message = ? WHERE id = ?`,
		s.now().UTC().Format(timestampLayout),
		summary.Scanned,
		summary.Changed,
		summary.Failed,
		message,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

const runColumns = "id, kind, directory, dry_run, started_at, finished_at, scanned, changed, failed, error_message"

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a run by ID or ErrRunNotFound. A unique ID prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		id, escapeLike(id)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return &run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// Actions returns the actions of a run in the order they were recorded.
func (s *Store) Actions(ctx context.Context, runID string) ([]Action, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, status, source, target, code, score, error_message, created_at
         FROM actions WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var (
			a          Action
			source     sql.NullString
			target     sql.NullString
			code       sql.NullString
			score      sql.NullFloat64
			errMessage sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.Status, &source, &target, &code, &score, &errMessage, &createdRaw); err != nil {
			return nil, err
		}
		a.Source = source.String
		a.Target = target.String
		a.Code = code.String
		a.Score = score.Float64
		a.Error = errMessage.String
		if created, err := parseTimeString(createdRaw); err == nil {
			a.CreatedAt = created
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
