package runs

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

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database and applies migrations.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("run database path not configured")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database directory: %w", err)
		}
	}

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
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const runColumns = `id, source_path, output_path, status, error_message, narration_count, created_at, updated_at`

// Create inserts a new pending run for a source file and returns it.
func (s *Store) Create(ctx context.Context, sourcePath string) (*Run, error) {
	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		id,
		sourcePath,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a run by identifier. Missing runs return (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// SetStatus advances a run to the given stage status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown run status %q", status)
	}
	return s.update(ctx, id,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id)
}

// Complete marks a run finished with its output path and narration count.
func (s *Store) Complete(ctx context.Context, id, outputPath string, narrationCount int) error {
	return s.update(ctx, id,
		`UPDATE runs SET status = ?, output_path = ?, narration_count = ?, error_message = '', updated_at = ? WHERE id = ?`,
		StatusCompleted, outputPath, narrationCount, now(), id)
}

// Fail marks a run failed with the given message.
func (s *Store) Fail(ctx context.Context, id, message string) error {
	return s.update(ctx, id,
		`UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, strings.TrimSpace(message), now(), id)
}

// List returns runs in reverse creation order, optionally filtered by status.
// A limit of 0 returns everything.
func (s *Store) List(ctx context.Context, statuses []Status, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var results []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		results = append(results, run)
	}
	return results, rows.Err()
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		status    string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&run.ID,
		&run.SourcePath,
		&run.OutputPath,
		&status,
		&run.ErrorMessage,
		&run.NarrationCount,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.CreatedAt = parseTimestamp(createdAt)
	run.UpdatedAt = parseTimestamp(updatedAt)
	return &run, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
