package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quotaflow/quotaflow/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines the registered sql driver.
const driverName = "sqlite"

// Repository stores the flat task list in a local sqlite file.
type Repository struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path, creating parent
// directories as needed.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a throwaway in-memory database, used by tests.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			revenue REAL NOT NULL DEFAULT 0,
			time_taken REAL NOT NULL DEFAULT 1,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			completed_at TEXT,
			position INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// LoadTasks returns the stored list in its persisted order.
func (r *Repository) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, revenue, time_taken, priority, status, notes, created_at, completed_at
		FROM tasks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		var (
			t            domain.Task
			priority     string
			status       string
			createdRaw   string
			completedRaw sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Revenue, &t.TimeTaken, &priority, &status, &t.Notes, &createdRaw, &completedRaw); err != nil {
			return nil, err
		}
		t.Priority = domain.Priority(priority)
		t.Status = domain.Status(status)
		t.CreatedAt = parseTS(createdRaw)
		t.CompletedAt = parseNullTS(completedRaw)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceTasks overwrites the stored list with tasks, preserving list
// order through the position column.
func (r *Repository) ReplaceTasks(ctx context.Context, tasks []domain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for idx, t := range tasks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks(id, title, revenue, time_taken, priority, status, notes, created_at, completed_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			t.ID,
			t.Title,
			t.Revenue,
			t.TimeTaken,
			string(t.Priority),
			string(t.Status),
			t.Notes,
			ts(t.CreatedAt),
			nullableTS(t.CompletedAt),
			idx,
		)
		if err != nil {
			return fmt.Errorf("insert task %q: %w", t.ID, err)
		}
	}
	err = tx.Commit()
	return err
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	parsed := parseTS(v.String)
	return &parsed
}
