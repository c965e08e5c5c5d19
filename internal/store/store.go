// Package store provides durable persistence for tasks, backed by a
// single-file SQLite database with write-ahead journaling and forward-only
// schema migrations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Error kinds the Store can surface from a constraint violation.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrCheckFailed   = errors.New("invalid value")
)

// Task mirrors the task row described by the data model.
type Task struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	IssueURL    string
	Agent       string
	Branch      string
	Worktree    string
	Status      string
	MuxSession  string
	PID         int64
	SessionID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

// Store wraps the database connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, enables WAL journaling and
// foreign-key enforcement, and applies any unapplied migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{1, "create tasks table", `
CREATE TABLE tasks (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	description  TEXT NOT NULL DEFAULT '',
	prompt       TEXT NOT NULL DEFAULT '',
	issue_url    TEXT NOT NULL DEFAULT '',
	agent        TEXT NOT NULL DEFAULT '',
	branch       TEXT NOT NULL,
	worktree     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'idle'
	             CHECK (status IN ('idle', 'running', 'done', 'error')),
	mux_session  TEXT NOT NULL DEFAULT '',
	pid          INTEGER NOT NULL DEFAULT 0,
	session_id   TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tasks_created_at ON tasks(created_at);
`},
}

// migrate applies every migration with a version greater than the max
// already-recorded one, inside a transaction each, and records its version
// row on success. Applying the same list twice is a no-op.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_version (
	version     INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_version (version, description) VALUES (?, ?)",
			m.version, m.description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
	}
	return nil
}

// classifyError maps a sqlite driver error to one of the Store's error
// kinds so callers can branch on errors.Is without depending on driver
// internals.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %s", ErrCheckFailed, msg)
	default:
		return err
	}
}

// Create inserts a new task row. id and name must be unique; name
// uniqueness is enforced by a UNIQUE index (ErrAlreadyExists on collision).
func (s *Store) Create(t Task) error {
	_, err := s.db.Exec(`
INSERT INTO tasks (id, name, description, prompt, issue_url, agent, branch, worktree, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Prompt, t.IssueURL, t.Agent, t.Branch, t.Worktree, orDefault(t.Status, StatusIdle),
	)
	return classifyError(err)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

const taskColumns = `id, name, description, prompt, issue_url, agent, branch, worktree, status, mux_session, pid, session_id, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Prompt, &t.IssueURL, &t.Agent, &t.Branch, &t.Worktree,
		&t.Status, &t.MuxSession, &t.PID, &t.SessionID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// List returns all tasks ordered by creation time ascending.
func (s *Store) List() ([]Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID looks up a task by its id.
func (s *Store) GetByID(id string) (Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// GetByName looks up a task by its unique name.
func (s *Store) GetByName(name string) (Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE name = ?`, name)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// Delete removes a task row by id. Deleting a nonexistent row is not an error.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// SetStatus unconditionally updates a task's status.
func (s *Store) SetStatus(id, status string) error {
	res, err := s.db.Exec(`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return classifyError(err)
	}
	return checkAffected(res)
}

// SetRunning transitions a task into the running state, recording the
// liveness identity the Reaper and Agent Launcher need to track it.
func (s *Store) SetRunning(id, muxSession string, pid int64, sessionID string) error {
	res, err := s.db.Exec(`
UPDATE tasks
SET status = 'running', mux_session = ?, pid = ?, session_id = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, muxSession, pid, sessionID, id)
	if err != nil {
		return classifyError(err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
