// Package history records sent exchanges in a local SQLite database.
// Recording is opt-in via the workspace config; the default invocation
// touches no persistent state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded exchange.
type Entry struct {
	ID         int64
	RequestAt  time.Time
	Name       string
	Method     string
	URI        string
	StatusCode int
	DurationMs int64
}

// Store is an append-only exchange log.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_at  TIMESTAMP NOT NULL,
	name        TEXT NOT NULL,
	method      TEXT NOT NULL,
	uri         TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);`

// DefaultPath returns the history database location used when the
// config does not name one.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kuiper", "history.db"), nil
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one exchange.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (request_at, name, method, uri, status_code, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.RequestAt.UTC(), e.Name, e.Method, e.URI, e.StatusCode, e.DurationMs)
	if err != nil {
		return fmt.Errorf("recording exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_at, name, method, uri, status_code, duration_ms
		 FROM exchanges ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RequestAt, &e.Name, &e.Method, &e.URI, &e.StatusCode, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return entries, nil
}
