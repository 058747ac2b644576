// Package scores is the persistent leaderboard collaborator. The
// engine never depends on it directly; it only sees a submit func, so
// storage latency or failure can never gate simulation state.
package scores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one leaderboard row.
type Entry struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the two-call contract the rest of the system consumes:
// submit a score, fetch the top N.
type Store interface {
	Submit(ctx context.Context, name string, score int) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	score      INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_score ON scores (score DESC);
`

// SQLiteStore persists scores in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scores db: %w", err)
	}
	// modernc sqlite misbehaves with concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap scores schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Submit records a finished run.
func (s *SQLiteStore) Submit(ctx context.Context, name string, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (name, score, created_at) VALUES (?, ?, ?)`,
		name, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// Top returns up to n entries ordered by score descending. Ties break
// by recency so fresh runs surface first.
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, created_at FROM scores ORDER BY score DESC, created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("fetch top scores: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
