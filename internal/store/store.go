// Package store persists engagement history and generation exchanges to a
// local SQLite database.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ajrudell/engagekit/internal/types"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS engagements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id TEXT NOT NULL,
		liked BOOLEAN NOT NULL,
		commented BOOLEAN NOT NULL,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,
		model TEXT,
		prompt TEXT,
		response TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_engagements_created_at ON engagements(created_at);
	CREATE INDEX IF NOT EXISTS idx_exchanges_provider ON exchanges(provider);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveOutcome appends one engagement outcome to the history.
func (s *Store) SaveOutcome(o types.Outcome) error {
	_, err := s.db.Exec(`
		INSERT INTO engagements (item_id, liked, commented, error, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, o.ItemID, o.Liked, o.Commented, o.Error, o.CreatedAt)
	return err
}

// RecentOutcomes returns the newest outcomes, most recent first.
func (s *Store) RecentOutcomes(limit int) ([]types.Outcome, error) {
	rows, err := s.db.Query(`
		SELECT item_id, liked, commented, COALESCE(error, ''), created_at
		FROM engagements
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var o types.Outcome
		if err := rows.Scan(&o.ItemID, &o.Liked, &o.Commented, &o.Error, &o.CreatedAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// RecordExchange saves a generation request/response pair. Failures are
// swallowed: losing an audit row must never fail the engagement that
// triggered it.
func (s *Store) RecordExchange(provider, model, prompt, response, errMsg string) {
	s.db.Exec(`
		INSERT INTO exchanges (provider, model, prompt, response, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, provider, model, prompt, response, errMsg, time.Now())
}
