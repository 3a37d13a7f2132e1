// Package session persists the authenticated user's bearer token.
//
// The store is the terminal-app analog of browser localStorage: a single
// well-known key in a small SQLite database that survives restarts. Presence
// of a non-empty token is the sole authentication predicate; no expiry is
// checked client-side (the backend rejects stale bearers).
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// tokenKey is the well-known key the bearer token is stored under.
const tokenKey = "access_token"

// Store wraps the persisted session state.
type Store struct {
	db *sql.DB
}

// Open creates a session store backed by the SQLite database at path,
// creating the file and schema as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_txlock=immediate&_timeout=5000", path)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// NewInMemory creates a session store backed by an in-memory database,
// for tests.
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory session store: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	pragmas := []struct {
		name   string
		pragma string
	}{
		// WAL mode for power-loss resilience
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"synchronous", "PRAGMA synchronous=NORMAL"},
		{"busy_timeout", "PRAGMA busy_timeout=5000"},
		// The token is a credential; scrub freed pages
		{"secure_delete", "PRAGMA secure_delete=ON"},
	}

	for _, p := range pragmas {
		if _, err := s.db.Exec(p.pragma); err != nil {
			return fmt.Errorf("setting %s: %w", p.name, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS session (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating session schema: %w", err)
	}

	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetToken persists the bearer token, overwriting any existing value.
func (s *Store) SetToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO session (key, value, updated_at)
		 VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		tokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// Token returns the persisted bearer token, or "" if none is stored.
// No network I/O is performed.
func (s *Store) Token() string {
	var token string
	err := s.db.QueryRow(
		"SELECT value FROM session WHERE key = ?", tokenKey,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		return ""
	}
	return token
}

// RemoveToken clears the persisted token.
func (s *Store) RemoveToken() error {
	_, err := s.db.Exec("DELETE FROM session WHERE key = ?", tokenKey)
	if err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}
