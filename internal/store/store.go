// Package store is the persistent key/value cache backing the history set,
// the prerequisite catalog, and the user preferences. Values are stored as
// JSON blobs in an embedded SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Scope names partition the key space. ScopePrefs holds small user
// preferences (feature toggles); ScopeCache holds the larger derived state
// (history set, prerequisite catalog).
const (
	ScopePrefs = "prefs"
	ScopeCache = "cache"
)

// schemaVersion tags every row. Opening the store runs a one-shot migration
// that drops rows written under an older version, so readers never have to
// tolerate two value formats at once.
const schemaVersion = 2

type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open initializes the SQLite database at the given path, creating the
// schema and migrating stale rows.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			scope      TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			version    INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (scope, key)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	// One-shot migration: stale-format rows are dropped, not read.
	if _, err := s.db.Exec(`DELETE FROM kv WHERE version < ?`, schemaVersion); err != nil {
		return fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return nil
}

// Get loads the value stored under (scope, key) into out. found is false on
// a cache miss; a miss is not an error.
func (s *Store) Get(scope, key string, out interface{}) (found bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	row := s.db.QueryRow(`SELECT value FROM kv WHERE scope = ? AND key = ?`, scope, key)
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s/%s: %w", scope, key, err)
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return false, fmt.Errorf("failed to decode %s/%s: %w", scope, key, err)
	}
	return true, nil
}

// Put stores v under (scope, key), replacing any existing value.
func (s *Store) Put(scope, key string, v interface{}) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", scope, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO kv (scope, key, value, version, updated_at) VALUES (?, ?, ?, ?, ?)`,
		scope, key, blob, schemaVersion, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes the value stored under (scope, key), if any.
func (s *Store) Delete(scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM kv WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
