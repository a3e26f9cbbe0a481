package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// kvSchema is the single key/value table backing the adapter on native
// platforms. Values are the adapter's JSON payloads.
const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteBackend stores values in a SQLite key/value table.
// Thread-safe for concurrent access.
type SQLiteBackend struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteBackend creates an in-memory SQLite backend.
func NewSQLiteBackend() (*SQLiteBackend, error) {
	return NewSQLiteBackendWithDSN(":memory:")
}

// NewSQLiteBackendWithDSN creates a backend with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteBackendWithDSN(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", ErrUnavailable)
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", ErrUnavailable)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value at key.
func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapSQLiteErr("get", key, err)
	}
	return value, true, nil
}

// Set writes value under key, overwriting any prior value.
func (s *SQLiteBackend) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return mapSQLiteErr("set", key, err)
	}
	return nil
}

// Remove deletes the value at key.
func (s *SQLiteBackend) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return mapSQLiteErr("remove", key, err)
	}
	return nil
}

// mapSQLiteErr folds SQLite error codes into the adapter's two failure
// kinds: a full database is a quota failure, everything else unavailable.
func mapSQLiteErr(op, key string, err error) error {
	var serr *sqlite3.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.FULL {
		return fmt.Errorf("%s %s: %w", op, key, ErrQuotaExceeded)
	}
	return fmt.Errorf("%s %s: %v: %w", op, key, err, ErrUnavailable)
}
