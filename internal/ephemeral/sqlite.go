package ephemeral

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SessionStorage implements Storage on an in-memory SQLite database.
// An in-memory database dies with the process, which is exactly the
// guest-mode persistence contract: one session, then gone.
type SessionStorage struct {
	db *sqlx.DB
}

// NewSessionStorage opens a fresh in-memory SQLite database and applies
// the schema migrations.
func NewSessionStorage() (*SessionStorage, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own database,
	// so pin the pool to a single connection.
	db.SetMaxOpenConns(1)

	s := &SessionStorage{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database, dropping all session state.
func (s *SessionStorage) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SessionStorage) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Get retrieves the value stored under key. ok is false when the slot
// has never been written.
func (s *SessionStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM slots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value under key, replacing any previous value.
func (s *SessionStorage) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot under key. Deleting an absent slot is not an
// error.
func (s *SessionStorage) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	return nil
}
