// Package session persists the signed-in identity between runs and
// hands it to the rest of the application as an injected dependency.
// The identity lives in a small local SQLite database; an optional
// remembered credential lives in the system keyring.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/avolkov/calendar-assistant/internal/model"
)

// Store persists the current identity in a local SQLite database.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the session database at dbPath and runs
// any pending schema migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
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

// Load returns the persisted identity, or nil when signed out.
func (s *Store) Load(ctx context.Context) (*model.Identity, error) {
	var ident model.Identity
	err := s.db.GetContext(
		ctx,
		&ident,
		"SELECT user_id, login, description FROM session WHERE slot = 1",
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &ident, nil
}

// Save replaces the persisted identity.
func (s *Store) Save(ctx context.Context, ident model.Identity) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO session (slot, user_id, login, description, saved_at)
		 VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)`,
		ident.UserID, ident.Login, ident.Description,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the persisted identity.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
