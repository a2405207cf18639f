// Package sqlite implements the record store on SQLite for single-binary
// deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"habits/internal/domain"

	_ "modernc.org/sqlite"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Ensure interfaces are met.
var _ domain.HabitRepository = (*DB)(nil)
var _ domain.CompletionRepository = (*DB)(nil)

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The driver serializes writes; a single connection avoids SQLITE_BUSY
	// under concurrent mutations.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			frequency TEXT NOT NULL CHECK(frequency IN ('daily','weekly','monthly')),
			target INTEGER NOT NULL CHECK(target >= 1),
			unit TEXT NOT NULL,
			color TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			streak_current INTEGER NOT NULL DEFAULT 0,
			streak_longest INTEGER NOT NULL DEFAULT 0,
			streak_updated_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_owner_created_at ON habits(owner_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_owner_category ON habits(owner_id, category);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			habit_id TEXT NOT NULL REFERENCES habits(id),
			day TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 1,
			notes TEXT NOT NULL DEFAULT '',
			mood TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			UNIQUE(owner_id, habit_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_owner_day ON completions(owner_id, day DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_day ON completions(habit_id, day DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
