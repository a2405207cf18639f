// Package postgres implements the record store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"habits/internal/domain"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Ensure interfaces are met.
var _ domain.HabitRepository = (*DB)(nil)
var _ domain.CompletionRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

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
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			streak_current INTEGER NOT NULL DEFAULT 0,
			streak_longest INTEGER NOT NULL DEFAULT 0,
			streak_updated_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_owner_created_at ON habits(owner_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_owner_category ON habits(owner_id, category);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_owner_active ON habits(owner_id, is_active);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			habit_id TEXT NOT NULL REFERENCES habits(id),
			day TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT TRUE,
			notes TEXT NOT NULL DEFAULT '',
			mood TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
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

// storeErr wraps persistence failures as the store-unavailable kind so the
// caller can distinguish them from domain errors. sql.ErrNoRows never
// reaches here; repos convert it to nil results first.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
