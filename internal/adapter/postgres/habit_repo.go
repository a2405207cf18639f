package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habits/internal/domain"

	"github.com/google/uuid"
)

const habitColumns = `id, owner_id, title, description, category, frequency, target, unit, color, is_active,
	streak_current, streak_longest, streak_updated_at, created_at`

// FindHabits returns the owner's habits matching the filter, newest first.
func (d *DB) FindHabits(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]domain.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE owner_id=$1"
	args := []any{ownerID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category=$%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND is_active=$%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n)
	}
	query += " ORDER BY created_at DESC;"

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, h)
	}
	return out, storeErr(rows.Err())
}

// GetHabit retrieves a habit by ID, nil when absent.
func (d *DB) GetHabit(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE id=$1;", id.String())
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &h, nil
}

// CreateHabit inserts a new habit.
func (d *DB) CreateHabit(ctx context.Context, h domain.Habit) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO habits(id, owner_id, title, description, category, frequency, target, unit, color, is_active,
			streak_current, streak_longest, streak_updated_at, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		h.ID.String(), h.OwnerID, h.Title, h.Description, h.Category, string(h.Frequency), h.Target, h.Unit,
		h.Color, h.Active, h.Streak.Current, h.Streak.Longest, nullTime(h.Streak.LastUpdated), h.CreatedAt.UTC(),
	)
	return storeErr(err)
}

// UpdateHabit replaces the caller-editable fields of a habit.
func (d *DB) UpdateHabit(ctx context.Context, h domain.Habit) error {
	res, err := d.sql.ExecContext(ctx,
		`UPDATE habits SET title=$2, description=$3, category=$4, frequency=$5, target=$6, unit=$7, color=$8,
			is_active=$9 WHERE id=$1;`,
		h.ID.String(), h.Title, h.Description, h.Category, string(h.Frequency), h.Target, h.Unit, h.Color, h.Active,
	)
	if err != nil {
		return storeErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// DeleteHabit removes a habit by ID.
func (d *DB) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM habits WHERE id=$1;", id.String())
	return storeErr(err)
}

// UpdateHabitStreak persists a recomputed streak onto a habit.
func (d *DB) UpdateHabitStreak(ctx context.Context, id uuid.UUID, s domain.Streak) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE habits SET streak_current=$2, streak_longest=$3, streak_updated_at=$4 WHERE id=$1;",
		id.String(), s.Current, s.Longest, s.LastUpdated.UTC(),
	)
	if err != nil {
		return storeErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// Categories returns the distinct categories of the owner's habits.
func (d *DB) Categories(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT DISTINCT category FROM habits WHERE owner_id=$1 ORDER BY category;", ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, c)
	}
	return out, storeErr(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (domain.Habit, error) {
	var (
		h         domain.Habit
		id        string
		frequency string
		updatedAt sql.NullTime
	)
	err := row.Scan(&id, &h.OwnerID, &h.Title, &h.Description, &h.Category, &frequency, &h.Target, &h.Unit,
		&h.Color, &h.Active, &h.Streak.Current, &h.Streak.Longest, &updatedAt, &h.CreatedAt)
	if err != nil {
		return domain.Habit{}, err
	}
	if h.ID, err = uuid.Parse(id); err != nil {
		return domain.Habit{}, err
	}
	h.Frequency = domain.Frequency(frequency)
	if updatedAt.Valid {
		h.Streak.LastUpdated = updatedAt.Time
	}
	return h, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
