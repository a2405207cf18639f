package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"habits/internal/domain"

	"github.com/google/uuid"
)

const completionColumns = "id, owner_id, habit_id, day, completed, notes, mood, created_at"

// FindCompletions returns the owner's completion records matching the
// filter, most recent day first.
func (d *DB) FindCompletions(ctx context.Context, ownerID string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error) {
	query := "SELECT " + completionColumns + " FROM completions WHERE owner_id=?"
	args := []any{ownerID}

	if filter.HabitID != nil {
		query += " AND habit_id=?"
		args = append(args, filter.HabitID.String())
	}
	if !filter.Range.Start.IsZero() {
		query += " AND day >= ?"
		args = append(args, filter.Range.Start.String())
	}
	if !filter.Range.End.IsZero() {
		query += " AND day <= ?"
		args = append(args, filter.Range.End.String())
	}
	query += " ORDER BY day DESC;"

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.CompletionRecord, 0)
	for rows.Next() {
		rec, err := scanCompletion(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, rec)
	}
	return out, storeErr(rows.Err())
}

// GetCompletion retrieves the record for (owner, habit, day), nil when
// absent.
func (d *DB) GetCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) (*domain.CompletionRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+completionColumns+" FROM completions WHERE owner_id=? AND habit_id=? AND day=?;",
		ownerID, habitID.String(), day.String())
	rec, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &rec, nil
}

// UpsertCompletion inserts the record; on a (owner, habit, day) conflict the
// existing row keeps its identity and gets the new completed/notes/mood
// values.
func (d *DB) UpsertCompletion(ctx context.Context, rec domain.CompletionRecord) (domain.CompletionRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`INSERT INTO completions(id, owner_id, habit_id, day, completed, notes, mood, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, habit_id, day)
		DO UPDATE SET completed=excluded.completed, notes=excluded.notes, mood=excluded.mood
		RETURNING `+completionColumns+";",
		rec.ID.String(), rec.OwnerID, rec.HabitID.String(), rec.Day.String(), rec.Completed,
		rec.Notes, string(rec.Mood), rec.CreatedAt.UTC(),
	)
	stored, err := scanCompletion(row)
	if err != nil {
		return domain.CompletionRecord{}, storeErr(err)
	}
	return stored, nil
}

// DeleteCompletion removes the record for (owner, habit, day).
func (d *DB) DeleteCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) error {
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM completions WHERE owner_id=? AND habit_id=? AND day=?;",
		ownerID, habitID.String(), day.String())
	return storeErr(err)
}

// DeleteCompletionsForHabit removes every record referencing the habit.
func (d *DB) DeleteCompletionsForHabit(ctx context.Context, habitID uuid.UUID) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM completions WHERE habit_id=?;", habitID.String())
	return storeErr(err)
}

func scanCompletion(row rowScanner) (domain.CompletionRecord, error) {
	var (
		rec     domain.CompletionRecord
		id      string
		habitID string
		day     string
		mood    string
	)
	err := row.Scan(&id, &rec.OwnerID, &habitID, &day, &rec.Completed, &rec.Notes, &mood, &rec.CreatedAt)
	if err != nil {
		return domain.CompletionRecord{}, err
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return domain.CompletionRecord{}, err
	}
	if rec.HabitID, err = uuid.Parse(habitID); err != nil {
		return domain.CompletionRecord{}, err
	}
	if rec.Day, err = domain.ParseDateKey(day); err != nil {
		return domain.CompletionRecord{}, err
	}
	rec.Mood = domain.Mood(mood)
	return rec, nil
}
