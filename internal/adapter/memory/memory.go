// Package memory implements an in-memory record store for development and
// testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"habits/internal/domain"

	"github.com/google/uuid"
)

// DB implements an in-memory record store.
type DB struct {
	mu          sync.Mutex
	habits      []domain.Habit
	completions []domain.CompletionRecord
}

// New creates a new in-memory record store.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.HabitRepository = (*DB)(nil)
var _ domain.CompletionRepository = (*DB)(nil)

// --- HabitRepository ---

// FindHabits returns the owner's habits matching the filter, newest first.
func (db *DB) FindHabits(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Habit, 0, len(db.habits))
	for _, h := range db.habits {
		if h.OwnerID != ownerID {
			continue
		}
		if filter.Category != "" && h.Category != filter.Category {
			continue
		}
		if filter.Active != nil && h.Active != *filter.Active {
			continue
		}
		if filter.Search != "" && !matchesSearch(h, filter.Search) {
			continue
		}
		result = append(result, h)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesSearch(h domain.Habit, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(h.Title), s) ||
		strings.Contains(strings.ToLower(h.Description), s) ||
		strings.Contains(strings.ToLower(h.Category), s)
}

// GetHabit retrieves a habit by ID, nil when absent.
func (db *DB) GetHabit(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		if db.habits[i].ID == id {
			h := db.habits[i]
			return &h, nil
		}
	}
	return nil, nil
}

// CreateHabit stores a new habit.
func (db *DB) CreateHabit(ctx context.Context, h domain.Habit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.habits = append(db.habits, h)
	return nil
}

// UpdateHabit replaces a stored habit.
func (db *DB) UpdateHabit(ctx context.Context, h domain.Habit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		if db.habits[i].ID == h.ID {
			db.habits[i] = h
			return nil
		}
	}
	return domain.ErrHabitNotFound
}

// DeleteHabit removes a habit by ID.
func (db *DB) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		if db.habits[i].ID == id {
			db.habits = append(db.habits[:i], db.habits[i+1:]...)
			return nil
		}
	}
	return nil
}

// UpdateHabitStreak persists a recomputed streak onto a habit.
func (db *DB) UpdateHabitStreak(ctx context.Context, id uuid.UUID, s domain.Streak) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		if db.habits[i].ID == id {
			db.habits[i].Streak = s
			return nil
		}
	}
	return domain.ErrHabitNotFound
}

// Categories returns the distinct categories of the owner's habits, sorted.
func (db *DB) Categories(ctx context.Context, ownerID string) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, h := range db.habits {
		if h.OwnerID != ownerID {
			continue
		}
		if _, ok := seen[h.Category]; ok {
			continue
		}
		seen[h.Category] = struct{}{}
		out = append(out, h.Category)
	}
	sort.Strings(out)
	return out, nil
}

// --- CompletionRepository ---

// FindCompletions returns the owner's completion records matching the
// filter, most recent day first.
func (db *DB) FindCompletions(ctx context.Context, ownerID string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.CompletionRecord, 0)
	for _, r := range db.completions {
		if r.OwnerID != ownerID {
			continue
		}
		if filter.HabitID != nil && r.HabitID != *filter.HabitID {
			continue
		}
		if !filter.Range.Contains(r.Day) {
			continue
		}
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.After(result[j].Day)
	})
	return result, nil
}

// GetCompletion retrieves the record for (owner, habit, day), nil when
// absent.
func (db *DB) GetCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) (*domain.CompletionRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.indexOf(ownerID, habitID, day); i >= 0 {
		r := db.completions[i]
		return &r, nil
	}
	return nil, nil
}

// UpsertCompletion inserts the record, or replaces the existing row for the
// same (owner, habit, day) keeping its identity.
func (db *DB) UpsertCompletion(ctx context.Context, rec domain.CompletionRecord) (domain.CompletionRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.indexOf(rec.OwnerID, rec.HabitID, rec.Day); i >= 0 {
		rec.ID = db.completions[i].ID
		rec.CreatedAt = db.completions[i].CreatedAt
		db.completions[i] = rec
		return rec, nil
	}
	db.completions = append(db.completions, rec)
	return rec, nil
}

// DeleteCompletion removes the record for (owner, habit, day).
func (db *DB) DeleteCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.indexOf(ownerID, habitID, day); i >= 0 {
		db.completions = append(db.completions[:i], db.completions[i+1:]...)
	}
	return nil
}

// DeleteCompletionsForHabit removes every record referencing the habit.
func (db *DB) DeleteCompletionsForHabit(ctx context.Context, habitID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := make([]domain.CompletionRecord, 0, len(db.completions))
	for _, r := range db.completions {
		if r.HabitID != habitID {
			kept = append(kept, r)
		}
	}
	db.completions = kept
	return nil
}

func (db *DB) indexOf(ownerID string, habitID uuid.UUID, day domain.DateKey) int {
	for i, r := range db.completions {
		if r.OwnerID == ownerID && r.HabitID == habitID && r.Day == day {
			return i
		}
	}
	return -1
}
