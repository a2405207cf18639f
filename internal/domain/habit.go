package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a habit is meant to be performed.
type Frequency string

// Supported frequency classes.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a known frequency class.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Streak is the derived consecutive-day state cached on a habit. It is fully
// recomputed from completion history on every mutation, never incrementally
// updated.
type Streak struct {
	Current     int       `json:"current"`
	Longest     int       `json:"longest"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Habit represents a recurring practice tracked by one owner.
type Habit struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Frequency   Frequency `json:"frequency"`
	Target      int       `json:"target"`
	Unit        string    `json:"unit"`
	Color       string    `json:"color"`
	Active      bool      `json:"isActive"`
	Streak      Streak    `json:"streak"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HabitFilter narrows FindHabits results. Zero values mean "no filter".
type HabitFilter struct {
	Category string
	// Active filters on the active flag when non-nil.
	Active *bool
	// Search matches a case-insensitive substring of title, description or
	// category.
	Search string
}

// HabitRepository is the port for habit persistence.
type HabitRepository interface {
	FindHabits(ctx context.Context, ownerID string, filter HabitFilter) ([]Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	CreateHabit(ctx context.Context, h Habit) error
	UpdateHabit(ctx context.Context, h Habit) error
	DeleteHabit(ctx context.Context, id uuid.UUID) error
	UpdateHabitStreak(ctx context.Context, id uuid.UUID, s Streak) error
	Categories(ctx context.Context, ownerID string) ([]string, error)
}
