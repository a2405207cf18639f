package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Mood is how the owner felt about a completion.
type Mood string

// Supported moods.
const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodBad       Mood = "bad"
	MoodTerrible  Mood = "terrible"
)

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodOkay, MoodBad, MoodTerrible:
		return true
	}
	return false
}

// CompletionRecord marks one habit as done on one calendar day. Absence of a
// record means "not completed"; at most one record exists per
// (owner, habit, day).
type CompletionRecord struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"ownerId"`
	HabitID   uuid.UUID `json:"habitId"`
	Day       DateKey   `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	Mood      Mood      `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DateRange is an inclusive completion window. A zero Start or End leaves
// that side unbounded.
type DateRange struct {
	Start DateKey
	End   DateKey
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day DateKey) bool {
	if !r.Start.IsZero() && day.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && day.After(r.End) {
		return false
	}
	return true
}

// CompletionFilter narrows FindCompletions results.
type CompletionFilter struct {
	// HabitID scopes to a single habit when non-nil.
	HabitID *uuid.UUID
	Range   DateRange
}

// CompletionRepository is the port for completion-record persistence. The
// store enforces the one-record-per-(owner, habit, day) invariant; Upsert
// must update in place on conflict rather than duplicate.
type CompletionRepository interface {
	FindCompletions(ctx context.Context, ownerID string, filter CompletionFilter) ([]CompletionRecord, error)
	GetCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day DateKey) (*CompletionRecord, error)
	UpsertCompletion(ctx context.Context, rec CompletionRecord) (CompletionRecord, error)
	DeleteCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day DateKey) error
	DeleteCompletionsForHabit(ctx context.Context, habitID uuid.UUID) error
}
