// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"habits/internal/domain"

	"github.com/google/uuid"
)

// Clock supplies the reference "now". The returned time's location is the
// reference timezone for all day-key derivation, so tests can pin both the
// instant and the zone.
type Clock func() time.Time

const defaultColor = "#3b82f6"

// HabitInput carries the caller-editable fields of a habit.
type HabitInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Frequency   domain.Frequency `json:"frequency"`
	Target      int              `json:"target"`
	Unit        string           `json:"unit"`
	Color       string           `json:"color"`
}

// HabitWithStatus pairs a habit with whether it was completed today.
type HabitWithStatus struct {
	domain.Habit
	CompletedToday bool `json:"completedToday"`
}

// HabitService encapsulates habit CRUD use cases.
type HabitService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	now         Clock
}

// NewHabitService creates a HabitService backed by the given repositories.
func NewHabitService(hr domain.HabitRepository, cr domain.CompletionRepository, now Clock) *HabitService {
	return &HabitService{habits: hr, completions: cr, now: now}
}

func (s *HabitService) today() domain.DateKey {
	t := s.now()
	return domain.DateKeyAt(t, t.Location())
}

// Create validates and stores a new habit for the owner.
func (s *HabitService) Create(ctx context.Context, ownerID string, in HabitInput) (*domain.Habit, error) {
	h := domain.Habit{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Frequency:   in.Frequency,
		Target:      in.Target,
		Unit:        strings.TrimSpace(in.Unit),
		Color:       in.Color,
		Active:      true,
		CreatedAt:   s.now(),
	}
	if h.Frequency == "" {
		h.Frequency = domain.FrequencyDaily
	}
	if h.Color == "" {
		h.Color = defaultColor
	}
	if err := validateHabit(h); err != nil {
		return nil, err
	}
	if err := s.habits.CreateHabit(ctx, h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Update applies caller edits to an owned habit. Zero-value fields keep their
// stored values.
func (s *HabitService) Update(ctx context.Context, ownerID string, id uuid.UUID, in HabitInput) (*domain.Habit, error) {
	h, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		h.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		h.Description = strings.TrimSpace(in.Description)
	}
	if in.Category != "" {
		h.Category = strings.TrimSpace(in.Category)
	}
	if in.Frequency != "" {
		h.Frequency = in.Frequency
	}
	if in.Target != 0 {
		h.Target = in.Target
	}
	if in.Unit != "" {
		h.Unit = strings.TrimSpace(in.Unit)
	}
	if in.Color != "" {
		h.Color = in.Color
	}
	if err := validateHabit(*h); err != nil {
		return nil, err
	}
	if err := s.habits.UpdateHabit(ctx, *h); err != nil {
		return nil, err
	}
	return h, nil
}

// Toggle flips the active flag on an owned habit.
func (s *HabitService) Toggle(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Habit, error) {
	h, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	h.Active = !h.Active
	if err := s.habits.UpdateHabit(ctx, *h); err != nil {
		return nil, err
	}
	return h, nil
}

// Get returns an owned habit together with its completions over the last 30
// days.
func (s *HabitService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Habit, []domain.CompletionRecord, error) {
	h, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	today := s.today()
	recs, err := s.completions.FindCompletions(ctx, ownerID, domain.CompletionFilter{
		HabitID: &id,
		Range:   domain.DateRange{Start: today.AddDays(-30), End: today},
	})
	if err != nil {
		return nil, nil, err
	}
	return h, recs, nil
}

// List returns the owner's habits matching the filter.
func (s *HabitService) List(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]domain.Habit, error) {
	return s.habits.FindHabits(ctx, ownerID, filter)
}

// ListWithTodayStatus returns the owner's habits matching the filter, each
// flagged with whether a completion record exists for today.
func (s *HabitService) ListWithTodayStatus(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]HabitWithStatus, error) {
	items, err := s.habits.FindHabits(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	today := s.today()
	recs, err := s.completions.FindCompletions(ctx, ownerID, domain.CompletionFilter{
		Range: domain.DateRange{Start: today, End: today},
	})
	if err != nil {
		return nil, err
	}

	done := make(map[uuid.UUID]bool, len(recs))
	for _, r := range recs {
		done[r.HabitID] = true
	}

	out := make([]HabitWithStatus, 0, len(items))
	for _, h := range items {
		out = append(out, HabitWithStatus{Habit: h, CompletedToday: done[h.ID]})
	}
	return out, nil
}

// Categories returns the distinct categories used by the owner's habits.
func (s *HabitService) Categories(ctx context.Context, ownerID string) ([]string, error) {
	return s.habits.Categories(ctx, ownerID)
}

func (s *HabitService) owned(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Habit, error) {
	h, err := s.habits.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrHabitNotFound
	}
	if h.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}
	return h, nil
}

func validateHabit(h domain.Habit) error {
	if h.Title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if h.Category == "" {
		return fmt.Errorf("%w: category must not be empty", domain.ErrValidation)
	}
	if h.Unit == "" {
		return fmt.Errorf("%w: unit must not be empty", domain.ErrValidation)
	}
	if h.Target < 1 {
		return fmt.Errorf("%w: target must be at least 1", domain.ErrValidation)
	}
	if !h.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", domain.ErrValidation, h.Frequency)
	}
	return nil
}
