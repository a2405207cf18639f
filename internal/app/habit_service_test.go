package app_test

import (
	"context"
	"errors"
	"testing"

	"habits/internal/app"
	"habits/internal/domain"

	"github.com/google/uuid"
)

type mockHabitRepo struct {
	findFn         func(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]domain.Habit, error)
	getFn          func(ctx context.Context, id uuid.UUID) (*domain.Habit, error)
	createFn       func(ctx context.Context, h domain.Habit) error
	updateFn       func(ctx context.Context, h domain.Habit) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	updateStreakFn func(ctx context.Context, id uuid.UUID, s domain.Streak) error
	categoriesFn   func(ctx context.Context, ownerID string) ([]string, error)
}

func (m *mockHabitRepo) FindHabits(ctx context.Context, ownerID string, filter domain.HabitFilter) ([]domain.Habit, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ownerID, filter)
	}
	return nil, nil
}

func (m *mockHabitRepo) GetHabit(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockHabitRepo) CreateHabit(ctx context.Context, h domain.Habit) error {
	if m.createFn != nil {
		return m.createFn(ctx, h)
	}
	return nil
}

func (m *mockHabitRepo) UpdateHabit(ctx context.Context, h domain.Habit) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, h)
	}
	return nil
}

func (m *mockHabitRepo) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockHabitRepo) UpdateHabitStreak(ctx context.Context, id uuid.UUID, s domain.Streak) error {
	if m.updateStreakFn != nil {
		return m.updateStreakFn(ctx, id, s)
	}
	return nil
}

func (m *mockHabitRepo) Categories(ctx context.Context, ownerID string) ([]string, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx, ownerID)
	}
	return nil, nil
}

type mockCompletionRepo struct {
	findFn func(ctx context.Context, ownerID string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error)
}

func (m *mockCompletionRepo) FindCompletions(ctx context.Context, ownerID string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ownerID, filter)
	}
	return nil, nil
}

func (m *mockCompletionRepo) GetCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) (*domain.CompletionRecord, error) {
	return nil, nil
}

func (m *mockCompletionRepo) UpsertCompletion(ctx context.Context, rec domain.CompletionRecord) (domain.CompletionRecord, error) {
	return rec, nil
}

func (m *mockCompletionRepo) DeleteCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) error {
	return nil
}

func (m *mockCompletionRepo) DeleteCompletionsForHabit(ctx context.Context, habitID uuid.UUID) error {
	return nil
}

func TestCreateHabitValidation(t *testing.T) {
	svc := app.NewHabitService(&mockHabitRepo{}, &mockCompletionRepo{}, fixedClock(refNow))

	tests := []struct {
		name string
		in   app.HabitInput
	}{
		{"empty title", app.HabitInput{Title: "  ", Category: "fitness", Target: 1, Unit: "session"}},
		{"missing category", app.HabitInput{Title: "Run", Target: 1, Unit: "session"}},
		{"missing unit", app.HabitInput{Title: "Run", Category: "fitness", Target: 1}},
		{"zero target", app.HabitInput{Title: "Run", Category: "fitness", Target: 0, Unit: "session"}},
		{"negative target", app.HabitInput{Title: "Run", Category: "fitness", Target: -2, Unit: "session"}},
		{"bad frequency", app.HabitInput{Title: "Run", Category: "fitness", Target: 1, Unit: "session", Frequency: "hourly"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "alice", tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateHabitDefaults(t *testing.T) {
	var created domain.Habit
	repo := &mockHabitRepo{
		createFn: func(_ context.Context, h domain.Habit) error {
			created = h
			return nil
		},
	}
	svc := app.NewHabitService(repo, &mockCompletionRepo{}, fixedClock(refNow))

	h, err := svc.Create(context.Background(), "alice", app.HabitInput{
		Title:    "  Morning run ",
		Category: "fitness",
		Target:   1,
		Unit:     "session",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Title != "Morning run" {
		t.Errorf("expected trimmed title, got %q", h.Title)
	}
	if h.Frequency != domain.FrequencyDaily {
		t.Errorf("expected daily default, got %q", h.Frequency)
	}
	if h.Color == "" {
		t.Error("expected default color")
	}
	if !h.Active {
		t.Error("new habits start active")
	}
	if h.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %q", h.OwnerID)
	}
	if created.ID != h.ID {
		t.Error("returned habit should match the stored one")
	}
}

func TestUpdateHabitOwnership(t *testing.T) {
	id := uuid.New()
	repo := &mockHabitRepo{
		getFn: func(_ context.Context, got uuid.UUID) (*domain.Habit, error) {
			return &domain.Habit{ID: got, OwnerID: "alice", Title: "Run", Category: "fitness",
				Frequency: domain.FrequencyDaily, Target: 1, Unit: "session"}, nil
		},
	}
	svc := app.NewHabitService(repo, &mockCompletionRepo{}, fixedClock(refNow))

	_, err := svc.Update(context.Background(), "mallory", id, app.HabitInput{Title: "Hijacked"})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestUpdateHabitMissing(t *testing.T) {
	svc := app.NewHabitService(&mockHabitRepo{}, &mockCompletionRepo{}, fixedClock(refNow))

	_, err := svc.Update(context.Background(), "alice", uuid.New(), app.HabitInput{Title: "Run"})
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestUpdateHabitPartial(t *testing.T) {
	id := uuid.New()
	var updated domain.Habit
	repo := &mockHabitRepo{
		getFn: func(_ context.Context, got uuid.UUID) (*domain.Habit, error) {
			return &domain.Habit{ID: got, OwnerID: "alice", Title: "Run", Category: "fitness",
				Frequency: domain.FrequencyDaily, Target: 1, Unit: "session", Color: "#3b82f6"}, nil
		},
		updateFn: func(_ context.Context, h domain.Habit) error {
			updated = h
			return nil
		},
	}
	svc := app.NewHabitService(repo, &mockCompletionRepo{}, fixedClock(refNow))

	h, err := svc.Update(context.Background(), "alice", id, app.HabitInput{Target: 3})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if h.Target != 3 {
		t.Errorf("expected target 3, got %d", h.Target)
	}
	if h.Title != "Run" || h.Category != "fitness" {
		t.Error("unspecified fields must keep stored values")
	}
	if updated.Target != 3 {
		t.Error("update should be persisted")
	}
}

func TestListWithTodayStatus(t *testing.T) {
	done := uuid.New()
	pending := uuid.New()
	repo := &mockHabitRepo{
		findFn: func(_ context.Context, _ string, _ domain.HabitFilter) ([]domain.Habit, error) {
			return []domain.Habit{{ID: done, Title: "Run"}, {ID: pending, Title: "Read"}}, nil
		},
	}
	completions := &mockCompletionRepo{
		findFn: func(_ context.Context, _ string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error) {
			if filter.Range.Start != refToday() || filter.Range.End != refToday() {
				t.Fatalf("expected single-day window at %s, got %+v", refToday(), filter.Range)
			}
			return []domain.CompletionRecord{{HabitID: done, Day: refToday(), Completed: true}}, nil
		},
	}
	svc := app.NewHabitService(repo, completions, fixedClock(refNow))

	items, err := svc.ListWithTodayStatus(context.Background(), "alice", domain.HabitFilter{})
	if err != nil {
		t.Fatalf("ListWithTodayStatus: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].CompletedToday {
		t.Error("first habit should be completed today")
	}
	if items[1].CompletedToday {
		t.Error("second habit should not be completed today")
	}
}
