package app

import (
	"context"
	"fmt"
	"sync"

	"habits/internal/domain"

	"github.com/google/uuid"
)

// LedgerService mediates completion-record mutations. It enforces the
// one-record-per-(habit, day) contract via the store's upsert and recomputes
// the habit's cached streak from full history after every mutation
// (recompute-on-write; never incremental).
type LedgerService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	now         Clock

	// Mutations for the same habit serialize so concurrent mark/remove
	// calls cannot race the streak recomputation into a lost update.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewLedgerService creates a LedgerService backed by the given repositories.
func NewLedgerService(hr domain.HabitRepository, cr domain.CompletionRepository, now Clock) *LedgerService {
	return &LedgerService{
		habits:      hr,
		completions: cr,
		now:         now,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *LedgerService) today() domain.DateKey {
	t := s.now()
	return domain.DateKeyAt(t, t.Location())
}

func (s *LedgerService) habitLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// MarkCompleted records a completion for an owned habit on the given day.
// A zero day means today. If a record already exists for (habit, day) it is
// updated in place; notes and mood overwrite stored values only when
// provided. Future days are rejected before any state changes.
func (s *LedgerService) MarkCompleted(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey, notes *string, mood *domain.Mood) (*domain.CompletionRecord, error) {
	if _, err := s.ownedHabit(ctx, ownerID, habitID); err != nil {
		return nil, err
	}

	today := s.today()
	if day.IsZero() {
		day = today
	}
	if day.IsFuture(today) {
		return nil, fmt.Errorf("%w: cannot mark progress for future day %s", domain.ErrInvalidDate, day)
	}
	if mood != nil && !mood.Valid() {
		return nil, fmt.Errorf("%w: unknown mood %q", domain.ErrValidation, *mood)
	}

	l := s.habitLock(habitID)
	l.Lock()
	defer l.Unlock()

	rec := domain.CompletionRecord{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		HabitID:   habitID,
		Day:       day,
		Completed: true,
		CreatedAt: s.now(),
	}
	existing, err := s.completions.GetCompletion(ctx, ownerID, habitID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.Notes = existing.Notes
		rec.Mood = existing.Mood
		rec.CreatedAt = existing.CreatedAt
	}
	if notes != nil {
		rec.Notes = *notes
	}
	if mood != nil {
		rec.Mood = *mood
	}

	stored, err := s.completions.UpsertCompletion(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeStreak(ctx, ownerID, habitID); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListCompletions returns the owner's completion records matching the
// filter, most recent first.
func (s *LedgerService) ListCompletions(ctx context.Context, ownerID string, filter domain.CompletionFilter) ([]domain.CompletionRecord, error) {
	return s.completions.FindCompletions(ctx, ownerID, filter)
}

// RemoveCompletion deletes the completion record for (habit, day) and
// refreshes the habit's streak.
func (s *LedgerService) RemoveCompletion(ctx context.Context, ownerID string, habitID uuid.UUID, day domain.DateKey) error {
	if _, err := s.ownedHabit(ctx, ownerID, habitID); err != nil {
		return err
	}

	l := s.habitLock(habitID)
	l.Lock()
	defer l.Unlock()

	existing, err := s.completions.GetCompletion(ctx, ownerID, habitID, day)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrRecordNotFound
	}
	if err := s.completions.DeleteCompletion(ctx, ownerID, habitID, day); err != nil {
		return err
	}
	return s.recomputeStreak(ctx, ownerID, habitID)
}

// DeleteHabit removes an owned habit and cascades deletion of all its
// completion records so no orphans remain.
func (s *LedgerService) DeleteHabit(ctx context.Context, ownerID string, habitID uuid.UUID) error {
	if _, err := s.ownedHabit(ctx, ownerID, habitID); err != nil {
		return err
	}

	l := s.habitLock(habitID)
	l.Lock()
	defer l.Unlock()

	// Records go first: a crash between the two deletes must not leave
	// completions referencing a missing habit.
	if err := s.completions.DeleteCompletionsForHabit(ctx, habitID); err != nil {
		return err
	}
	return s.habits.DeleteHabit(ctx, habitID)
}

// recomputeStreak re-derives the cached streak from the habit's full
// completion history and persists it.
func (s *LedgerService) recomputeStreak(ctx context.Context, ownerID string, habitID uuid.UUID) error {
	recs, err := s.completions.FindCompletions(ctx, ownerID, domain.CompletionFilter{HabitID: &habitID})
	if err != nil {
		return err
	}

	days := make([]domain.DateKey, 0, len(recs))
	for _, r := range recs {
		if r.Completed {
			days = append(days, r.Day)
		}
	}

	streak := domain.CalculateStreak(days, s.today())
	streak.LastUpdated = s.now()
	return s.habits.UpdateHabitStreak(ctx, habitID, streak)
}

func (s *LedgerService) ownedHabit(ctx context.Context, ownerID string, habitID uuid.UUID) (*domain.Habit, error) {
	h, err := s.habits.GetHabit(ctx, habitID)
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
