package app_test

import (
	"context"
	"testing"

	"habits/internal/adapter/memory"
	"habits/internal/app"
	"habits/internal/domain"

	"github.com/google/uuid"
)

func seedHabitNamed(t *testing.T, db *memory.DB, owner, title, category string, streak domain.Streak) domain.Habit {
	t.Helper()
	h := domain.Habit{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     title,
		Category:  category,
		Frequency: domain.FrequencyDaily,
		Target:    1,
		Unit:      "session",
		Color:     "#3b82f6",
		Active:    true,
		Streak:    streak,
		CreatedAt: refNow,
	}
	if err := db.CreateHabit(context.Background(), h); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	return h
}

func seedCompletion(t *testing.T, db *memory.DB, owner string, habitID uuid.UUID, day domain.DateKey) {
	t.Helper()
	_, err := db.UpsertCompletion(context.Background(), domain.CompletionRecord{
		ID:        uuid.New(),
		OwnerID:   owner,
		HabitID:   habitID,
		Day:       day,
		Completed: true,
		CreatedAt: refNow,
	})
	if err != nil {
		t.Fatalf("UpsertCompletion: %v", err)
	}
}

func TestGetStatsEmpty(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))

	snap, err := svc.GetStats(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if snap.TotalHabits != 0 || snap.CompletedToday != 0 || snap.TotalCompletions != 0 {
		t.Error("expected zero counts for empty store")
	}
	if snap.CompletionRate != 0 {
		t.Errorf("completion rate with zero habits must be 0, got %d", snap.CompletionRate)
	}
	if snap.Period != 30 {
		t.Errorf("expected default period 30, got %d", snap.Period)
	}
	if len(snap.WeeklyProgress) != 7 {
		t.Fatalf("weekly progress must always have 7 entries, got %d", len(snap.WeeklyProgress))
	}
	if len(snap.StreakStats.TopHabits) != 0 {
		t.Error("expected no top habits")
	}
}

func TestGetStatsPeriodClamp(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))
	ctx := context.Background()

	snap, err := svc.GetStats(ctx, "alice", 1000)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if snap.Period != 365 {
		t.Errorf("expected period clamped to 365, got %d", snap.Period)
	}

	snap, err = svc.GetStats(ctx, "alice", 7)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if snap.Period != 7 {
		t.Errorf("expected period 7, got %d", snap.Period)
	}
	if len(snap.WeeklyProgress) != 7 {
		t.Fatalf("weekly progress must have 7 entries for any period, got %d", len(snap.WeeklyProgress))
	}
}

func TestGetStatsCompletionRate(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))
	ctx := context.Background()
	today := refToday()

	a := seedHabitNamed(t, db, "alice", "Run", "fitness", domain.Streak{})
	b := seedHabitNamed(t, db, "alice", "Read", "learning", domain.Streak{})
	seedHabitNamed(t, db, "alice", "Meditate", "mindfulness", domain.Streak{})

	seedCompletion(t, db, "alice", a.ID, today)
	seedCompletion(t, db, "alice", b.ID, today)
	seedCompletion(t, db, "alice", a.ID, today.AddDays(-1))

	snap, err := svc.GetStats(ctx, "alice", 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if snap.TotalHabits != 3 {
		t.Errorf("expected 3 habits, got %d", snap.TotalHabits)
	}
	if snap.CompletedToday != 2 {
		t.Errorf("expected 2 completed today, got %d", snap.CompletedToday)
	}
	// round(2/3*100) = 67
	if snap.CompletionRate != 67 {
		t.Errorf("expected completion rate 67, got %d", snap.CompletionRate)
	}
	if snap.TotalCompletions != 3 {
		t.Errorf("expected 3 completions in window, got %d", snap.TotalCompletions)
	}
	// round(3/3) = 1
	if snap.AverageCompletionsPerHabit != 1 {
		t.Errorf("expected average 1, got %d", snap.AverageCompletionsPerHabit)
	}
}

func TestGetStatsStreaks(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))

	seedHabitNamed(t, db, "alice", "Run", "fitness", domain.Streak{Current: 5, Longest: 9})
	seedHabitNamed(t, db, "alice", "Read", "learning", domain.Streak{Current: 2, Longest: 14})
	seedHabitNamed(t, db, "alice", "Write", "learning", domain.Streak{Current: 5, Longest: 6})
	seedHabitNamed(t, db, "alice", "Cook", "home", domain.Streak{Current: 0, Longest: 3})
	seedHabitNamed(t, db, "alice", "Stretch", "fitness", domain.Streak{Current: 1, Longest: 2})
	seedHabitNamed(t, db, "alice", "Sleep early", "health", domain.Streak{Current: 1, Longest: 1})

	snap, err := svc.GetStats(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	// round((5+2+5+0+1+1)/6) = round(2.33) = 2
	if snap.StreakStats.AverageStreak != 2 {
		t.Errorf("expected average streak 2, got %d", snap.StreakStats.AverageStreak)
	}
	if snap.StreakStats.LongestStreak != 14 {
		t.Errorf("expected longest streak 14, got %d", snap.StreakStats.LongestStreak)
	}

	top := snap.StreakStats.TopHabits
	if len(top) != 5 {
		t.Fatalf("expected top 5, got %d", len(top))
	}
	// Current streak descending; "Run" before "Write" on the title tie.
	wantOrder := []string{"Run", "Write", "Read", "Sleep early", "Stretch"}
	for i, want := range wantOrder {
		if top[i].Title != want {
			t.Errorf("top[%d]: expected %q, got %q", i, want, top[i].Title)
		}
	}
}

func TestGetStatsStreakTieBreakByTitle(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))

	seedHabitNamed(t, db, "alice", "Zebra", "misc", domain.Streak{Current: 3, Longest: 3})
	seedHabitNamed(t, db, "alice", "Apple", "misc", domain.Streak{Current: 3, Longest: 3})

	snap, err := svc.GetStats(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	top := snap.StreakStats.TopHabits
	if len(top) != 2 || top[0].Title != "Apple" || top[1].Title != "Zebra" {
		t.Fatalf("expected title tie-break Apple,Zebra, got %+v", top)
	}
}

func TestGetStatsCategoryDistribution(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))

	seedHabitNamed(t, db, "alice", "Run", "fitness", domain.Streak{})
	seedHabitNamed(t, db, "alice", "Read", "learning", domain.Streak{})
	seedHabitNamed(t, db, "alice", "Write", "learning", domain.Streak{})

	// Inactive habits are excluded from stats.
	inactive := seedHabitNamed(t, db, "alice", "Old habit", "fitness", domain.Streak{})
	inactive.Active = false
	if err := db.UpdateHabit(context.Background(), inactive); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}

	snap, err := svc.GetStats(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	cats := snap.CategoryStats
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Category != "learning" || cats[0].Count != 2 {
		t.Errorf("expected learning=2 first, got %+v", cats[0])
	}
	if cats[1].Category != "fitness" || cats[1].Count != 1 {
		t.Errorf("expected fitness=1 second, got %+v", cats[1])
	}
}

func TestGetStatsWeeklyProgress(t *testing.T) {
	db := memory.New()
	svc := app.NewStatsService(db, db, fixedClock(refNow))
	today := refToday()

	h := seedHabitNamed(t, db, "alice", "Run", "fitness", domain.Streak{})
	start := today.AddDays(-7)
	seedCompletion(t, db, "alice", h.ID, start)
	seedCompletion(t, db, "alice", h.ID, start.AddDays(2))
	// Outside the first seven days of the window; must not appear.
	seedCompletion(t, db, "alice", h.ID, today)

	snap, err := svc.GetStats(context.Background(), "alice", 7)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	week := snap.WeeklyProgress
	if len(week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(week))
	}
	if week[0].Date != start {
		t.Errorf("week should start at %s, got %s", start, week[0].Date)
	}
	if week[0].Completions != 1 || week[2].Completions != 1 {
		t.Errorf("unexpected bucket counts: %+v", week)
	}
	if week[1].Completions != 0 {
		t.Errorf("expected empty bucket on day 1, got %d", week[1].Completions)
	}
	if week[0].Day != start.WeekdayLabel() {
		t.Errorf("expected label %s, got %s", start.WeekdayLabel(), week[0].Day)
	}
	for _, d := range week {
		if d.IsToday {
			t.Errorf("no bucket should be today for a 7-day period, got %s", d.Date)
		}
	}
}
