package app

import (
	"context"
	"math"
	"sort"

	"habits/internal/domain"

	"github.com/google/uuid"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 365
)

// StatsSnapshot is the derived analytics view over a completion window. It
// is computed on demand and never persisted.
type StatsSnapshot struct {
	TotalHabits                int            `json:"totalHabits"`
	CompletedToday             int            `json:"completedToday"`
	CompletionRate             int            `json:"completionRate"`
	TotalCompletions           int            `json:"totalCompletions"`
	AverageCompletionsPerHabit int            `json:"averageCompletionsPerHabit"`
	Period                     int            `json:"period"`
	StreakStats                StreakStats    `json:"streakStats"`
	CategoryStats              []CategoryStat `json:"categoryStats"`
	WeeklyProgress             []WeekDay      `json:"weeklyProgress"`
}

// StreakStats summarizes streaks across all of an owner's habits.
type StreakStats struct {
	AverageStreak int        `json:"averageStreak"`
	LongestStreak int        `json:"longestStreak"`
	TopHabits     []TopHabit `json:"topHabits"`
}

// TopHabit is one entry of the top-5 ranking by current streak.
type TopHabit struct {
	HabitID       uuid.UUID `json:"habitId"`
	Title         string    `json:"title"`
	CurrentStreak int       `json:"currentStreak"`
	LongestStreak int       `json:"longestStreak"`
}

// CategoryStat is the habit count for one category.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// WeekDay is one of the seven single-day buckets of the weekly progress view.
type WeekDay struct {
	Day         string         `json:"day"`
	Date        domain.DateKey `json:"date"`
	Completions int            `json:"completions"`
	IsToday     bool           `json:"isToday"`
}

// StatsService computes aggregate statistics over a completion window. All
// of its reads are side-effect free and safe to retry.
type StatsService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	now         Clock
}

// NewStatsService creates a StatsService backed by the given repositories.
func NewStatsService(hr domain.HabitRepository, cr domain.CompletionRepository, now Clock) *StatsService {
	return &StatsService{habits: hr, completions: cr, now: now}
}

// GetStats returns the owner's StatsSnapshot for the trailing period days.
// Period defaults to 30 and is clamped to [1, 365]. Empty data produces
// zero-valued results, never an error.
func (s *StatsService) GetStats(ctx context.Context, ownerID string, period int) (*StatsSnapshot, error) {
	if period <= 0 {
		period = defaultPeriodDays
	}
	if period > maxPeriodDays {
		period = maxPeriodDays
	}

	t := s.now()
	today := domain.DateKeyAt(t, t.Location())
	start := today.AddDays(-period)

	active := true
	habits, err := s.habits.FindHabits(ctx, ownerID, domain.HabitFilter{Active: &active})
	if err != nil {
		return nil, err
	}

	recs, err := s.completions.FindCompletions(ctx, ownerID, domain.CompletionFilter{
		Range: domain.DateRange{Start: start, End: today},
	})
	if err != nil {
		return nil, err
	}

	completedToday := 0
	for _, r := range recs {
		if r.Day == today {
			completedToday++
		}
	}

	snap := &StatsSnapshot{
		TotalHabits:      len(habits),
		CompletedToday:   completedToday,
		TotalCompletions: len(recs),
		Period:           period,
		StreakStats:      streakStats(habits),
		CategoryStats:    categoryStats(habits),
		WeeklyProgress:   weeklyProgress(recs, start, today),
	}
	if len(habits) > 0 {
		snap.CompletionRate = roundInt(float64(completedToday) / float64(len(habits)) * 100)
		snap.AverageCompletionsPerHabit = roundInt(float64(len(recs)) / float64(len(habits)))
	}
	return snap, nil
}

// streakStats summarizes the habits' cached streaks: average current streak,
// global longest, and the top five by current streak with title as the
// stable tie-break.
func streakStats(habits []domain.Habit) StreakStats {
	stats := StreakStats{TopHabits: []TopHabit{}}
	if len(habits) == 0 {
		return stats
	}

	ranked := make([]TopHabit, 0, len(habits))
	sum := 0
	for _, h := range habits {
		sum += h.Streak.Current
		if h.Streak.Longest > stats.LongestStreak {
			stats.LongestStreak = h.Streak.Longest
		}
		ranked = append(ranked, TopHabit{
			HabitID:       h.ID,
			Title:         h.Title,
			CurrentStreak: h.Streak.Current,
			LongestStreak: h.Streak.Longest,
		})
	}
	stats.AverageStreak = roundInt(float64(sum) / float64(len(habits)))

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CurrentStreak != ranked[j].CurrentStreak {
			return ranked[i].CurrentStreak > ranked[j].CurrentStreak
		}
		return ranked[i].Title < ranked[j].Title
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	stats.TopHabits = ranked
	return stats
}

// categoryStats counts habits per category, descending by count with
// first-seen order breaking ties.
func categoryStats(habits []domain.Habit) []CategoryStat {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, h := range habits {
		if _, seen := counts[h.Category]; !seen {
			order = append(order, h.Category)
		}
		counts[h.Category]++
	}

	out := make([]CategoryStat, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryStat{Category: c, Count: counts[c]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// weeklyProgress buckets completions into the seven days starting at start.
// Always exactly seven entries, whatever the requested period.
func weeklyProgress(recs []domain.CompletionRecord, start, today domain.DateKey) []WeekDay {
	perDay := make(map[domain.DateKey]int, len(recs))
	for _, r := range recs {
		perDay[r.Day]++
	}

	out := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		out = append(out, WeekDay{
			Day:         d.WeekdayLabel(),
			Date:        d,
			Completions: perDay[d],
			IsToday:     d == today,
		})
	}
	return out
}

// roundInt rounds half away from zero; all inputs here are non-negative so
// this matches round-half-up.
func roundInt(v float64) int {
	return int(math.Round(v))
}
