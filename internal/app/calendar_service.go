package app

import (
	"context"
	"fmt"
	"time"

	"habits/internal/domain"

	"github.com/google/uuid"
)

// MonthDay is one cell of a month-view calendar.
type MonthDay struct {
	Date        domain.DateKey `json:"date"`
	Day         string         `json:"day"`
	InMonth     bool           `json:"inMonth"`
	IsToday     bool           `json:"isToday"`
	Completions int            `json:"completions"`
}

// CalendarService produces month-view calendar data.
type CalendarService struct {
	completions domain.CompletionRepository
	now         Clock
}

// NewCalendarService creates a CalendarService backed by the given repository.
func NewCalendarService(cr domain.CompletionRepository, now Clock) *CalendarService {
	return &CalendarService{completions: cr, now: now}
}

// MonthGrid returns the 7-aligned grid for a month with per-day completion
// counts for the owner, optionally scoped to a single habit.
func (s *CalendarService) MonthGrid(ctx context.Context, ownerID string, habitID *uuid.UUID, year int, month time.Month) ([]MonthDay, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", domain.ErrInvalidDate, month)
	}

	grid := domain.MonthGrid(year, month)
	recs, err := s.completions.FindCompletions(ctx, ownerID, domain.CompletionFilter{
		HabitID: habitID,
		Range:   domain.DateRange{Start: grid[0], End: grid[len(grid)-1]},
	})
	if err != nil {
		return nil, err
	}

	perDay := make(map[domain.DateKey]int, len(recs))
	for _, r := range recs {
		perDay[r.Day]++
	}

	t := s.now()
	today := domain.DateKeyAt(t, t.Location())

	out := make([]MonthDay, 0, len(grid))
	for _, d := range grid {
		out = append(out, MonthDay{
			Date:        d,
			Day:         d.WeekdayLabel(),
			InMonth:     d.Month == month && d.Year == year,
			IsToday:     d == today,
			Completions: perDay[d],
		})
	}
	return out, nil
}
