// Package domain contains the core business entities and interfaces.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateKey identifies a single calendar day in the reference timezone.
// All "same day" comparisons go through DateKey so that sub-day timestamp
// noise and DST offsets never leak into streak or bucketing logic.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DateKeyAt truncates an instant to its calendar day in loc.
func DateKeyAt(t time.Time, loc *time.Location) DateKey {
	lt := t.In(loc)
	return DateKey{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}

// ParseDateKey parses a "2006-01-02" day string.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: %q is not a valid day", ErrInvalidDate, s)
	}
	return DateKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String formats the key as "2006-01-02".
func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
}

// IsZero reports whether the key is the zero value.
func (k DateKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0 && k.Day == 0
}

// Time returns midnight of the key's day in loc.
func (k DateKey) Time(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// utc returns midnight of the key's day in UTC. Day arithmetic is done on
// UTC midnights so a DST transition in the reference timezone cannot make a
// "day" 23 or 25 hours long.
func (k DateKey) utc() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the key n whole days later (earlier when n is negative).
func (k DateKey) AddDays(n int) DateKey {
	t := k.utc().AddDate(0, 0, n)
	return DateKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Sub returns the signed number of whole calendar days from other to k.
func (k DateKey) Sub(other DateKey) int {
	return int(k.utc().Sub(other.utc()) / (24 * time.Hour))
}

// After reports whether k is strictly after other.
func (k DateKey) After(other DateKey) bool {
	return k.Sub(other) > 0
}

// Before reports whether k is strictly before other.
func (k DateKey) Before(other DateKey) bool {
	return k.Sub(other) < 0
}

// IsFuture reports whether k is strictly after the day containing ref.
func (k DateKey) IsFuture(ref DateKey) bool {
	return k.After(ref)
}

// Weekday returns the day of week for the key.
func (k DateKey) Weekday() time.Weekday {
	return k.utc().Weekday()
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the short weekday name, one of Sun..Sat.
func (k DateKey) WeekdayLabel() string {
	return weekdayLabels[k.Weekday()]
}

// MarshalJSON encodes the key as a "2006-01-02" string.
func (k DateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a "2006-01-02" string.
func (k *DateKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDateKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MonthGrid returns the days of a 7-aligned month view: the whole month plus
// trailing days of the previous month so the first row starts on Sunday, and
// leading days of the next month so the last row ends on Saturday. Pure
// function of its inputs.
func MonthGrid(year int, month time.Month) []DateKey {
	first := DateKey{Year: year, Month: month, Day: 1}
	last := first.AddDays(daysInMonth(year, month) - 1)

	start := first.AddDays(-int(first.Weekday()))
	end := last.AddDays(int(time.Saturday - last.Weekday()))

	n := end.Sub(start) + 1
	days := make([]DateKey, 0, n)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
