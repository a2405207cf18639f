package domain

import "sort"

// CalculateStreak derives current and longest streaks from the set of days a
// habit was completed. The result depends only on the distinct days and
// today: duplicates are removed here even though the store's uniqueness
// constraint normally guarantees none exist.
//
// A run of consecutive days counts as the current streak only when it is
// anchored at today or yesterday; a habit completed yesterday but not yet
// today is still "on streak" until the day ends. The longest streak is the
// best run anywhere in history, independent of recency.
func CalculateStreak(days []DateKey, today DateKey) Streak {
	if len(days) == 0 {
		return Streak{}
	}

	seen := make(map[DateKey]struct{}, len(days))
	distinct := make([]DateKey, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		distinct = append(distinct, d)
	}

	// Most recent first.
	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].After(distinct[j])
	})

	var current, longest int
	run := 1
	for i := 1; i <= len(distinct); i++ {
		if i < len(distinct) && distinct[i-1].Sub(distinct[i]) == 1 {
			run++
			continue
		}
		// Run closed. Only the run headed by the most recent completion can
		// be current, and only when that head is today or yesterday.
		if i-run == 0 {
			if gap := today.Sub(distinct[0]); gap == 0 || gap == 1 {
				current = run
			}
		}
		if run > longest {
			longest = run
		}
		run = 1
	}

	return Streak{Current: current, Longest: longest}
}
