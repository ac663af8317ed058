// Package progress derives read-only metrics from a habit's completion
// history: streaks, completion percentage, and a month-by-month calendar.
// Every function here is pure; none of them mutate the history they read.
package progress

import "github.com/papapumpkin/habitflow/internal/habit"

// CurrentStreak counts consecutive marked days ending at ref, walking
// backward one day at a time. It is 0 when ref itself is not marked.
func CurrentStreak(h habit.History, ref habit.Date) int {
	n := 0
	for d := ref; h.Has(d); d = d.AddDays(-1) {
		n++
	}
	return n
}

// LongestStreak returns the length of the longest run of calendar-day
// contiguous dates in h. Two dates belong to the same run only when every
// day between them is also marked.
func LongestStreak(h habit.History) int {
	longest := 0
	for d := range h {
		// Only count from the first day of a run.
		if h.Has(d.AddDays(-1)) {
			continue
		}
		n := 1
		for next := d.AddDays(1); h.Has(next); next = next.AddDays(1) {
			n++
		}
		longest = max(longest, n)
	}
	return longest
}
