package progress

import "github.com/papapumpkin/habitflow/internal/habit"

// CompletionPercentage returns the share of days from the record's creation
// through today (inclusive) that are marked done, as a value in percent.
// The window is at least one day, so a creation date after today still
// yields a defined result. Dates marked outside the window still count.
func CompletionPercentage(rec habit.Record, today habit.Date) float64 {
	total := max(1, today.DaysSince(rec.Created)+1)
	completed := rec.History().Len()
	return 100 * float64(completed) / float64(total)
}
