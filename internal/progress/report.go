package progress

import "github.com/papapumpkin/habitflow/internal/habit"

// Report is the read-only progress summary for one habit.
type Report struct {
	Name                 string
	Description          string
	Created              habit.Date
	CurrentStreak        int
	LongestStreak        int
	CompletionPercentage float64
	Calendar             []MonthGrid
}

// Build composes all metrics over a single record snapshot as of today.
func Build(rec habit.Record, today habit.Date) Report {
	h := rec.History()
	return Report{
		Name:                 rec.Name,
		Description:          rec.Description,
		Created:              rec.Created,
		CurrentStreak:        CurrentStreak(h, today),
		LongestStreak:        LongestStreak(h),
		CompletionPercentage: CompletionPercentage(rec, today),
		Calendar:             RenderCalendar(h, today),
	}
}
