package progress

import (
	"time"

	"github.com/papapumpkin/habitflow/internal/habit"
)

// Cell is one day slot in a MonthGrid. Day is 0 for padding cells that lie
// outside the month.
type Cell struct {
	Day    int
	Marked bool
}

// Empty reports whether the cell is padding outside the month.
func (c Cell) Empty() bool {
	return c.Day == 0
}

// Week is one calendar row, Monday first.
type Week [7]Cell

// MonthGrid is a week-row layout of one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks []Week
}

// Title returns the month heading, e.g. "October 2026".
func (g MonthGrid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// MarkedDays returns the number of marked cells in the grid.
func (g MonthGrid) MarkedDays() int {
	n := 0
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Marked {
				n++
			}
		}
	}
	return n
}

// RenderCalendar lays out every month from the month of the earliest marked
// date through today's month, in chronological order. An empty history, or
// one whose earliest date falls after today's month, yields today's month
// only. The range does not depend on the habit's creation date, so none is
// taken.
func RenderCalendar(h habit.History, today habit.Date) []MonthGrid {
	end := today.FirstOfMonth()
	start := end
	if first, ok := h.Earliest(); ok && first.Before(end) {
		start = first.FirstOfMonth()
	}

	var grids []MonthGrid
	for m := start; !m.After(end); m = m.NextMonth() {
		grids = append(grids, layoutMonth(h, m))
	}
	return grids
}

// layoutMonth builds the grid for the month starting at first.
func layoutMonth(h habit.History, first habit.Date) MonthGrid {
	g := MonthGrid{Year: first.Year, Month: first.Month}

	// Monday is column 0.
	col := (int(first.Weekday()) + 6) % 7
	var week Week
	for day := 1; day <= first.DaysInMonth(); day++ {
		d := habit.NewDate(first.Year, first.Month, day)
		week[col] = Cell{Day: day, Marked: h.Has(d)}
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}
