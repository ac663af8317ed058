// Package ui is the plain-terminal display layer. A Printer writes habit
// listings, progress reports and text calendars for the CLI commands.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/habitflow/internal/ansi"
	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/progress"
	"github.com/papapumpkin/habitflow/internal/tracker"
)

// Printer writes command output. Listings and reports go to out; status
// lines go to errOut so they never mix with data a caller might pipe.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	style  ansi.Style
}

// New returns a Printer. color enables ANSI styling.
func New(out, errOut io.Writer, color bool) *Printer {
	return &Printer{out: out, errOut: errOut, style: ansi.Style{Enabled: color}}
}

func (p *Printer) HabitAdded(rec habit.Record) {
	fmt.Fprintf(p.errOut, "%s added habit %s\n", p.style.Wrap("✓", ansi.Green), p.style.Wrap(rec.Name, ansi.Bold))
}

func (p *Printer) HabitRemoved(name string) {
	fmt.Fprintf(p.errOut, "%s removed habit %s\n", p.style.Wrap("✓", ansi.Green), p.style.Wrap(name, ansi.Bold))
}

// Marked reports a completion change for one date.
func (p *Printer) Marked(name string, d habit.Date, done bool) {
	verb := "marked"
	if !done {
		verb = "unmarked"
	}
	fmt.Fprintf(p.errOut, "%s %s %s on %s\n", p.style.Wrap("✓", ansi.Green), verb, p.style.Wrap(name, ansi.Bold), d)
}

func (p *Printer) Imported(added, total int, replace bool) {
	mode := "merged"
	if replace {
		mode = "replaced"
	}
	fmt.Fprintf(p.errOut, "%s imported %d new %s (%s, %d total)\n",
		p.style.Wrap("✓", ansi.Green), added, plural(added, "habit"), mode, total)
}

func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.style.Wrap("warning:", ansi.Yellow, ansi.Bold), msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.style.Wrap("error:", ansi.Red, ansi.Bold), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.errOut, p.style.Wrap(msg, ansi.Dim))
}

// HabitList prints every habit with its status for today, in insertion order.
func (p *Printer) HabitList(rows []tracker.DayStatus, today habit.Date) {
	if len(rows) == 0 {
		fmt.Fprintln(p.out, p.style.Wrap("no habits yet, add one with `habitflow add NAME`", ansi.Dim))
		return
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Habit.Name))
	}
	for _, r := range rows {
		mark := p.style.Wrap("[ ]", ansi.Dim)
		if r.Done {
			mark = p.style.Wrap("[x]", ansi.Green)
		}
		name := fmt.Sprintf("%-*s", width, r.Habit.Name)
		line := fmt.Sprintf("%s %s  %s", mark, p.style.Wrap(name, ansi.Bold), p.style.Wrap(createdAgo(r.Habit.Created, today), ansi.Dim))
		if r.Habit.Description != "" {
			line += "  " + r.Habit.Description
		}
		fmt.Fprintln(p.out, line)
	}
}

// Report prints a progress report followed by its text calendar.
func (p *Printer) Report(r progress.Report) {
	desc := r.Description
	if desc == "" {
		desc = "N/A"
	}
	fmt.Fprintf(p.out, "Progress for: %s\n", p.style.Wrap(r.Name, ansi.Bold, ansi.Cyan))
	fmt.Fprintf(p.out, "Description: %s\n", desc)
	fmt.Fprintf(p.out, "Created on: %s\n\n", r.Created)
	fmt.Fprintf(p.out, "Current Streak: %d %s\n", r.CurrentStreak, plural(r.CurrentStreak, "day"))
	fmt.Fprintf(p.out, "Longest Streak: %d %s\n", r.LongestStreak, plural(r.LongestStreak, "day"))
	fmt.Fprintf(p.out, "Completion Percentage: %.2f%%\n\n", r.CompletionPercentage)
	fmt.Fprintln(p.out, "Completion Calendar:")
	fmt.Fprint(p.out, FormatCalendar(r.Calendar))
}

// FormatCalendar renders month grids as text. Each month opens with a
// "--- Month Year ---" heading and a Monday-first weekday header; marked
// days carry a trailing '*'.
func FormatCalendar(grids []progress.MonthGrid) string {
	var b strings.Builder
	for _, g := range grids {
		fmt.Fprintf(&b, "\n--- %s ---\n", g.Title())
		b.WriteString("Mo Tu We Th Fr Sa Su\n")
		for _, w := range g.Weeks {
			var row strings.Builder
			for _, c := range w {
				switch {
				case c.Empty():
					row.WriteString("   ")
				case c.Marked:
					fmt.Fprintf(&row, "%2d*", c.Day)
				default:
					fmt.Fprintf(&row, "%2d ", c.Day)
				}
			}
			b.WriteString(strings.TrimRight(row.String(), " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func createdAgo(created, today habit.Date) string {
	if created == today {
		return "created today"
	}
	then := time.Date(created.Year, created.Month, created.Day, 0, 0, 0, 0, time.UTC)
	now := time.Date(today.Year, today.Month, today.Day, 0, 0, 0, 0, time.UTC)
	return "created " + humanize.RelTime(then, now, "ago", "from now")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
