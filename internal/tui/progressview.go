package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/progress"
)

// ProgressView renders a habit's progress report and its calendar.
type ProgressView struct {
	Report progress.Report
	Today  habit.Date
	Width  int
}

// View renders the summary block followed by the month grids, laid out as
// many per row as the width allows.
func (pv ProgressView) View() string {
	r := pv.Report
	desc := r.Description
	if desc == "" {
		desc = "N/A"
	}

	var b strings.Builder
	b.WriteString(styleDetailTitle.Render(r.Name))
	b.WriteString("\n")
	pv.field(&b, "Description", desc)
	pv.field(&b, "Created", r.Created.String())
	pv.field(&b, "Current streak", days(r.CurrentStreak))
	pv.field(&b, "Longest streak", days(r.LongestStreak))
	pv.field(&b, "Completion", fmt.Sprintf("%.2f%%", r.CompletionPercentage))
	b.WriteString("\n")
	b.WriteString(pv.renderCalendar())
	return b.String()
}

func (pv ProgressView) field(b *strings.Builder, label, value string) {
	b.WriteString(styleDetailLabel.Render(fmt.Sprintf("%-16s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

func (pv ProgressView) renderCalendar() string {
	cols := calendarColumns(pv.Width)
	var rows []string
	for start := 0; start < len(pv.Report.Calendar); start += cols {
		end := min(start+cols, len(pv.Report.Calendar))
		var boxes []string
		for _, g := range pv.Report.Calendar[start:end] {
			boxes = append(boxes, pv.renderMonth(g))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderMonth renders one month grid in a bordered box. Marked days are
// highlighted and today is underlined.
func (pv ProgressView) renderMonth(g progress.MonthGrid) string {
	var b strings.Builder
	b.WriteString(styleMonthTitle.Render(g.Title()))
	b.WriteString("\n")
	b.WriteString(styleDetailDim.Render("Mo Tu We Th Fr Sa Su"))
	for _, w := range g.Weeks {
		b.WriteString("\n")
		cells := make([]string, len(w))
		for i, c := range w {
			cells[i] = pv.renderCell(g, c)
		}
		b.WriteString(strings.Join(cells, " "))
	}
	return styleMonthBox.Render(b.String())
}

func (pv ProgressView) renderCell(g progress.MonthGrid, c progress.Cell) string {
	if c.Empty() {
		return "  "
	}
	s := fmt.Sprintf("%2d", c.Day)
	style := styleRowPending
	if c.Marked {
		style = styleDayMarked
	}
	if habit.NewDate(g.Year, g.Month, c.Day) == pv.Today {
		style = style.Inherit(styleDayToday)
	}
	return style.Render(s)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
