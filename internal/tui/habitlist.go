package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/habitflow/internal/tracker"
)

// HabitListView renders the dashboard list of habits with today's status.
type HabitListView struct {
	Rows   []tracker.DayStatus
	Cursor int
	Width  int
}

// View renders one row per habit. An empty state is shown when there are
// no habits.
func (hv HabitListView) View() string {
	if len(hv.Rows) == 0 {
		return "  " + styleDetailDim.Render("No habits yet. Press a to add one.") + "\n"
	}

	var b strings.Builder
	for i, r := range hv.Rows {
		b.WriteString(hv.renderRow(i, r))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRow renders a single habit row with selection indicator, status
// icon, name and description.
func (hv HabitListView) renderRow(i int, r tracker.DayStatus) string {
	selected := i == hv.Cursor

	indicator := "  "
	if selected {
		indicator = styleSelectionIndicator.Render(selectionIndicator) + " "
	}

	icon := styleRowPending.Render(iconPending)
	if r.Done {
		icon = styleRowDone.Render(iconDone)
	}

	nameWidth := 24
	if hv.Width < CompactWidth && hv.Width > 0 {
		nameWidth = max(8, hv.Width/3)
	}
	name := fmt.Sprintf("%-*s", nameWidth, TruncateWithEllipsis(r.Habit.Name, nameWidth))
	if selected {
		name = styleRowSelected.Render(name)
	} else {
		name = styleRowNormal.Render(name)
	}

	line := fmt.Sprintf("%s%s %s", indicator, icon, name)
	if r.Habit.Description != "" {
		maxDesc := hv.Width - nameWidth - 8
		if maxDesc < 10 {
			maxDesc = 40
		}
		line += "  " + styleDetailDim.Render(TruncateWithEllipsis(r.Habit.Description, maxDesc))
	}
	return line
}

// Selected returns the row at the cursor, or nil if the list is empty.
func (hv HabitListView) Selected() *tracker.DayStatus {
	if hv.Cursor < 0 || hv.Cursor >= len(hv.Rows) {
		return nil
	}
	return &hv.Rows[hv.Cursor]
}

// DoneCount returns how many habits are marked done.
func (hv HabitListView) DoneCount() int {
	n := 0
	for _, r := range hv.Rows {
		if r.Done {
			n++
		}
	}
	return n
}

// MoveUp moves the cursor up by one position.
func (hv *HabitListView) MoveUp() {
	if hv.Cursor > 0 {
		hv.Cursor--
	}
}

// MoveDown moves the cursor down by one position.
func (hv *HabitListView) MoveDown() {
	if hv.Cursor < len(hv.Rows)-1 {
		hv.Cursor++
	}
}

// Select moves the cursor to the named habit if present.
func (hv *HabitListView) Select(name string) {
	for i, r := range hv.Rows {
		if r.Habit.Name == name {
			hv.Cursor = i
			return
		}
	}
}

// clamp keeps the cursor inside the current rows.
func (hv *HabitListView) clamp() {
	hv.Cursor = min(hv.Cursor, len(hv.Rows)-1)
	hv.Cursor = max(hv.Cursor, 0)
}
