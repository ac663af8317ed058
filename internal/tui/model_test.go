package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/store"
	"github.com/papapumpkin/habitflow/internal/tracker"
)

func clock() time.Time {
	return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.Local)
}

func openTracker(t *testing.T, path string) *tracker.Tracker {
	t.Helper()
	gw := store.NewJSONStore(path, store.Options{Clock: clock})
	tr, err := tracker.New(context.Background(), tracker.Options{Gateway: gw, Clock: clock})
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	return tr
}

// newTestModel returns a sized model over a fresh data file seeded with names.
func newTestModel(t *testing.T, names ...string) (AppModel, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.json")
	tr := openTracker(t, path)
	for _, n := range names {
		if _, err := tr.Add(context.Background(), n, ""); err != nil {
			t.Fatalf("Add(%q): %v", n, err)
		}
	}
	m := NewAppModel(context.Background(), tr)
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, path
}

func update(m AppModel, msg tea.Msg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestAppModel_ToggleToday(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read", "Walk")
	m = update(m, keyDown)
	m = update(m, keySpace)

	if !m.List.Rows[1].Done {
		t.Fatal("Walk not marked done after space")
	}
	if m.List.Rows[0].Done {
		t.Error("Read marked done, want only the selected row")
	}
	done, err := m.Tracker.Get("Walk")
	if err != nil || !done.IsDone(habit.NewDate(2026, time.October, 17)) {
		t.Errorf("tracker state not updated: %+v, %v", done, err)
	}

	m = update(m, keySpace)
	if m.List.Rows[1].Done {
		t.Error("second space did not clear the mark")
	}
}

func TestAppModel_AddPrompt(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read")
	m = update(m, runes("a"))
	if m.Prompt == nil {
		t.Fatal("prompt not opened by a")
	}

	// Keys go to the input while the prompt is open.
	m = update(m, runes("q"))
	if m.Prompt == nil || m.Prompt.Input.Value() != "q" {
		t.Fatalf("q did not reach the input: %+v", m.Prompt)
	}

	m.Prompt.Input.SetValue("Read, again")
	m = update(m, keyEnter)
	if m.Prompt == nil || m.Prompt.Err == "" {
		t.Fatal("duplicate name should keep the prompt open with an error")
	}

	m.Prompt.Input.SetValue("  Stretch , 5 minutes ")
	m = update(m, keyEnter)
	if m.Prompt != nil {
		t.Fatalf("prompt still open: %q", m.Prompt.Err)
	}
	sel := m.List.Selected()
	if sel == nil || sel.Habit.Name != "Stretch" || sel.Habit.Description != "5 minutes" {
		t.Errorf("selected = %+v, want new habit Stretch", sel)
	}
}

func TestAppModel_AddPromptEscape(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m = update(m, runes("a"))
	m = update(m, keyEsc)
	if m.Prompt != nil {
		t.Error("esc did not close the prompt")
	}
	if len(m.List.Rows) != 0 {
		t.Error("esc added a habit")
	}
}

func TestAppModel_DeleteConfirm(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read", "Walk")

	m = update(m, runes("d"))
	if m.Confirm != "Read" {
		t.Fatalf("Confirm = %q, want Read", m.Confirm)
	}
	m = update(m, runes("n"))
	if m.Confirm != "" || len(m.List.Rows) != 2 {
		t.Fatalf("n should cancel: confirm=%q rows=%d", m.Confirm, len(m.List.Rows))
	}

	m = update(m, runes("d"))
	m = update(m, runes("y"))
	if len(m.List.Rows) != 1 || m.List.Rows[0].Habit.Name != "Walk" {
		t.Errorf("rows after delete = %+v", m.List.Rows)
	}
	if !strings.Contains(m.Status, "removed Read") {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestAppModel_ProgressScreen(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read")
	m = update(m, keySpace)
	m = update(m, keyEnter)
	if m.Screen != ScreenProgress {
		t.Fatal("enter did not open progress")
	}

	out := m.View()
	for _, s := range []string{"Read", "N/A", "October 2026", "100.00%", "1 day"} {
		if !strings.Contains(out, s) {
			t.Errorf("progress view missing %q:\n%s", s, out)
		}
	}

	// Toggle is inactive on the progress screen.
	m = update(m, keySpace)
	if m.Progress.Report.CurrentStreak != 1 {
		t.Error("space changed state on the progress screen")
	}

	m = update(m, keyEsc)
	if m.Screen != ScreenDashboard {
		t.Error("esc did not return to the dashboard")
	}
}

func TestAppModel_Quit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command = %T, want tea.QuitMsg", cmd())
	}
}

func TestAppModel_StateChangedReloads(t *testing.T) {
	t.Parallel()

	m, path := newTestModel(t, "Read")

	other := openTracker(t, path)
	if _, err := other.Add(context.Background(), "Swim", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m = update(m, MsgStateChanged{})
	if len(m.List.Rows) != 2 || m.List.Rows[1].Habit.Name != "Swim" {
		t.Errorf("rows after reload = %+v", m.List.Rows)
	}
}

func TestAppModel_StateChangedLeavesProgressWhenHabitRemoved(t *testing.T) {
	t.Parallel()

	m, path := newTestModel(t, "Read")
	m = update(m, keyEnter)

	other := openTracker(t, path)
	if err := other.Remove(context.Background(), "Read"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	m = update(m, MsgStateChanged{})
	if m.Screen != ScreenDashboard {
		t.Error("still on progress screen after its habit was removed")
	}
}

func TestAppModel_View(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read")
	out := m.View()
	for _, s := range []string{"habitflow", "2026-10-17", "0/1 done", "Read", "quit"} {
		if !strings.Contains(out, s) {
			t.Errorf("dashboard view missing %q:\n%s", s, out)
		}
	}

	small := update(m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(small.View(), "too small") {
		t.Errorf("small view = %q", small.View())
	}

	fresh := NewAppModel(context.Background(), m.Tracker)
	if fresh.View() != "initializing..." {
		t.Errorf("unsized view = %q", fresh.View())
	}
}

func TestAppModel_FooterFollowsMode(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "Read")
	if got := len(m.buildFooter().Bindings); got != len(DashboardFooterBindings(m.Keys)) {
		t.Errorf("dashboard footer has %d bindings", got)
	}

	m = update(m, runes("d"))
	if !strings.Contains(m.buildFooter().View(), "confirm") {
		t.Error("confirm footer missing confirm hint")
	}
}
