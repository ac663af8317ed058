package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/tracker"
)

// Screen identifies the active top-level view.
type Screen int

const (
	// ScreenDashboard lists habits with today's status.
	ScreenDashboard Screen = iota
	// ScreenProgress shows one habit's report and calendar.
	ScreenProgress
)

// AppModel is the root BubbleTea model composing all sub-views.
type AppModel struct {
	Tracker  *tracker.Tracker
	Keys     KeyMap
	Screen   Screen
	List     HabitListView
	Progress ProgressView
	Prompt   *AddPrompt // non-nil while adding a habit
	Confirm  string     // habit awaiting delete confirmation
	Width    int
	Height   int
	Status   string // last info or error line
	StatusOK bool

	ctx context.Context
}

// NewAppModel creates a root model over tr. Operations triggered from the
// UI run under ctx.
func NewAppModel(ctx context.Context, tr *tracker.Tracker) AppModel {
	m := AppModel{
		Tracker: tr,
		Keys:    DefaultKeyMap(),
		ctx:     ctx,
	}
	if w := tr.Warning(); w != nil {
		m.setError(fmt.Errorf("started empty: %w", w))
	}
	m.refresh()
	return m
}

// Init has no startup commands; state is loaded before the program starts.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgStateChanged:
		if msg.Removed {
			m.setInfo("data file removed on disk")
		}
		if err := m.Tracker.Reload(m.ctx); err != nil {
			m.setError(err)
			break
		}
		if w := m.Tracker.Warning(); w != nil {
			m.setError(fmt.Errorf("reloaded empty: %w", w))
		}
		m.refresh()

	default:
		if m.Prompt != nil {
			var cmd tea.Cmd
			m.Prompt.Input, cmd = m.Prompt.Input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// handleKey processes keyboard input. The add prompt and the delete
// confirmation capture all keys while open.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Prompt != nil {
		return m.handlePromptKey(msg)
	}
	if m.Confirm != "" {
		m.handleConfirmKey(msg)
		return m, nil
	}

	if key.Matches(msg, m.Keys.Quit) {
		return m, tea.Quit
	}

	if m.Screen == ScreenProgress {
		if key.Matches(msg, m.Keys.Back) {
			m.Screen = ScreenDashboard
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		m.List.MoveUp()

	case key.Matches(msg, m.Keys.Down):
		m.List.MoveDown()

	case key.Matches(msg, m.Keys.Toggle):
		m.toggleSelected()

	case key.Matches(msg, m.Keys.Add):
		m.Prompt = NewAddPrompt()
		return m, m.Prompt.Input.Focus()

	case key.Matches(msg, m.Keys.Delete):
		if sel := m.List.Selected(); sel != nil {
			m.Confirm = sel.Habit.Name
		}

	case key.Matches(msg, m.Keys.Enter):
		m.openProgress()
	}
	return m, nil
}

func (m AppModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.Prompt = nil
		return m, nil

	case key.Matches(msg, m.Keys.Submit):
		name, desc := m.Prompt.Parse()
		rec, err := m.Tracker.Add(m.ctx, name, desc)
		if err != nil {
			m.Prompt.Err = promptError(err)
			return m, nil
		}
		m.Prompt = nil
		m.refresh()
		m.List.Select(rec.Name)
		m.setInfo(fmt.Sprintf("added %s", rec.Name))
		return m, nil
	}

	var cmd tea.Cmd
	m.Prompt.Input, cmd = m.Prompt.Input.Update(msg)
	return m, cmd
}

func (m *AppModel) handleConfirmKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.Keys.Confirm):
		name := m.Confirm
		m.Confirm = ""
		if err := m.Tracker.Remove(m.ctx, name); err != nil {
			m.setError(err)
			return
		}
		m.refresh()
		m.setInfo(fmt.Sprintf("removed %s", name))

	case key.Matches(msg, m.Keys.Cancel):
		m.Confirm = ""
	}
}

func (m *AppModel) toggleSelected() {
	sel := m.List.Selected()
	if sel == nil {
		return
	}
	name := sel.Habit.Name
	done, err := m.Tracker.Toggle(m.ctx, name, m.Tracker.Today())
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	if done {
		m.setInfo(fmt.Sprintf("%s done today", name))
	} else {
		m.setInfo(fmt.Sprintf("%s cleared for today", name))
	}
}

func (m *AppModel) openProgress() {
	sel := m.List.Selected()
	if sel == nil {
		return
	}
	report, err := m.Tracker.Progress(sel.Habit.Name)
	if err != nil {
		m.setError(err)
		return
	}
	m.Progress = ProgressView{Report: report, Today: m.Tracker.Today()}
	m.Screen = ScreenProgress
}

// refresh rebuilds the list and, on the progress screen, the report. A
// habit that disappeared returns the user to the dashboard.
func (m *AppModel) refresh() {
	today := m.Tracker.Today()
	m.List.Rows = m.Tracker.Dashboard(today)
	m.List.clamp()

	if m.Screen != ScreenProgress {
		return
	}
	report, err := m.Tracker.Progress(m.Progress.Report.Name)
	if err != nil {
		m.Screen = ScreenDashboard
		return
	}
	m.Progress.Report = report
	m.Progress.Today = today
}

func (m *AppModel) setInfo(s string) {
	m.Status = s
	m.StatusOK = true
}

func (m *AppModel) setError(err error) {
	m.Status = err.Error()
	m.StatusOK = false
}

// promptError maps tracker errors to short prompt messages.
func promptError(err error) string {
	switch {
	case errors.Is(err, habit.ErrInvalidName):
		return "name must not be empty"
	case errors.Is(err, habit.ErrDuplicateName):
		return "a habit with that name already exists"
	default:
		return err.Error()
	}
}

// View renders the full TUI.
func (m AppModel) View() string {
	if m.Width == 0 {
		return "initializing..."
	}
	if m.Width < MinWidth || m.Height < MinHeight {
		return styleDetailDim.Render(fmt.Sprintf("terminal too small (need %dx%d)", MinWidth, MinHeight))
	}

	sections := []string{m.renderStatusBar(), m.renderMainView()}

	if m.Prompt != nil {
		sections = append(sections, m.Prompt.View(m.Width))
	}
	if m.Confirm != "" {
		sections = append(sections, styleConfirm.Render(fmt.Sprintf("Delete %q? (y/n)", m.Confirm)))
	}
	if m.Status != "" {
		style := styleError
		if m.StatusOK {
			style = styleDetailDim
		}
		sections = append(sections, style.Render(m.Status))
	}
	sections = append(sections, m.buildFooter().View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AppModel) renderStatusBar() string {
	left := styleStatusLabel.Render("habitflow") + "  " + styleStatusValue.Render(m.Tracker.Today().String())
	if m.Screen == ScreenDashboard {
		left += "  " + styleStatusValue.Render(fmt.Sprintf("%d/%d done", m.List.DoneCount(), len(m.List.Rows)))
	}
	return styleStatusBar.Width(m.Width).Render(left)
}

// renderMainView renders the view for the active screen.
func (m AppModel) renderMainView() string {
	switch m.Screen {
	case ScreenProgress:
		m.Progress.Width = m.Width
		return m.Progress.View()
	default:
		m.List.Width = m.Width
		return m.List.View()
	}
}

// buildFooter creates the footer with appropriate bindings.
func (m AppModel) buildFooter() Footer {
	f := Footer{Width: m.Width}
	switch {
	case m.Prompt != nil:
		f.Bindings = PromptFooterBindings(m.Keys)
	case m.Confirm != "":
		f.Bindings = ConfirmFooterBindings(m.Keys)
	case m.Screen == ScreenProgress:
		f.Bindings = ProgressFooterBindings(m.Keys)
	default:
		f.Bindings = DashboardFooterBindings(m.Keys)
	}
	return f
}
