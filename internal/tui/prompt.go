package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// AddPrompt collects a new habit as "name, description".
type AddPrompt struct {
	Input textinput.Model
	Err   string
}

// NewAddPrompt returns a focused prompt.
func NewAddPrompt() *AddPrompt {
	ti := textinput.New()
	ti.Prompt = "▸ "
	ti.Placeholder = "name, description"
	ti.CharLimit = 256
	ti.Focus()
	return &AddPrompt{Input: ti}
}

// Parse splits the input at the first comma into a name and an optional
// description.
func (p *AddPrompt) Parse() (name, description string) {
	name, description, _ = strings.Cut(p.Input.Value(), ",")
	return strings.TrimSpace(name), strings.TrimSpace(description)
}

// View renders the prompt box.
func (p *AddPrompt) View(width int) string {
	body := styleDetailTitle.Render("New habit") + "\n" + p.Input.View()
	if p.Err != "" {
		body += "\n" + styleError.Render(p.Err)
	}
	if width > 4 {
		return stylePromptBox.Width(width - 2).Render(body)
	}
	return stylePromptBox.Render(body)
}
