package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
// In compact mode (narrow terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}

// DashboardFooterBindings returns footer bindings for the habit list.
func DashboardFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Toggle, km.Add, km.Delete, km.Enter, km.Quit}
}

// ProgressFooterBindings returns footer bindings for the progress screen.
func ProgressFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Back, km.Quit}
}

// PromptFooterBindings returns footer bindings while the add prompt is open.
func PromptFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Submit, km.Back}
}

// ConfirmFooterBindings returns footer bindings during a delete confirmation.
func ConfirmFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Confirm, km.Cancel}
}
