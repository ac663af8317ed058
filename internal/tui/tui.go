// Package tui is the interactive display layer: a bubbletea program with a
// habit dashboard and a per-habit progress screen.
package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/papapumpkin/habitflow/internal/store"
	"github.com/papapumpkin/habitflow/internal/tracker"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program over tr.
// The program uses the alternate screen buffer for a clean TUI experience.
func NewProgram(ctx context.Context, tr *tracker.Tracker, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewAppModel(ctx, tr), allOpts...)
}

// Run creates and runs a TUI program, blocking until it exits. When
// watchPath is non-empty, changes to that file made by other processes
// reload the dashboard.
func Run(ctx context.Context, tr *tracker.Tracker, watchPath string, log *zap.Logger) error {
	p := NewProgram(ctx, tr)

	if watchPath != "" {
		w, err := store.NewWatcher(watchPath, log)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		go forwardChanges(w.Changes, p)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// forwardChanges relays watcher events into the program until the channel
// closes.
func forwardChanges(changes <-chan store.Change, p *Program) {
	for c := range changes {
		p.Send(MsgStateChanged{Removed: c.Removed})
	}
}

// WithOutput returns a program option that directs TUI output to the given writer.
// Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
