package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papapumpkin/habitflow/internal/config"
	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/logging"
	"github.com/papapumpkin/habitflow/internal/store"
	"github.com/papapumpkin/habitflow/internal/telemetry"
	"github.com/papapumpkin/habitflow/internal/tracker"
	"github.com/papapumpkin/habitflow/internal/ui"
)

// session bundles what every habit command needs.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	tracker *tracker.Tracker
	printer *ui.Printer
}

// openSession loads configuration, opens the configured store and returns
// a ready tracker. A corrupt data file is reported as a warning and the
// session starts empty.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	var events *telemetry.Emitter
	if cfg.TelemetryFile != "" {
		if events, err = telemetry.NewEmitter(cfg.TelemetryFile); err != nil {
			return nil, err
		}
	}

	gw, err := store.Open(ctx, cfg.Backend, cfg.StorePath(), store.Options{Logger: log})
	if err != nil {
		_ = events.Close()
		return nil, err
	}

	tr, err := tracker.New(ctx, tracker.Options{Gateway: gw, Events: events, Logger: log})
	if err != nil {
		return nil, errors.Join(err, gw.Close(), events.Close())
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorEnabled(cmd.ErrOrStderr()))
	if w := tr.Warning(); w != nil {
		printer.Warning(fmt.Sprintf("%s could not be read; starting with no habits (%v)", cfg.StorePath(), w))
	}
	log.Debug("session opened",
		zap.String("backend", cfg.Backend),
		zap.String("path", cfg.StorePath()),
		zap.Int("habits", len(tr.List())))

	return &session{cfg: cfg, log: log, tracker: tr, printer: printer}, nil
}

func (s *session) Close() error {
	err := s.tracker.Close()
	_ = s.log.Sync()
	return err
}

// withSession runs fn inside an open session and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(ctx, s)
}

// dateFlag returns the --date flag parsed as a calendar date, or today when
// the flag is unset.
func dateFlag(cmd *cobra.Command, s *session) (habit.Date, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return s.tracker.Today(), nil
	}
	d, err := habit.ParseDate(raw)
	if err != nil {
		return habit.Date{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}

// isTTY reports whether f is attached to a terminal.
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled reports whether ANSI styling should be written to w.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTTY(f)
}
