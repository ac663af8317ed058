package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress [NAME]",
	Short: "Show streaks, completion percentage and calendar for a habit",
	Long: `Show the progress report for a habit: current and longest streak,
completion percentage since creation, and a calendar of every month from
the first completion through the current month.

Without NAME the alphabetically first habit is shown.`,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().String("date", "", "report as of this day, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(_ context.Context, s *session) error {
		ref, err := dateFlag(cmd, s)
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")
		if name == "" {
			names := s.tracker.SortedNames()
			if len(names) == 0 {
				return errors.New("no habits yet; add one with `habitflow add NAME`")
			}
			name = names[0]
		}
		report, err := s.tracker.ProgressAt(name, ref)
		if err != nil {
			return err
		}
		s.printer.Report(report)
		return nil
	})
}
