package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitflow/internal/tui"
)

// tuiCmd launches the interactive habit dashboard.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive habit dashboard",
	Long: `Launch the dashboard listing every habit with today's status. From there
you can mark habits done, add and delete habits, and open a habit's progress
calendar. Changes made to the data file by other processes are picked up
automatically.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("no-watch", false, "do not reload when the data file changes on disk")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTTY(os.Stdout) {
		return errors.New("habitflow tui requires a TTY (terminal)")
	}
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	return withSession(cmd, func(ctx context.Context, s *session) error {
		watchPath := s.cfg.StorePath()
		if noWatch {
			watchPath = ""
		}
		return tui.Run(ctx, s.tracker, watchPath, s.log)
	})
}
