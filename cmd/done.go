package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done NAME",
	Short: "Mark a habit done for a day",
	Long: `Mark a habit done for today, or for the day given with --date.
Marking an already marked day is a no-op. With --undo the mark is cleared
instead, and clearing a day that was never marked is an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDone,
}

func init() {
	doneCmd.Flags().String("date", "", "day to mark, YYYY-MM-DD (default today)")
	doneCmd.Flags().Bool("undo", false, "clear the mark instead of setting it")
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	undo, _ := cmd.Flags().GetBool("undo")
	return withSession(cmd, func(ctx context.Context, s *session) error {
		d, err := dateFlag(cmd, s)
		if err != nil {
			return err
		}
		if undo {
			err = s.tracker.MarkUndone(ctx, name, d)
		} else {
			err = s.tracker.MarkDone(ctx, name, d)
		}
		if err != nil {
			return err
		}
		s.printer.Marked(name, d, !undo)
		return nil
	})
}
