package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with their status for a day",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().String("date", "", "day to show status for, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(_ context.Context, s *session) error {
		d, err := dateFlag(cmd, s)
		if err != nil {
			return err
		}
		s.printer.HabitList(s.tracker.Dashboard(d), s.tracker.Today())
		return nil
	})
}
