package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a new habit",
	Long: `Add a new habit created today with an empty completion history.
Multiple arguments are joined with spaces to form the name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "optional description")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	desc, _ := cmd.Flags().GetString("description")
	return withSession(cmd, func(ctx context.Context, s *session) error {
		rec, err := s.tracker.Add(ctx, strings.Join(args, " "), desc)
		if err != nil {
			return err
		}
		s.printer.HabitAdded(rec)
		return nil
	})
}
