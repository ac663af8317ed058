package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a habit and its completion history",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	removeCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	yes, _ := cmd.Flags().GetBool("yes")
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if _, err := s.tracker.Get(name); err != nil {
			return err
		}
		if !yes {
			ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
				fmt.Sprintf("Remove habit %q and its history?", name))
			if err != nil {
				return err
			}
			if !ok {
				s.printer.Info("aborted")
				return nil
			}
		}
		if err := s.tracker.Remove(ctx, name); err != nil {
			return err
		}
		s.printer.HabitRemoved(name)
		return nil
	})
}

// confirm asks a yes/no question and reads one line from in. Only "y" and
// "yes" confirm; end of input declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
