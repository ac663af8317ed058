package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import habits from a JSON, TOML or YAML file",
	Long: `Read habits from FILE and merge them into the current data. Habits that
already exist keep their description and creation date and gain any new
completion dates. With --replace the current data is discarded first.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("format", "", "json, toml or yaml (default from the file extension)")
	importCmd.Flags().Bool("replace", false, "replace all habits instead of merging")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := formatFlag(cmd, path)
	if err != nil {
		return err
	}
	replace, _ := cmd.Flags().GetBool("replace")

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer file.Close()

	return withSession(cmd, func(ctx context.Context, s *session) error {
		added, err := s.tracker.Import(ctx, file, f, replace)
		if err != nil {
			return err
		}
		s.printer.Imported(added, len(s.tracker.List()), replace)
		return nil
	})
}
