package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitflow/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all habits as JSON, TOML or YAML",
	Long: `Write every habit with its completion history to stdout or to --output.
The format defaults to the --output file extension, or JSON when writing to
stdout. JSON output uses the data file layout and can be used as a data file
directly.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "json, toml or yaml")
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	f, err := formatFlag(cmd, output)
	if err != nil {
		return err
	}
	return withSession(cmd, func(_ context.Context, s *session) error {
		if output == "" {
			return s.tracker.Export(cmd.OutOrStdout(), f)
		}
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := s.tracker.Export(file, f); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		s.printer.Info(fmt.Sprintf("exported %d habits to %s", len(s.tracker.List()), output))
		return nil
	})
}

// formatFlag resolves --format, falling back to the extension of path.
func formatFlag(cmd *cobra.Command, path string) (store.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	if raw == "" {
		return store.FormatFromPath(path), nil
	}
	return store.ParseFormat(raw)
}
