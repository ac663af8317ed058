package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "habitflow",
	Short: "Track daily habits, streaks and completion calendars",
	Long: `habitflow records which days you completed each of your habits and reports
current and longest streaks, completion percentage and a month calendar.

Run without a subcommand in a terminal to open the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRootDefault,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .habitflow.yaml)")
	rootCmd.PersistentFlags().String("data-file", "", "JSON data file (default habit_data.json)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: json or sqlite")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("data_file", rootCmd.PersistentFlags().Lookup("data-file"))
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".habitflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("HABITFLOW")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault opens the dashboard when attached to a terminal and
// falls back to showing help otherwise.
func runRootDefault(cmd *cobra.Command, _ []string) error {
	if !isTTY(os.Stdout) {
		return cmd.Help()
	}
	return runTUI(tuiCmd, nil)
}
