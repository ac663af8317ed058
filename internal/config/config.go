package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for habitflow.
// Values are populated from .habitflow.yaml, HABITFLOW_* env vars, and CLI flags.
type Config struct {
	DataFile      string `mapstructure:"data_file"`
	Backend       string `mapstructure:"backend"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	TelemetryFile string `mapstructure:"telemetry_file"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	Verbose       bool   `mapstructure:"verbose"`
}

// StorePath returns the location used by the configured backend.
func (c Config) StorePath() string {
	if c.Backend == "sqlite" {
		return c.SQLitePath
	}
	return c.DataFile
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_file", "habit_data.json")
	viper.SetDefault("backend", "json")
	viper.SetDefault("sqlite_path", "habitflow.db")
	viper.SetDefault("telemetry_file", "")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_file", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("config: backend must be json or sqlite, got %q", c.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.StorePath() == "" {
		return fmt.Errorf("config: no path configured for the %s backend", c.Backend)
	}
	return nil
}
