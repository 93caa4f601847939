package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fredrecon/pkg/fred"

	"github.com/spf13/viper"
)

type Config struct {
	Fred      FredConfig      `mapstructure:"fred"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
}

type FredConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Concurrency   int           `mapstructure:"concurrency"`     // fan-out worker cap
	MinRequestGap time.Duration `mapstructure:"min_request_gap"` // spacing between request starts
}

type ScheduleConfig struct {
	At         string `mapstructure:"at"`        // daily trigger time, "HH:MM"
	Frequency  string `mapstructure:"frequency"` // passed unchanged into the reconciler
	RunOnStart bool   `mapstructure:"run_on_start"`
}

type ReconcileConfig struct {
	ReleaseName        string   `mapstructure:"release_name"`
	SeasonalAdjustment string   `mapstructure:"seasonal_adjustment"`
	ComponentSeries    []string `mapstructure:"component_series"`
	TotalSeries        string   `mapstructure:"total_series"`
	Year               int      `mapstructure:"year"` // 0 reconciles all years
}

type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	SaveToDB   bool   `mapstructure:"save_to_db"`
	RetainDays int    `mapstructure:"retain_days"` // 0 keeps every run
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		v.AddConfigPath(filepath.Join(pwd, "../../config"))
	} else {
		v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
	}

	v.SetDefault("fred.base_url", "https://api.stlouisfed.org")
	v.SetDefault("fred.timeout", "30s")
	v.SetDefault("fred.concurrency", 8)
	v.SetDefault("fred.min_request_gap", "100ms")
	v.SetDefault("schedule.frequency", "Monthly")
	v.SetDefault("reconcile.release_name", "H.6 Money Stock Measures")
	v.SetDefault("reconcile.seasonal_adjustment", "NSA")
	v.SetDefault("reconcile.component_series", []string{"DEMDEPNS", "MDLNM", "CURRNS"})
	v.SetDefault("reconcile.total_series", "M1NS")
	v.SetDefault("output.dir", "out")

	// Support environment variables with dot notation (e.g., FRED_API_KEY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	return &cfg
}

// Validate surfaces configuration problems before any fetch begins.
// These are the only errors fatal to a run.
func (c *Config) Validate() error {
	if c.Fred.BaseURL == "" {
		return fmt.Errorf("config: fred.base_url is required")
	}
	if c.Fred.APIKey == "" && c.Log.Environment != "prod" {
		return fmt.Errorf("config: fred.api_key is required outside prod (prod resolves it from parameter store)")
	}
	if _, err := time.Parse("15:04", c.Schedule.At); err != nil {
		return fmt.Errorf("config: schedule.at must be HH:MM: %w", err)
	}
	if _, err := fred.ParseFrequency(c.Schedule.Frequency); err != nil {
		return fmt.Errorf("config: schedule.frequency: %w", err)
	}
	if c.Reconcile.TotalSeries == "" {
		return fmt.Errorf("config: reconcile.total_series is required")
	}
	if len(c.Reconcile.ComponentSeries) == 0 {
		return fmt.Errorf("config: reconcile.component_series must name at least one series")
	}
	if c.Output.RetainDays < 0 {
		return fmt.Errorf("config: output.retain_days must not be negative")
	}
	return nil
}
