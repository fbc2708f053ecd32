package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// nflverse data releases
	NFLverseBaseURL string        `envconfig:"NFLVERSE_BASE_URL" default:"https://github.com/nflverse/nflverse-data/releases/download"`
	NFLverseTimeout time.Duration `envconfig:"NFLVERSE_TIMEOUT" default:"60s"`

	// Database
	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/nflverse.sqlite"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Dashboard
	DashboardAddr string `envconfig:"DASHBOARD_ADDR" default:":8080"`
	// Path to the exporter binary the dashboard shells out to.
	// Empty means "exporter next to the dashboard's own executable".
	ExporterPath string `envconfig:"EXPORTER_PATH" default:""`
	// Oldest season offered by the dashboard's season picker.
	EarliestSeason int `envconfig:"EARLIEST_SEASON" default:"1999"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.NFLverseBaseURL == "" {
		return fmt.Errorf("NFLVERSE_BASE_URL is required")
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.EarliestSeason < 1920 {
		return fmt.Errorf("EARLIEST_SEASON %d predates the league", c.EarliestSeason)
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
