// Package config provides the run configuration for graphfeed: where
// the workbook lives, which sheets to read, where the destination is,
// and when the schedule fires.
//
// The destination DSN is never stored in the file; the file names an
// environment variable and the DSN is resolved from the environment at
// startup.
//
// Config file locations (priority order):
//  1. $GRAPHFEED_CONFIG
//  2. ./graphfeed.yaml
//  3. ~/.config/graphfeed/config.yaml
//  4. /etc/graphfeed/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration indicates a missing or unusable configuration
// value, including an unset DSN environment variable.
var ErrConfiguration = errors.New("config: invalid configuration")

// Config is the explicit value object passed into the pipeline wiring.
// Nothing in the pipeline reads ambient process state.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// SourceConfig locates the workbook and its two sheets.
type SourceConfig struct {
	Path            string `yaml:"path"`
	NodesSheet      string `yaml:"nodes_sheet"`
	MatrixSheet     string `yaml:"matrix_sheet"`
	NodesSkipRows   int    `yaml:"nodes_skip_rows"`
	MatrixHeaderRow int    `yaml:"matrix_header_row"`
	MatrixLabelCols int    `yaml:"matrix_label_cols"`
}

// DatabaseConfig names the destination driver and the environment
// variable holding its DSN.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSNEnv string `yaml:"dsn_env"`
}

// ScheduleConfig fixes the daily cadence.
type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

// Load finds and loads the config file, or returns defaults if none is
// found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, path, nil
}

// DefaultConfig mirrors the production deployment: daily 09:00 run in
// the source team's timezone, MySQL destination behind an environment
// variable.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Source.NodesSheet == "" {
		c.Source.NodesSheet = "Nodes"
	}
	if c.Source.MatrixSheet == "" {
		c.Source.MatrixSheet = "Adjacency"
	}
	if c.Source.NodesSkipRows == 0 {
		c.Source.NodesSkipRows = 3
	}
	if c.Source.MatrixHeaderRow == 0 {
		c.Source.MatrixHeaderRow = 1
	}
	if c.Source.MatrixLabelCols == 0 {
		c.Source.MatrixLabelCols = 2
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.DSNEnv == "" {
		c.Database.DSNEnv = "GRAPHFEED_DB_DSN"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 9 * * *"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/Mexico_City"
	}
}

// Validate checks the values a run cannot start without.
func (c *Config) Validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("source.path is required: %w", ErrConfiguration)
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver %q is not supported: %w", c.Database.Driver, ErrConfiguration)
	}
	return nil
}

// ResolveDSN reads the destination DSN from the configured environment
// variable.
func (c *Config) ResolveDSN() (string, error) {
	dsn := os.Getenv(c.Database.DSNEnv)
	if dsn == "" {
		return "", fmt.Errorf("environment variable %s is not set: %w", c.Database.DSNEnv, ErrConfiguration)
	}
	return dsn, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
