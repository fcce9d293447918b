// Package config handles configuration loading and validation for pomodoro.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/pomodoro/internal/preset"
)

// Config holds the application configuration.
type Config struct {
	// StatsFile is the daily stats JSON file. Relative paths resolve against DataDir.
	StatsFile string `yaml:"stats_file"`
	// Database is the session history SQLite file. Relative paths resolve against DataDir.
	Database string `yaml:"database"`
	// DefaultPreset, when set, replaces the saved preset at startup.
	DefaultPreset string       `yaml:"default_preset"`
	Bridge        BridgeConfig `yaml:"bridge"`
	DataDir       string       `yaml:"data_dir"`
}

// BridgeConfig holds settings for the line-protocol bridge.
type BridgeConfig struct {
	AutoTick bool `yaml:"auto_tick"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		StatsFile: "pomodoro_data.json",
		Database:  "pomodoro.db",
	}
}

// Load reads configuration from configPath. A missing file yields the
// defaults. dataDir is used unless the file sets data_dir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.StatsFile == "" {
		c.StatsFile = defaults.StatsFile
	}
	if c.Database == "" {
		c.Database = defaults.Database
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.DefaultPreset != "" {
		if _, ok := preset.Lookup(c.DefaultPreset); !ok {
			return fmt.Errorf("default_preset %q is not a known preset", c.DefaultPreset)
		}
	}

	return nil
}

// StatsPath returns the absolute location of the daily stats file.
func (c *Config) StatsPath() string {
	return c.resolve(c.StatsFile)
}

// DatabasePath returns the absolute location of the history database.
func (c *Config) DatabasePath() string {
	return c.resolve(c.Database)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
