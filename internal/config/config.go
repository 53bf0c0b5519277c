// Package config loads fsearch configuration from an optional YAML file,
// layered under command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable defaults for a search.
type Config struct {
	// Method is the default traversal strategy: "scan" or "glob".
	Method string `yaml:"method"`

	// MaxDepth is the default search depth.
	MaxDepth int `yaml:"max_depth"`

	// CaseSensitive makes searches case-sensitive by default.
	CaseSensitive bool `yaml:"case_sensitive"`

	// Include is a default comma-separated include pattern list.
	Include string `yaml:"include"`

	// MaxLineLength bounds content-scan line length.
	MaxLineLength int `yaml:"max_line_length"`

	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// History controls whether runs are recorded to the history database.
	History bool `yaml:"history"`

	// HistoryPath overrides the history database location.
	HistoryPath string `yaml:"history_path"`
}

// DefaultConfig returns the built-in defaults, matching the tool's
// historical behavior: shallow case-insensitive scans with history on.
func DefaultConfig() *Config {
	return &Config{
		Method:        "scan",
		MaxDepth:      1,
		CaseSensitive: false,
		Include:       "",
		MaxLineLength: 10000,
		LogLevel:      "warn",
		History:       true,
		HistoryPath:   "",
	}
}

// DefaultPath returns the per-user config file location,
// ~/.fsearch/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fsearch", "config.yaml"), nil
}

// DefaultHistoryPath returns where the run-history database lives when
// the config does not override it.
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fsearch", "history.db"), nil
}

// Load reads the config file at path. A missing file is not an error and
// yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("config %s: max_depth must be >= 0, got %d", path, cfg.MaxDepth)
	}
	if cfg.MaxLineLength < 0 {
		return nil, fmt.Errorf("config %s: max_line_length must be >= 0, got %d", path, cfg.MaxLineLength)
	}
	return cfg, nil
}
