package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Config holds the CLI's configuration.
type Config struct {
	LogLevel      string `json:"log_level"`
	DatabasePath  string `json:"database_path"`
	DefaultEscape string `json:"default_escape"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DatabasePath:  "./tannin.db",
		DefaultEscape: "html",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the CLI can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
