// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for fitbot.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.fitbot/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fitbot configuration.
type Config struct {
	// Coach (Gemini) configuration
	Coach CoachConfig `toml:"coach"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// CoachConfig contains conversational service configuration.
type CoachConfig struct {
	// APIKey is the Gemini API key. Prefer setting it via the
	// GEMINI_API_KEY environment variable over writing it to disk.
	APIKey string `toml:"api_key"`
	// Model is the Gemini model identifier used for coaching replies.
	Model string `toml:"model"`
	// Temperature controls reply sampling. 0 disables randomness.
	Temperature float64 `toml:"temperature"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// Backend selects the persistence backend: "file" or "sqlite".
	Backend string `toml:"backend"`
	// Dir is the data directory (empty = default ~/.fitbot).
	Dir string `toml:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact chat layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Coach: CoachConfig{
			APIKey:      "",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "",
		},
		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the fitbot configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fitbot"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DataDir resolves the data directory, creating it if needed.
func (c *Config) DataDir() (string, error) {
	dir := c.Storage.Dir
	if dir == "" {
		var err error
		dir, err = ConfigDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create data directory: %w", err)
	}
	return dir, nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing
// file is not an error; defaults are used instead.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		// SECURITY: config may carry an API key; keep it owner-only.
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		fillDefaults(cfg)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Coach.Model == "" {
		cfg.Coach.Model = defaults.Coach.Model
	}
	if cfg.Coach.Temperature == 0 {
		cfg.Coach.Temperature = defaults.Coach.Temperature
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", info.Mode().Perm(), err)
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath saves the configuration to a specific TOML file path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# fitbot configuration file")
	fmt.Fprintln(file, "# Generated by fitbot - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file values.
func (c *Config) ApplyEnvOverrides() {
	// GEMINI_API_KEY / FITBOT_API_KEY
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Coach.APIKey = key
	}
	if key := os.Getenv("FITBOT_API_KEY"); key != "" {
		c.Coach.APIKey = key
	}

	// FITBOT_MODEL
	if model := os.Getenv("FITBOT_MODEL"); model != "" {
		c.Coach.Model = model
	}

	// FITBOT_STORAGE
	if backend := os.Getenv("FITBOT_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}

	// FITBOT_DATA_DIR
	if dir := os.Getenv("FITBOT_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}

	// FITBOT_THEME
	if theme := os.Getenv("FITBOT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns the first error found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite":
	default:
		return ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be \"file\" or \"sqlite\", got %q", c.Storage.Backend),
		}
	}

	if c.Coach.Temperature < 0 || c.Coach.Temperature > 2 {
		return ValidationError{
			Field:   "coach.temperature",
			Message: "must be between 0 and 2",
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
	default:
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be \"dark\" or \"light\", got %q", c.UI.Theme),
		}
	}

	return nil
}
