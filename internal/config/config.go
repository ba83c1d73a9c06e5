// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for onnxbench.
//
// Configuration is stored as TOML with sensible defaults, environment
// variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.onnxbench/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/onnxbench/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete onnxbench configuration.
type Config struct {
	// DefaultModel is the model used when a command does not name one.
	DefaultModel string `toml:"default_model"`

	// Server configuration
	Server ServerConfig `toml:"server"`

	// Bench configuration (benchmark defaults)
	Bench BenchConfig `toml:"bench"`

	// Output configuration
	Output OutputConfig `toml:"output"`
}

// ServerConfig contains inference server connection settings.
type ServerConfig struct {
	// URL is the base URL of the inference server
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// BenchConfig contains default benchmark parameters.
// Command-line flags override these values.
type BenchConfig struct {
	// Requests is the number of measured inference requests per run
	Requests int `toml:"requests"`
	// Concurrency is the number of parallel workers
	Concurrency int `toml:"concurrency"`
	// Warmup is the number of unmeasured warmup requests
	Warmup int `toml:"warmup"`
	// Rate is the request rate limit in requests/second (0 = unlimited)
	Rate float64 `toml:"rate"`
}

// OutputConfig contains terminal output settings.
type OutputConfig struct {
	// Color enables ANSI color output
	Color bool `toml:"color"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DefaultModel: "",

		Server: ServerConfig{
			URL:         "http://127.0.0.1:8080",
			TimeoutSecs: 30,
		},

		Bench: BenchConfig{
			Requests:    100,
			Concurrency: 1,
			Warmup:      5,
			Rate:        0, // unlimited
		},

		Output: OutputConfig{
			Color: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the onnxbench configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".onnxbench"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err // File doesn't exist or not accessible
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				cfg.SetDefaults()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Apply environment overrides to defaults
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path instead of the
// default location, with the same env overrides and validation as Load.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// Writes atomically with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# onnxbench configuration file")
	fmt.Fprintln(&buf, "# Generated by onnxbench - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
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

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate server URL
	if c.Server.URL == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: "must not be empty",
		})
	} else {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
			})
		}
	}

	// Validate timeout
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be 1-3600 seconds, got %d", c.Server.TimeoutSecs),
		})
	}

	// Validate bench defaults
	if c.Bench.Requests < 1 {
		errs = append(errs, ValidationError{
			Field:   "bench.requests",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Bench.Requests),
		})
	}
	if c.Bench.Concurrency < 1 {
		errs = append(errs, ValidationError{
			Field:   "bench.concurrency",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Bench.Concurrency),
		})
	}
	if c.Bench.Warmup < 0 {
		errs = append(errs, ValidationError{
			Field:   "bench.warmup",
			Message: "must be non-negative",
		})
	}
	if c.Bench.Rate < 0 {
		errs = append(errs, ValidationError{
			Field:   "bench.rate",
			Message: "must be non-negative (0 = unlimited)",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}

	if c.Bench.Requests == 0 {
		c.Bench.Requests = defaults.Bench.Requests
	}
	if c.Bench.Concurrency == 0 {
		c.Bench.Concurrency = defaults.Bench.Concurrency
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - ONNXBENCH_SERVER: overrides server.url
//   - ONNXBENCH_TIMEOUT: overrides server.timeout_secs
//   - ONNXBENCH_MODEL: overrides default_model
//   - ONNXBENCH_NO_COLOR / NO_COLOR: disables color output
func (c *Config) ApplyEnvOverrides() {
	if server := os.Getenv("ONNXBENCH_SERVER"); server != "" {
		c.Server.URL = server
	}

	if timeout := os.Getenv("ONNXBENCH_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.Server.TimeoutSecs = secs
		}
	}

	if model := os.Getenv("ONNXBENCH_MODEL"); model != "" {
		c.DefaultModel = model
	}

	if noColor := os.Getenv("ONNXBENCH_NO_COLOR"); noColor != "" {
		c.Output.Color = !(noColor == "1" || strings.ToLower(noColor) == "true")
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Output.Color = false
	}
}
