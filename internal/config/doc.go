// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for onnxbench.
//
// Configuration is stored as TOML with sensible defaults, environment
// variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Inference server connection settings
//   - BenchConfig: Default benchmark parameters
//   - OutputConfig: Terminal output settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ONNXBENCH_*)
//   - ~/.onnxbench/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	server := cfg.Server.URL
//	timeout := cfg.Server.TimeoutSecs
package config
