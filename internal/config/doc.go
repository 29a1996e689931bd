// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aurora.
//
// Configuration is TOML, with sensible defaults, environment variable
// overrides, and validation.
//
// # Key Types
//
//   - Config: main configuration structure
//   - OllamaConfig: server URL, model, system prompt and timeouts
//   - BreakerConfig: circuit breaker around the backend
//   - UIConfig: renderer backend, tick rate, greeting and palette
//   - LogConfig: log file and level
//
// # Configuration Precedence
//
// Configuration is resolved from (highest first):
//   - Command line flags (applied by the cli package)
//   - Environment variables (AURORA_*)
//   - ~/.aurora/config.toml, or the file given with --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil && cfg == nil {
//	    return err
//	}
//	model := cfg.Ollama.Model
package config
