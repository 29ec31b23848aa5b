// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for clause.
//
// Supports TOML configuration with migration from the legacy JSON format,
// sensible defaults, environment variable overrides, and validation. The
// Anthropic API key is stored in a separate 0600 file and never serialized
// into the config.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Anthropic API client settings
//   - TranscriptsConfig / LedgerConfig / EventsConfig: persistence settings
//   - Watcher: fsnotify-based live reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CLAUSE_*, ANTHROPIC_API_KEY for the key)
//   - ~/.clause/config.toml
//   - ~/.clause/config.json (legacy, migrated to TOML on load)
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
//	model := cfg.DefaultModel
//	root := cfg.ProjectFolder
package config
