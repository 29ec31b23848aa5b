// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for clause.
// apikey.go handles the Anthropic API key, which is stored outside the config
// file and never serialized with it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frostbitlabs/clause/internal/util"
)

// =============================================================================
// API KEY STORAGE
// =============================================================================

// ErrNoAPIKey is returned when no API key is configured anywhere.
var ErrNoAPIKey = errors.New("no API key configured (set ANTHROPIC_API_KEY or run /setkey)")

// apiKeyFileName is the key file under the config directory.
const apiKeyFileName = "api_key"

// APIKeyPath returns the path to the API key file.
func APIKeyPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, apiKeyFileName), nil
}

// LoadAPIKey returns the API key, preferring the ANTHROPIC_API_KEY
// environment variable over the key file. Returns ErrNoAPIKey when neither
// is set.
func LoadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		return key, nil
	}
	return LoadAPIKeyFile()
}

// LoadAPIKeyFile reads the key file, ignoring the environment.
func LoadAPIKeyFile() (string, error) {
	path, err := APIKeyPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// SaveAPIKey writes the API key to the key file.
// SECURITY: The file is created with 0600 permissions and written atomically;
// the key never passes through the config file.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := APIKeyPath()
	if err != nil {
		return err
	}

	if err := util.AtomicWriteFile(path, []byte(key+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write API key file: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the key file. Missing file is not an error.
func DeleteAPIKey() error {
	path, err := APIKeyPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove API key file: %w", err)
	}
	return nil
}

// HasAPIKey reports whether a key is available from any source.
func HasAPIKey() bool {
	_, err := LoadAPIKey()
	return err == nil
}

// MaskKey renders a key for display, keeping only a short prefix and suffix.
func MaskKey(key string) string {
	if len(key) <= 12 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
