// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for clause.
//
// Supports TOML configuration with migration from the legacy JSON format,
// sensible defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.clause/config.toml
//   - ~/.clause/config.json (legacy, migrated to TOML on load)
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete clause configuration.
//
// SECURITY: The API key is deliberately not a field here. It lives in a
// separate 0600 file (see apikey.go) so saving the config never serializes
// the credential.
type Config struct {
	// General settings
	Version      string `toml:"version" json:"version"`
	DefaultModel string `toml:"default_model" json:"default_model"`

	// MaxTokens is the per-response output token cap sent to the API.
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
	// Temperature is the sampling temperature (0.0-1.0).
	Temperature float64 `toml:"temperature" json:"temperature"`

	// FestiveMode controls the seasonal greetings and banner art.
	FestiveMode bool `toml:"festive_mode" json:"festive_mode"`
	// Theme selects the string tables: "festive" or "grinch".
	Theme string `toml:"theme" json:"theme"`

	// ProjectFolder is the directory extracted files are written under.
	// Empty means extraction is disabled; it is never defaulted to the
	// current working directory.
	ProjectFolder string `toml:"project_folder" json:"project_folder"`

	// API configuration
	API APIConfig `toml:"api" json:"api"`

	// Input history configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Transcript store configuration
	Transcripts TranscriptsConfig `toml:"transcripts" json:"transcripts"`

	// Extraction ledger configuration
	Ledger LedgerConfig `toml:"ledger" json:"ledger"`

	// Event log configuration
	Events EventsConfig `toml:"events" json:"events"`
}

// APIConfig contains Anthropic API client configuration.
type APIConfig struct {
	// BaseURL is the API endpoint base (empty = https://api.anthropic.com).
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSeconds is the non-streaming request timeout.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`
	// MaxRetries bounds retries on rate-limit and overloaded responses.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// HistoryConfig contains REPL input history configuration.
type HistoryConfig struct {
	// Enabled controls whether input lines are persisted between sessions.
	Enabled bool `toml:"enabled" json:"enabled"`
	// File is the history file path (empty = ~/.clause/history).
	File string `toml:"file" json:"file"`
	// MaxEntries caps the number of persisted input lines.
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// TranscriptsConfig contains conversation transcript store configuration.
type TranscriptsConfig struct {
	// Enabled controls whether /save and session autosave work.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Dir is the transcript directory (empty = ~/.clause/transcripts).
	Dir string `toml:"dir" json:"dir"`
	// MaxSessions caps stored transcripts; oldest are pruned past it.
	MaxSessions int `toml:"max_sessions" json:"max_sessions"`
}

// LedgerConfig contains extraction ledger configuration.
type LedgerConfig struct {
	// Enabled controls whether write batches are recorded.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database path (empty = ~/.clause/ledger.db).
	Path string `toml:"path" json:"path"`
}

// EventsConfig contains application event log configuration.
type EventsConfig struct {
	// Enabled controls whether application events are appended.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the JSONL log path (empty = ~/.clause/events.jsonl).
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:      "1.0.0",
		DefaultModel: "claude-sonnet-4-5-20250929",
		MaxTokens:    64000,
		Temperature:  0.2,
		FestiveMode:  true,
		Theme:        "festive",

		API: APIConfig{
			BaseURL:        "https://api.anthropic.com",
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},

		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},

		Transcripts: TranscriptsConfig{
			Enabled:     true,
			MaxSessions: 100,
		},

		Ledger: LedgerConfig{
			Enabled: true,
		},

		Events: EventsConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the clause configuration directory path.
// The CLAUSE_CONFIG_DIR environment variable overrides the default ~/.clause.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CLAUSE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".clause"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the legacy JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
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

// Load loads configuration from the config file(s).
// Tries TOML first, then the legacy JSON format (which is migrated and
// re-saved as TOML), and falls back to defaults. Environment overrides are
// applied last, then validation.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try the legacy JSON format as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadLegacyJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load legacy JSON config: %w", err)
			} else {
				// Migrate: re-save as TOML so the next load skips JSON.
				// A migration failure is not fatal; JSON stays the source.
				if tomlPath != "" {
					_ = SaveTOML(cfg, tomlPath)
				}
				return finishLoad(cfg)
			}
		}
	}

	// Defaults (with any load error for informational purposes)
	cfg2, err := finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg2, loadErr
}

// finishLoad applies env overrides, fills defaults, and validates.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// legacyConfig mirrors the original tool's config.json schema.
type legacyConfig struct {
	APIKey        string `json:"api_key"`
	DefaultModel  string `json:"default_model"`
	FestiveMode   *bool  `json:"festive_mode"`
	ProjectFolder string `json:"project_folder"`
	Theme         string `json:"theme"`
}

// LoadLegacyJSON loads the original tool's JSON config into cfg.
// Only the fields the legacy format carried are taken; everything else keeps
// its current (default) value. A legacy inline api_key, if present, is moved
// to the separate key file and never re-serialized.
func LoadLegacyJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}

	if legacy.DefaultModel != "" {
		cfg.DefaultModel = legacy.DefaultModel
	}
	if legacy.FestiveMode != nil {
		cfg.FestiveMode = *legacy.FestiveMode
	}
	if legacy.ProjectFolder != "" {
		cfg.ProjectFolder = legacy.ProjectFolder
	}
	if legacy.Theme != "" {
		cfg.Theme = legacy.Theme
	}

	// SECURITY: Some very old configs stored the key inline. Move it to the
	// 0600 key file; the TOML format never carries it.
	if legacy.APIKey != "" {
		if _, kerr := LoadAPIKeyFile(); kerr != nil {
			_ = SaveAPIKey(legacy.APIKey)
		}
	}

	return nil
}

// LoadFromPath loads configuration from a specific TOML file path with full
// validation. Used by tests and the config subcommand.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	// Write header comment
	fmt.Fprintln(file, "# clause configuration file")
	fmt.Fprintln(file, "# Generated by clause - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# The API key is stored separately; it never appears in this file.")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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

	if strings.TrimSpace(c.DefaultModel) == "" {
		errs = append(errs, ValidationError{
			Field:   "default_model",
			Message: "must not be empty",
		})
	}

	if c.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "max_tokens",
			Message: fmt.Sprintf("must be positive, got %d", c.MaxTokens),
		})
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		errs = append(errs, ValidationError{
			Field:   "temperature",
			Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", c.Temperature),
		})
	}

	validThemes := map[string]bool{"festive": true, "grinch": true}
	if !validThemes[strings.ToLower(c.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: festive, grinch", c.Theme),
		})
	}

	// SECURITY: The extraction pipeline anchors every write under the
	// project folder, so a relative folder would make the anchor depend on
	// where clause happened to be started. Absolute only.
	if c.ProjectFolder != "" && !filepath.IsAbs(c.ProjectFolder) {
		errs = append(errs, ValidationError{
			Field:   "project_folder",
			Message: fmt.Sprintf("must be an absolute path, got '%s'", c.ProjectFolder),
		})
	}

	if c.API.BaseURL != "" {
		if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.API.BaseURL),
			})
		}
	}

	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_seconds",
			Message: "must be non-negative",
		})
	}

	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "api.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.API.MaxRetries),
		})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: "must be non-negative",
		})
	}

	if c.Transcripts.MaxSessions < 0 {
		errs = append(errs, ValidationError{
			Field:   "transcripts.max_sessions",
			Message: "must be non-negative",
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

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.DefaultModel == "" {
		c.DefaultModel = defaults.DefaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaults.MaxTokens
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = defaults.API.TimeoutSeconds
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = defaults.API.MaxRetries
	}

	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.Transcripts.MaxSessions == 0 {
		c.Transcripts.MaxSessions = defaults.Transcripts.MaxSessions
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CLAUSE_MODEL: overrides default_model
//   - CLAUSE_PROJECT: overrides project_folder
//   - CLAUSE_THEME: overrides theme
//   - CLAUSE_API_URL: overrides api.base_url
//
// ANTHROPIC_API_KEY is handled by the key loader, not here (the key is not
// part of the config).
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("CLAUSE_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if project := os.Getenv("CLAUSE_PROJECT"); project != "" {
		c.ProjectFolder = project
	}
	if theme := os.Getenv("CLAUSE_THEME"); theme != "" {
		c.Theme = theme
	}
	if base := os.Getenv("CLAUSE_API_URL"); base != "" {
		c.API.BaseURL = base
	}
}

// =============================================================================
// PROJECT FOLDER VALIDATION
// =============================================================================

// ValidateProjectFolder checks that a candidate project folder is usable as
// an extraction root: non-empty, absolute, and an existing directory (or
// creatable). Returns the cleaned path.
func ValidateProjectFolder(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("project folder is not set")
	}
	if !filepath.IsAbs(dir) {
		return "", fmt.Errorf("project folder must be an absolute path, got '%s'", dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("project folder '%s' exists but is not a directory", dir)
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("cannot create project folder '%s': %w", dir, err)
		}
	case err != nil:
		return "", fmt.Errorf("cannot access project folder '%s': %w", dir, err)
	}

	return dir, nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "api.max_retries").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"default_model",
		"max_tokens",
		"temperature",
		"festive_mode",
		"theme",
		"project_folder",
		"api.base_url",
		"api.timeout_seconds",
		"api.max_retries",
		"history.enabled",
		"history.file",
		"history.max_entries",
		"transcripts.enabled",
		"transcripts.dir",
		"transcripts.max_sessions",
		"ledger.enabled",
		"ledger.path",
		"events.enabled",
		"events.path",
	}
}

// Clone creates a copy of the configuration. All fields are value types, so
// a struct copy is a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// The API key is not part of the struct, so there is nothing to redact.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
