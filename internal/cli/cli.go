// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Entry point and dispatch for the clause CLI.

package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/frostbitlabs/clause/internal/anthropic"
	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/theme"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================

// Version is the clause version, overridable at build time with
// -ldflags "-X github.com/frostbitlabs/clause/internal/cli.Version=...".
var Version = "1.0.0"

// =============================================================================
// DISPATCH
// =============================================================================

// Run parses argv and executes the requested command, returning the process
// exit code. main calls os.Exit with the result.
func Run(argv []string) int {
	args, err := Parse(argv)
	if err != nil {
		DisplayError(err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, Usage())
		return GetExitCode(err)
	}

	if args.NoColor {
		ForceColorsEnabled(false)
	}

	switch args.Command {
	case CommandHelp:
		fmt.Println(Usage())
		return ExitSuccess
	case CommandVersion:
		printVersion()
		return ExitSuccess
	}

	cfg, err := loadConfig(args)
	if err != nil {
		DisplayError(err)
		return GetExitCode(err)
	}

	switch args.Command {
	case CommandChat:
		err = RunChat(args, cfg)
	case CommandAsk:
		err = RunAsk(args, cfg)
	case CommandExtract:
		err = RunExtract(args, cfg)
	case CommandSetup:
		err = RunSetup(args, cfg)
	case CommandConfig:
		err = RunConfig(args, cfg)
	default:
		err = UsageError("unknown command")
	}

	if err != nil {
		DisplayError(err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// printVersion prints version and build information.
func printVersion() {
	fmt.Println("clause " + Version)
	fmt.Println(DimStyle.Render(runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH))
}

// =============================================================================
// SHARED CONSTRUCTION
// =============================================================================

// loadConfig loads the configuration and applies command-line overrides,
// which outrank both the file and the environment.
func loadConfig(args *Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ConfigError("failed to load configuration", err)
	}

	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}
	if args.Project != "" {
		cleaned, err := config.ValidateProjectFolder(args.Project)
		if err != nil {
			return nil, UsageError("invalid --project: %v", err)
		}
		cfg.ProjectFolder = cleaned
	}
	if args.Theme != "" {
		cfg.Theme = args.Theme
	}

	config.SetGlobal(cfg)
	return cfg, nil
}

// newClient builds the API client from config and the stored key.
func newClient(cfg *config.Config) (*anthropic.Client, error) {
	key, err := config.LoadAPIKey()
	if err != nil {
		return nil, err
	}

	clientCfg := anthropic.DefaultConfig()
	clientCfg.APIKey = key
	clientCfg.BaseURL = cfg.API.BaseURL
	clientCfg.DefaultModel = cfg.DefaultModel
	clientCfg.MaxTokens = cfg.MaxTokens
	clientCfg.Temperature = cfg.Temperature
	clientCfg.MaxRetries = cfg.API.MaxRetries
	if cfg.API.TimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second
	}

	return anthropic.NewClientWithConfig(clientCfg)
}

// activeTheme resolves the theme for this invocation. FestiveMode off forces
// the grinch theme regardless of the configured name.
func activeTheme(cfg *config.Config) *theme.Theme {
	if !cfg.FestiveMode {
		return theme.Grinch()
	}
	return theme.ForName(cfg.Theme)
}
