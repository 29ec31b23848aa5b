// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run setup for clause.
//
// Setup collects the three things chat cannot work without sensible values
// for: the API key, the project folder, and the theme. It runs on demand
// via "clause setup" and automatically when chat starts with no key.
// The clause-setup binary offers the same flow with a full-screen UI.

package cli

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/theme"
)

// RunSetup walks through interactive configuration.
func RunSetup(args *Args, cfg *config.Config) error {
	if err := RequiresTTY("run setup"); err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("clause setup"))
	fmt.Println()

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	if err := setupAPIKey(line); err != nil {
		return err
	}
	if err := setupProjectFolder(line, cfg); err != nil {
		return err
	}
	if err := setupTheme(line, cfg); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return ConfigError("failed to save configuration", err)
	}
	config.SetGlobal(cfg)

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Setup complete.") + " Run " + ValueStyle.Render("clause") + " to start chatting.")
	return nil
}

// setupAPIKey prompts for and stores the API key. An existing key can be
// kept by leaving the prompt empty.
func setupAPIKey(line *liner.State) error {
	if key, err := config.LoadAPIKey(); err == nil {
		fmt.Println("API key:          " + config.MaskKey(key) + DimStyle.Render(" (press enter to keep)"))
	} else {
		fmt.Println("An Anthropic API key is required. Create one at " +
			ValueStyle.Render("https://console.anthropic.com/settings/keys"))
	}

	// SECURITY: the key is read without echo and never written to history.
	input, err := line.PasswordPrompt("API key: ")
	if err == liner.ErrPromptAborted {
		return NewCommandError(ExitInterrupted, "setup cancelled")
	}
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		if config.HasAPIKey() {
			return nil
		}
		return NewCommandError(ExitAuthError, "no API key provided")
	}

	if err := config.SaveAPIKey(input); err != nil {
		return ConfigError("failed to store API key", err)
	}
	fmt.Println(SuccessStyle.Render("✓") + " Key stored (" + config.MaskKey(input) + ")")
	return nil
}

// setupProjectFolder prompts for the extraction root. Empty keeps the
// current value; extraction stays disabled until a folder is set.
func setupProjectFolder(line *liner.State, cfg *config.Config) error {
	fmt.Println()
	fmt.Println("The project folder is where extracted files are written.")
	if cfg.ProjectFolder != "" {
		fmt.Println("Current: " + ValueStyle.Render(cfg.ProjectFolder) + DimStyle.Render(" (press enter to keep)"))
	} else {
		fmt.Println(DimStyle.Render("Leave empty to skip; extraction stays disabled until one is set."))
	}

	input, err := line.Prompt("Project folder: ")
	if err == liner.ErrPromptAborted {
		return NewCommandError(ExitInterrupted, "setup cancelled")
	}
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	resolved, err := config.ValidateProjectFolder(input)
	if err != nil {
		return UsageError("invalid project folder: %v", err)
	}
	cfg.ProjectFolder = resolved
	fmt.Println(SuccessStyle.Render("✓") + " Project folder set to " + resolved)
	return nil
}

// setupTheme prompts for the display theme.
func setupTheme(line *liner.State, cfg *config.Config) error {
	fmt.Println()
	names := theme.Names()
	fmt.Println("Theme (" + strings.Join(names, ", ") + "), current: " + ValueStyle.Render(cfg.Theme))

	input, err := line.Prompt("Theme: ")
	if err == liner.ErrPromptAborted {
		return NewCommandError(ExitInterrupted, "setup cancelled")
	}
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}

	for _, name := range names {
		if input == name {
			cfg.Theme = name
			fmt.Println(SuccessStyle.Render("✓") + " Theme set to " + name)
			return nil
		}
	}
	return UsageError("unknown theme %q (want one of: %s)", input, strings.Join(names, ", "))
}
