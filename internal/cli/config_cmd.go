// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration subcommand for clause.
//
// "clause config" mirrors the in-chat /config command for scripts and for
// editing settings without starting a session.

package cli

import (
	"fmt"
	"strings"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/util"
)

// RunConfig dispatches the config subcommand.
func RunConfig(args *Args, cfg *config.Config) error {
	sub := "list"
	rest := args.ConfigArgs
	if len(rest) > 0 {
		sub = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	switch sub {
	case "list":
		return configList(cfg)
	case "get":
		if len(rest) == 0 {
			return ErrMissingArgument("key")
		}
		return configGet(cfg, rest[0])
	case "set":
		if len(rest) < 2 {
			return UsageError("usage: clause config set <key> <value>")
		}
		return configSet(cfg, rest[0], strings.Join(rest[1:], " "))
	case "path":
		return configPath()
	default:
		return UsageError("unknown config subcommand %q (want list, get, set, or path)", sub)
	}
}

// configList prints every key and its current value.
func configList(cfg *config.Config) error {
	for _, key := range config.GetAllKeys() {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Println(util.PadRight(key, 26) + fmt.Sprintf("%v", val))
	}
	return nil
}

// configGet prints one value, bare, for shell consumption.
func configGet(cfg *config.Config, key string) error {
	val, err := cfg.Get(key)
	if err != nil {
		return UsageError("%v", err)
	}
	fmt.Printf("%v\n", val)
	return nil
}

// configSet updates one value, validates, and saves.
func configSet(cfg *config.Config, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return UsageError("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return ConfigError("invalid value", err)
	}
	if err := config.Save(cfg); err != nil {
		return ConfigError("failed to save configuration", err)
	}
	fmt.Println(SuccessStyle.Render("✓") + " " + key + " = " + value)
	return nil
}

// configPath prints the config file locations.
func configPath() error {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Println(tomlPath)

	if keyPath, err := config.APIKeyPath(); err == nil {
		fmt.Println(DimStyle.Render("API key: " + keyPath))
	}
	return nil
}
