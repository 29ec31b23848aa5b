// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Command-line argument parsing for clause.
//
// Parsing is done by hand rather than with the flag package so that global
// flags may appear before or after the subcommand and so unknown flags
// produce a usage error instead of a panic-formatted message.

package cli

import (
	"strings"
)

// =============================================================================
// COMMAND ENUM
// =============================================================================

// Command identifies which subcommand was requested.
type Command int

const (
	// CommandChat starts the interactive chat loop (the default).
	CommandChat Command = iota

	// CommandAsk sends a single prompt and prints the response.
	CommandAsk

	// CommandExtract runs the extraction pipeline over saved text.
	CommandExtract

	// CommandSetup runs first-run setup.
	CommandSetup

	// CommandConfig shows or edits configuration.
	CommandConfig

	// CommandVersion prints version information.
	CommandVersion

	// CommandHelp prints usage.
	CommandHelp
)

// String returns the subcommand name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CommandChat:
		return "chat"
	case CommandAsk:
		return "ask"
	case CommandExtract:
		return "extract"
	case CommandSetup:
		return "setup"
	case CommandConfig:
		return "config"
	case CommandVersion:
		return "version"
	case CommandHelp:
		return "help"
	default:
		return "unknown"
	}
}

// =============================================================================
// PARSED ARGUMENTS
// =============================================================================

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Prompt is the joined positional text for ask.
	Prompt string

	// InputFile is the extract source ("-" means stdin).
	InputFile string

	// Apply makes extract write files instead of previewing.
	Apply bool

	// ConfigArgs are the remaining positionals for the config subcommand
	// (e.g., ["set", "theme", "grinch"]).
	ConfigArgs []string

	// Global flags
	Model   string // --model/-m override
	Project string // --project override for the extraction root
	Theme   string // --theme override
	Quiet   bool   // -q/--quiet: suppress banners and stats
	Verbose bool   // -v/--verbose: extra diagnostics
	NoColor bool   // --no-color: force plain output
	Plain   bool   // --plain: skip markdown rendering for ask
}

// =============================================================================
// PARSER
// =============================================================================

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (*Args, error) {
	args := &Args{Command: CommandChat}

	var positionals []string
	sawCommand := false

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		switch arg {
		case "--model", "-m":
			i++
			if i >= len(argv) {
				return nil, ErrMissingArgument("--model")
			}
			args.Model = argv[i]
		case "--project", "-p":
			i++
			if i >= len(argv) {
				return nil, ErrMissingArgument("--project")
			}
			args.Project = argv[i]
		case "--theme":
			i++
			if i >= len(argv) {
				return nil, ErrMissingArgument("--theme")
			}
			args.Theme = argv[i]
		case "--file", "-f":
			i++
			if i >= len(argv) {
				return nil, ErrMissingArgument("--file")
			}
			args.InputFile = argv[i]
		case "--apply":
			args.Apply = true
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose", "-v":
			args.Verbose = true
		case "--no-color":
			args.NoColor = true
		case "--plain":
			args.Plain = true
		case "--help", "-h":
			args.Command = CommandHelp
			return args, nil
		case "--version":
			args.Command = CommandVersion
			return args, nil
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, UsageError("unknown flag: %s", arg)
			}
			if !sawCommand {
				if cmd, ok := commandForName(arg); ok {
					args.Command = cmd
					sawCommand = true
					continue
				}
			}
			positionals = append(positionals, arg)
		}
	}

	switch args.Command {
	case CommandAsk:
		if len(positionals) == 0 {
			return nil, ErrMissingArgument("prompt")
		}
		args.Prompt = strings.Join(positionals, " ")
	case CommandExtract:
		if args.InputFile == "" {
			if len(positionals) == 0 {
				return nil, ErrMissingArgument("file")
			}
			args.InputFile = positionals[0]
			positionals = positionals[1:]
		}
		if len(positionals) > 0 {
			return nil, UsageError("unexpected argument: %s", positionals[0])
		}
	case CommandConfig:
		args.ConfigArgs = positionals
	default:
		if len(positionals) > 0 {
			return nil, UsageError("unexpected argument: %s (did you mean 'clause ask %s'?)",
				positionals[0], strings.Join(positionals, " "))
		}
	}

	return args, nil
}

// commandForName maps a positional word to a subcommand.
func commandForName(name string) (Command, bool) {
	switch strings.ToLower(name) {
	case "chat":
		return CommandChat, true
	case "ask":
		return CommandAsk, true
	case "extract":
		return CommandExtract, true
	case "setup":
		return CommandSetup, true
	case "config":
		return CommandConfig, true
	case "version":
		return CommandVersion, true
	case "help":
		return CommandHelp, true
	}
	return CommandChat, false
}

// =============================================================================
// USAGE TEXT
// =============================================================================

// Usage returns the top-level usage text.
func Usage() string {
	return `clause - a festive terminal chat client for the Anthropic API

Usage:
  clause [command] [flags]

Commands:
  chat               Start an interactive chat session (default)
  ask <prompt>       Send one prompt and print the response
  extract <file>     Detect file blocks in saved text ("-" reads stdin)
  setup              Run first-time setup
  config             Show or edit configuration
  version            Print version information
  help               Show this help

Flags:
  -m, --model <id>     Override the model for this invocation
  -p, --project <dir>  Override the project folder for extraction
      --theme <name>   Override the theme (festive, grinch)
  -f, --file <path>    Input file for extract
      --apply          Write files during extract instead of previewing
      --plain          Skip markdown rendering for ask output
  -q, --quiet          Suppress banners and statistics
  -v, --verbose        Print extra diagnostics
      --no-color       Disable colored output
  -h, --help           Show this help
      --version        Print version information

Environment:
  ANTHROPIC_API_KEY    API key (overrides the stored key)
  CLAUSE_MODEL         Default model override
  CLAUSE_PROJECT       Project folder override
  CLAUSE_THEME         Theme override
  CLAUSE_CONFIG_DIR    Config directory (default ~/.clause)
  NO_COLOR             Disable colored output

In chat, type /help for the available slash commands.`
}
