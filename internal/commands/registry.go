// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
package commands

import (
	"time"

	"github.com/frostbitlabs/clause/internal/anthropic"
	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/eventlog"
	"github.com/frostbitlabs/clause/internal/ledger"
	"github.com/frostbitlabs/clause/internal/storage"
	"github.com/frostbitlabs/clause/internal/theme"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/load <session_id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) (*Result, error)

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeSession                // Session ID from saved sessions
	ArgTypeFile                   // File path
	ArgTypeEnum                   // One of predefined values
	ArgTypeConfig                 // Config key
)

// =============================================================================
// RESULT
// =============================================================================

// Result tells the chat loop what to do after a command ran. Handlers do
// their own side effects (saving, config edits); the loop only acts on the
// fields below.
type Result struct {
	// Output is printed to the user.
	Output string

	// Quit ends the chat loop.
	Quit bool

	// NewSession discards the in-memory conversation and starts fresh.
	NewSession bool

	// Load replaces the in-memory conversation with a saved transcript.
	Load *storage.Transcript

	// ThemeChanged is the new theme when a command switched it.
	ThemeChanged *theme.Theme
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Handler:     HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit clause",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n", "/clear"},
		Description: "Start a new conversation",
		Category:    "Conversation",
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save current conversation",
		Category:    "Conversation",
		Handler:     HandleSave,
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/list"},
		Description: "List saved sessions",
		Category:    "Conversation",
		Handler:     HandleSessions,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l", "/resume"},
		Description: "Load a saved conversation",
		Usage:       "/load <session_id>",
		Args: []ArgDef{
			{Name: "session_id", Required: true, Type: ArgTypeSession, Description: "ID (or prefix) of the session to load"},
		},
		Category: "Conversation",
		Handler:  HandleLoad,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export conversation to file",
		Usage:       "/export [md|json|txt]",
		Args: []ArgDef{
			{Name: "format", Required: false, Type: ArgTypeEnum, Values: []string{"md", "json", "txt"}, Description: "Export format"},
		},
		Category: "Conversation",
		Handler:  HandleExport,
	})

	r.Register(&Command{
		Name:        "/history",
		Description: "Show the current conversation",
		Category:    "Conversation",
		Handler:     HandleHistory,
	})

	// Extraction commands
	r.Register(&Command{
		Name:        "/files",
		Description: "Show files written by recent extractions",
		Usage:       "/files [all]",
		Args: []ArgDef{
			{Name: "scope", Required: false, Type: ArgTypeEnum, Values: []string{"all"}, Description: "Show all sessions, not just this one"},
		},
		Category: "Extraction",
		Handler:  HandleFiles,
	})

	r.Register(&Command{
		Name:        "/project",
		Description: "Show or set the project folder for extracted files",
		Usage:       "/project [path]",
		Args: []ArgDef{
			{Name: "path", Required: false, Type: ArgTypeFile, Description: "Project folder path"},
		},
		Category: "Extraction",
		Handler:  HandleProject,
	})

	// Settings commands
	r.Register(&Command{
		Name:        "/setkey",
		Description: "Store your Anthropic API key",
		Usage:       "/setkey",
		Args: []ArgDef{
			{Name: "api_key", Required: false, Type: ArgTypeString, Description: "Anthropic API key (omit to be prompted without echo)"},
		},
		Category: "Settings",
		Handler:  HandleSetKey,
	})

	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Required: false, Type: ArgTypeConfig, Description: "Config key to show/set"},
			{Name: "value", Required: false, Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Switch the display theme",
		Usage:       "/theme [name]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeEnum, Values: theme.Names(), Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  HandleTheme,
	})

	r.Register(&Command{
		Name:        "/santa",
		Description: "Switch to the festive theme",
		Category:    "Settings",
		Hidden:      true,
		Handler:     HandleSanta,
	})

	r.Register(&Command{
		Name:        "/grinch",
		Description: "Switch to the grinch theme",
		Category:    "Settings",
		Hidden:      true,
		Handler:     HandleGrinch,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show detailed status information",
		Category:    "Settings",
		Handler:     HandleStatus,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// It follows the dependency injection pattern, allowing handlers to access
// services without direct coupling to the chat loop.
//
// All fields are optional and may be nil - handlers check before use.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Client is the Anthropic API client
	Client *anthropic.Client

	// Store handles transcript persistence
	Store *storage.TranscriptStore

	// Ledger records extraction outcomes
	Ledger *ledger.Ledger

	// Events is the application event log
	Events *eventlog.Logger

	// Theme is the active display theme
	Theme *theme.Theme

	// Session is the live conversation state, set by the chat loop before
	// each dispatch
	Session *SessionState
}

// SessionState is the chat loop's view of the running conversation, handed
// to handlers read-only. Mutations happen through Result fields.
type SessionState struct {
	ID         string
	Model      string
	Messages   []storage.TranscriptMessage
	TokensUsed int
	StartedAt  time.Time
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be nil.
func NewContext(cfg *config.Config, client *anthropic.Client, store *storage.TranscriptStore, led *ledger.Ledger, events *eventlog.Logger, th *theme.Theme) *Context {
	return &Context{
		Config: cfg,
		Client: client,
		Store:  store,
		Ledger: led,
		Events: events,
		Theme:  th,
	}
}
