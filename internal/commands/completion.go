// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and arguments. Complete
// returns full input lines, which is the shape the line editor expects.
type Completer struct {
	registry *Registry

	// Callbacks for dynamic completion, set by the chat loop.
	SessionsFn func() []string // Returns saved session ids
	ConfigFn   func() []string // Returns config keys
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{
		registry: registry,
	}
}

// Complete returns full-line completions for the given input.
func (c *Completer) Complete(input string) []string {
	trimmed := strings.TrimSpace(input)

	// Only commands complete; prose goes to the model as-is.
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	parts := splitCommandLine(trimmed)
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the command name?
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	// Determine which argument we're completing
	argIndex := len(parts) - 2 // -1 for command, -1 for 0-based index
	partial := ""
	if strings.HasSuffix(input, " ") {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}

	values := c.completeArg(cmd, argIndex, partial)
	if len(values) == 0 {
		return nil
	}

	// Rebuild full lines: everything typed so far plus each candidate.
	prefix := strings.Join(parts[:len(parts)-1], " ")
	if strings.HasSuffix(input, " ") {
		prefix = strings.Join(parts, " ")
	}
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, prefix+" "+v)
	}
	return lines
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

// completeCommands returns matching command names.
func (c *Completer) completeCommands(partial string) []string {
	partial = strings.ToLower(partial)

	var names []string
	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(strings.ToLower(cmd.Name), partial) {
			names = append(names, cmd.Name)
		}
		for _, alias := range cmd.Aliases {
			if partial != "" && strings.HasPrefix(strings.ToLower(alias), partial) {
				names = append(names, alias)
			}
		}
	}

	sort.Strings(names)
	return names
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

// completeArg returns candidate values for a command argument.
func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []string {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	arg := cmd.Args[argIndex]

	switch arg.Type {
	case ArgTypeSession:
		return c.completeDynamic(c.SessionsFn, partial)
	case ArgTypeConfig:
		return c.completeDynamic(c.ConfigFn, partial)
	case ArgTypeEnum:
		return filterPrefix(arg.Values, partial)
	case ArgTypeFile:
		return completeFiles(partial)
	default:
		return nil
	}
}

// completeDynamic filters values from an optional callback.
func (c *Completer) completeDynamic(fn func() []string, partial string) []string {
	if fn == nil {
		return nil
	}
	return filterPrefix(fn(), partial)
}

// filterPrefix keeps values with the given case-insensitive prefix.
func filterPrefix(values []string, partial string) []string {
	partial = strings.ToLower(partial)
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), partial) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// completeFiles returns directory entries matching a path prefix.
func completeFiles(partial string) []string {
	dir := filepath.Dir(partial)
	if partial == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	base := filepath.Base(partial)
	if partial == "" || strings.HasSuffix(partial, string(filepath.Separator)) {
		base = ""
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if base != "" && !strings.HasPrefix(name, base) {
			continue
		}
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			full += string(filepath.Separator)
		}
		out = append(out, full)
	}

	sort.Strings(out)
	return out
}
