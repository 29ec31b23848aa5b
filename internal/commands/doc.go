// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
//
// Commands are registered in a Registry, parsed with a quote-aware Parser,
// and executed through handler functions that receive a Context with the
// application's services. Handlers return a Result telling the chat loop
// what to do next (print output, quit, swap the conversation, change the
// theme).
//
// # Key Types
//
//   - Registry: command registration and lookup by name or alias
//   - Parser: parses "/load abc 'two words'" into command + args
//   - Context: dependency injection for handlers
//   - Result: the loop-facing outcome of one command
//   - Completer: tab completion for command names and arguments
//
// # Adding a Command
//
//	registry.Register(&commands.Command{
//	    Name:        "/example",
//	    Description: "Example command",
//	    Category:    "Settings",
//	    Handler: func(ctx *commands.Context, args []string) (*commands.Result, error) {
//	        return &commands.Result{Output: "done"}, nil
//	    },
//	})
package commands
