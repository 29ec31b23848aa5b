// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat loop.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/ledger"
	"github.com/frostbitlabs/clause/internal/storage"
	"github.com/frostbitlabs/clause/internal/theme"
	"github.com/frostbitlabs/clause/internal/util"
)

// queryTimeout bounds ledger queries issued from command handlers.
const queryTimeout = 5 * time.Second

// =============================================================================
// NAVIGATION
// =============================================================================

// HandleHelp lists visible commands grouped by category.
func HandleHelp(ctx *Context, args []string) (*Result, error) {
	registry := NewRegistry()
	byCategory := registry.ByCategory()

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, cat := range categories {
		cmds := byCategory[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		sb.WriteString("\n" + cat + ":\n")
		for _, cmd := range cmds {
			name := cmd.Name
			if cmd.Usage != "" {
				name = cmd.Usage
			}
			sb.WriteString("  " + util.PadRight(name, 24) + " " + cmd.Description)
			if len(cmd.Aliases) > 0 {
				sb.WriteString(" (" + strings.Join(cmd.Aliases, ", ") + ")")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nAnything else you type is sent to the model.")

	return &Result{Output: sb.String()}, nil
}

// HandleQuit ends the chat loop.
func HandleQuit(ctx *Context, args []string) (*Result, error) {
	out := "Goodbye!"
	if ctx.Theme != nil {
		out = ctx.Theme.RandomFarewell()
	}
	return &Result{Output: out, Quit: true}, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

// HandleNew starts a fresh conversation.
func HandleNew(ctx *Context, args []string) (*Result, error) {
	return &Result{Output: "Started a new conversation.", NewSession: true}, nil
}

// HandleSave persists the current conversation.
func HandleSave(ctx *Context, args []string) (*Result, error) {
	if ctx.Store == nil {
		return nil, errors.New("transcript store not available")
	}
	if ctx.Session == nil || len(ctx.Session.Messages) == 0 {
		return &Result{Output: "Nothing to save yet."}, nil
	}

	t := &storage.Transcript{
		ID:         ctx.Session.ID,
		Model:      ctx.Session.Model,
		CreatedAt:  ctx.Session.StartedAt,
		Messages:   ctx.Session.Messages,
		TokensUsed: ctx.Session.TokensUsed,
	}
	if ctx.Config != nil {
		t.ProjectFolder = ctx.Config.ProjectFolder
	}

	id, err := ctx.Store.Save(t)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &Result{Output: "Saved session " + util.TruncateRunesNoEllipsis(id, 8) + " (" +
		util.IntToStr(len(t.Messages)) + " messages)."}, nil
}

// HandleSessions lists saved sessions.
func HandleSessions(ctx *Context, args []string) (*Result, error) {
	if ctx.Store == nil {
		return nil, errors.New("transcript store not available")
	}
	metas, err := ctx.Store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return &Result{Output: storage.FormatSessionList(metas)}, nil
}

// HandleLoad loads a saved session by ID prefix.
func HandleLoad(ctx *Context, args []string) (*Result, error) {
	if ctx.Store == nil {
		return nil, errors.New("transcript store not available")
	}
	if len(args) == 0 {
		return nil, errors.New("usage: /load <session_id>")
	}

	t, err := ctx.Store.LoadByPrefix(args[0])
	if err != nil {
		return nil, err
	}

	return &Result{
		Output: "Loaded session " + util.TruncateRunesNoEllipsis(t.ID, 8) + " (" +
			util.IntToStr(len(t.Messages)) + " messages).",
		Load: t,
	}, nil
}

// HandleExport writes the current conversation to a file in the working
// directory.
func HandleExport(ctx *Context, args []string) (*Result, error) {
	if ctx.Session == nil || len(ctx.Session.Messages) == 0 {
		return &Result{Output: "Nothing to export yet."}, nil
	}

	format := "md"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}

	t := &storage.Transcript{
		ID:        ctx.Session.ID,
		Model:     ctx.Session.Model,
		CreatedAt: ctx.Session.StartedAt,
		Messages:  ctx.Session.Messages,
	}

	var data []byte
	switch format {
	case "md":
		data = []byte(t.ExportMarkdown())
	case "txt":
		data = []byte(t.ExportText())
	case "json":
		var err error
		data, err = t.ExportJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode session: %w", err)
		}
	default:
		return nil, errors.New("unknown export format (want md, json, or txt)")
	}

	filename := "clause-session-" + util.TruncateRunesNoEllipsis(t.ID, 8) + "." + format
	if err := util.AtomicWriteFile(filename, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	return &Result{Output: "Exported to " + filename}, nil
}

// HandleHistory prints the current conversation.
func HandleHistory(ctx *Context, args []string) (*Result, error) {
	if ctx.Session == nil || len(ctx.Session.Messages) == 0 {
		return &Result{Output: "No messages in this session yet."}, nil
	}

	var sb strings.Builder
	for i, msg := range ctx.Session.Messages {
		prefix := "You"
		if msg.Role == "assistant" {
			prefix = "Clause"
		}
		sb.WriteString(util.IntToStr(i+1) + ". " + prefix + ": " +
			util.TruncateRunes(strings.ReplaceAll(msg.Content, "\n", " "), 80) + "\n")
	}
	return &Result{Output: strings.TrimRight(sb.String(), "\n")}, nil
}

// =============================================================================
// EXTRACTION
// =============================================================================

// HandleFiles shows extraction outcomes from the ledger.
func HandleFiles(ctx *Context, args []string) (*Result, error) {
	if ctx.Ledger == nil {
		return nil, errors.New("extraction ledger not available")
	}

	qctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	all := len(args) > 0 && strings.EqualFold(args[0], "all")

	if all || ctx.Session == nil {
		list, err := ctx.Ledger.Recent(qctx, 20)
		if err != nil {
			return nil, err
		}
		return &Result{Output: formatLedgerEntries(list, "Recent extractions:")}, nil
	}

	list, err := ctx.Ledger.BySession(qctx, ctx.Session.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Output: formatLedgerEntries(list, "Files from this session:")}, nil
}

// HandleProject shows or sets the project folder.
func HandleProject(ctx *Context, args []string) (*Result, error) {
	if ctx.Config == nil {
		return nil, errors.New("configuration not available")
	}

	if len(args) == 0 {
		if ctx.Config.ProjectFolder == "" {
			return &Result{Output: "No project folder set. Use /project <path> to pick one; extracted files go there."}, nil
		}
		return &Result{Output: "Project folder: " + ctx.Config.ProjectFolder}, nil
	}

	resolved, err := config.ValidateProjectFolder(args[0])
	if err != nil {
		return nil, err
	}

	ctx.Config.ProjectFolder = resolved
	if err := config.Save(ctx.Config); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	if ctx.Events != nil {
		sessionID := ""
		if ctx.Session != nil {
			sessionID = ctx.Session.ID
		}
		_ = ctx.Events.LogConfigChange(sessionID, "project_folder", resolved)
	}

	return &Result{Output: "Project folder set to " + resolved}, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// HandleSetKey stores the Anthropic API key. With no argument the key is
// read without echo, so it never reaches the terminal or input history.
func HandleSetKey(ctx *Context, args []string) (*Result, error) {
	var key string
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("usage: /setkey <api_key> (hidden prompt needs a terminal)")
		}
		fmt.Print("API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		key = strings.TrimSpace(string(raw))
	}

	if key == "" {
		return nil, errors.New("no key entered")
	}
	if err := config.SaveAPIKey(key); err != nil {
		return nil, fmt.Errorf("failed to save API key: %w", err)
	}

	return &Result{Output: "API key saved (" + config.MaskKey(key) + "). Restart the session to use it."}, nil
}

// HandleConfig shows or edits configuration values.
func HandleConfig(ctx *Context, args []string) (*Result, error) {
	if ctx.Config == nil {
		return nil, errors.New("configuration not available")
	}

	switch len(args) {
	case 0:
		var sb strings.Builder
		sb.WriteString("Configuration:\n")
		for _, key := range config.GetAllKeys() {
			val, err := ctx.Config.Get(key)
			if err != nil {
				continue
			}
			sb.WriteString("  " + util.PadRight(key, 24) + " " + fmt.Sprintf("%v", val) + "\n")
		}
		return &Result{Output: strings.TrimRight(sb.String(), "\n")}, nil

	case 1:
		val, err := ctx.Config.Get(args[0])
		if err != nil {
			return nil, err
		}
		return &Result{Output: args[0] + " = " + fmt.Sprintf("%v", val)}, nil

	default:
		if err := ctx.Config.Set(args[0], strings.Join(args[1:], " ")); err != nil {
			return nil, err
		}
		if err := ctx.Config.Validate(); err != nil {
			return nil, err
		}
		if err := config.Save(ctx.Config); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		if ctx.Events != nil {
			sessionID := ""
			if ctx.Session != nil {
				sessionID = ctx.Session.ID
			}
			_ = ctx.Events.LogConfigChange(sessionID, args[0], strings.Join(args[1:], " "))
		}
		return &Result{Output: "Set " + args[0]}, nil
	}
}

// HandleTheme shows or switches the display theme.
func HandleTheme(ctx *Context, args []string) (*Result, error) {
	if len(args) == 0 {
		name := "festive"
		if ctx.Theme != nil {
			name = ctx.Theme.Name
		}
		return &Result{Output: "Current theme: " + name + " (available: " + strings.Join(theme.Names(), ", ") + ")"}, nil
	}
	return switchTheme(ctx, strings.ToLower(args[0]))
}

// HandleSanta switches to the festive theme.
func HandleSanta(ctx *Context, args []string) (*Result, error) {
	return switchTheme(ctx, "festive")
}

// HandleGrinch switches to the grinch theme.
func HandleGrinch(ctx *Context, args []string) (*Result, error) {
	return switchTheme(ctx, "grinch")
}

func switchTheme(ctx *Context, name string) (*Result, error) {
	th := theme.ForName(name)

	if ctx.Config != nil {
		ctx.Config.Theme = th.Name
		if err := config.Save(ctx.Config); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
	}

	return &Result{
		Output:       th.Emoji + " Switched to the " + th.Name + " theme.",
		ThemeChanged: th,
	}, nil
}

// HandleStatus shows detailed status information.
func HandleStatus(ctx *Context, args []string) (*Result, error) {
	var sb strings.Builder
	sb.WriteString("Status:\n")

	if ctx.Session != nil {
		sb.WriteString("  Session:        " + util.TruncateRunesNoEllipsis(ctx.Session.ID, 8) + "\n")
		sb.WriteString("  Messages:       " + util.IntToStr(len(ctx.Session.Messages)) + "\n")
		if ctx.Session.TokensUsed > 0 {
			sb.WriteString("  Tokens used:    " + util.IntToStr(ctx.Session.TokensUsed) + "\n")
		}
	}

	if ctx.Config != nil {
		sb.WriteString("  Model:          " + ctx.Config.DefaultModel + "\n")
		sb.WriteString("  Theme:          " + ctx.Config.Theme + "\n")
		folder := ctx.Config.ProjectFolder
		if folder == "" {
			folder = "(not set - extraction disabled)"
		}
		sb.WriteString("  Project folder: " + folder + "\n")
	}

	key := "missing"
	if config.HasAPIKey() {
		key = "configured"
	}
	sb.WriteString("  API key:        " + key + "\n")

	if ctx.Ledger != nil {
		qctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		if stats, err := ctx.Ledger.GetStats(qctx); err == nil {
			sb.WriteString("  Files written:  " + util.IntToStr(stats.Written) +
				" (" + util.IntToStr(stats.Rejected) + " rejected, " +
				util.IntToStr(stats.Failed) + " failed)\n")
		}
	}

	if ctx.Events != nil && ctx.Events.Enabled() {
		sb.WriteString("  Event log:      " + ctx.Events.Path() + "\n")
	}

	return &Result{Output: strings.TrimRight(sb.String(), "\n")}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// formatLedgerEntries renders ledger rows as a display table.
func formatLedgerEntries(entries []ledger.Entry, header string) string {
	if len(entries) == 0 {
		return "No extractions recorded."
	}

	var sb strings.Builder
	sb.WriteString(header + "\n")
	sb.WriteString(util.PadRight("When", 17) + " " + util.PadRight("Action", 10) + " " +
		util.PadRight("Outcome", 16) + " Path\n")
	for _, e := range entries {
		sb.WriteString(util.PadRight(e.At.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(e.Action, 10) + " " +
			util.PadRight(e.Outcome, 16) + " " + e.Path + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
