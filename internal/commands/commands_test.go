// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/storage"
	"github.com/frostbitlabs/clause/internal/theme"
)

// newTestContext builds a context with a temp config dir and transcript
// store.
func newTestContext(t *testing.T) *Context {
	t.Helper()
	t.Setenv("CLAUSE_CONFIG_DIR", t.TempDir())

	store, err := storage.NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cfg := config.Default()
	return &Context{
		Config: cfg,
		Store:  store,
		Theme:  theme.Festive(),
		Session: &SessionState{
			ID:        "11112222-3333-4444-5555-666677778888",
			Model:     cfg.DefaultModel,
			StartedAt: time.Now(),
		},
	}
}

// ===== REGISTRY =====

func TestRegistry_GetByNameAndAlias(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		lookup string
		want   string
	}{
		{"/help", "/help"},
		{"/h", "/help"},
		{"/?", "/help"},
		{"/exit", "/quit"},
		{"/clear", "/new"},
		{"/resume", "/load"},
		{"/list", "/sessions"},
	}

	for _, tt := range tests {
		cmd := r.Get(tt.lookup)
		if cmd == nil {
			t.Errorf("Get(%q) returned nil", tt.lookup)
			continue
		}
		if cmd.Name != tt.want {
			t.Errorf("Get(%q) = %s, want %s", tt.lookup, cmd.Name, tt.want)
		}
	}

	if r.Get("/nonexistent") != nil {
		t.Error("expected nil for unknown command")
	}
}

func TestRegistry_ByCategoryHidesHidden(t *testing.T) {
	byCategory := NewRegistry().ByCategory()

	for cat, cmds := range byCategory {
		for _, cmd := range cmds {
			if cmd.Hidden {
				t.Errorf("hidden command %s leaked into category %s", cmd.Name, cat)
			}
		}
	}
	if len(byCategory["Conversation"]) == 0 {
		t.Error("expected conversation commands")
	}
}

// ===== PARSER =====

func TestParser_Parse(t *testing.T) {
	p := NewParser(NewRegistry())

	tests := []struct {
		name      string
		input     string
		isCommand bool
		cmdName   string
		args      []string
	}{
		{"plain prose", "hello there", false, "", nil},
		{"bare command", "/help", true, "/help", nil},
		{"command with arg", "/load abc123", true, "/load", []string{"abc123"}},
		{"uppercase command", "/HELP", true, "/help", nil},
		{"quoted arg", `/project "My Projects/advent"`, true, "/project", []string{"My Projects/advent"}},
		{"single quoted", "/config theme 'grinch'", true, "/config", []string{"theme", "grinch"}},
		{"unknown command", "/bogus", true, "/bogus", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Parse(tt.input)
			if result.IsCommand != tt.isCommand {
				t.Fatalf("IsCommand = %v, want %v", result.IsCommand, tt.isCommand)
			}
			if result.CommandName != tt.cmdName {
				t.Errorf("CommandName = %q, want %q", result.CommandName, tt.cmdName)
			}
			if len(result.Args) != len(tt.args) {
				t.Fatalf("Args = %v, want %v", result.Args, tt.args)
			}
			for i := range tt.args {
				if result.Args[i] != tt.args[i] {
					t.Errorf("Args[%d] = %q, want %q", i, result.Args[i], tt.args[i])
				}
			}
		})
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	load := r.Get("/load")
	if err := ValidateArgs(load, nil); err == nil {
		t.Error("expected error for missing required arg")
	}
	if err := ValidateArgs(load, []string{"abc"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	export := r.Get("/export")
	if err := ValidateArgs(export, []string{"yaml"}); err == nil {
		t.Error("expected error for invalid enum value")
	}
	if err := ValidateArgs(export, []string{"MD"}); err != nil {
		t.Errorf("enum match should be case-insensitive: %v", err)
	}
}

// ===== HANDLERS =====

func TestHandleQuit(t *testing.T) {
	ctx := newTestContext(t)
	result, err := HandleQuit(ctx, nil)
	if err != nil {
		t.Fatalf("HandleQuit failed: %v", err)
	}
	if !result.Quit {
		t.Error("expected Quit to be set")
	}
	if result.Output == "" {
		t.Error("expected a farewell")
	}
}

func TestHandleNew(t *testing.T) {
	ctx := newTestContext(t)
	result, err := HandleNew(ctx, nil)
	if err != nil {
		t.Fatalf("HandleNew failed: %v", err)
	}
	if !result.NewSession {
		t.Error("expected NewSession to be set")
	}
}

func TestHandleSaveAndLoad(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Session.Messages = []storage.TranscriptMessage{
		storage.NewUserTranscriptMessage("hello"),
		storage.NewAssistantTranscriptMessage("hi"),
	}

	result, err := HandleSave(ctx, nil)
	if err != nil {
		t.Fatalf("HandleSave failed: %v", err)
	}
	if !strings.Contains(result.Output, "Saved session") {
		t.Errorf("unexpected output: %q", result.Output)
	}

	result, err = HandleLoad(ctx, []string{ctx.Session.ID[:8]})
	if err != nil {
		t.Fatalf("HandleLoad failed: %v", err)
	}
	if result.Load == nil {
		t.Fatal("expected loaded transcript")
	}
	if len(result.Load.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(result.Load.Messages))
	}
}

func TestHandleSave_EmptySession(t *testing.T) {
	ctx := newTestContext(t)
	result, err := HandleSave(ctx, nil)
	if err != nil {
		t.Fatalf("HandleSave failed: %v", err)
	}
	if !strings.Contains(result.Output, "Nothing to save") {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestHandleHistory(t *testing.T) {
	ctx := newTestContext(t)

	result, err := HandleHistory(ctx, nil)
	if err != nil {
		t.Fatalf("HandleHistory failed: %v", err)
	}
	if !strings.Contains(result.Output, "No messages") {
		t.Errorf("unexpected empty-history output: %q", result.Output)
	}

	ctx.Session.Messages = []storage.TranscriptMessage{
		storage.NewUserTranscriptMessage("first question"),
	}
	result, err = HandleHistory(ctx, nil)
	if err != nil {
		t.Fatalf("HandleHistory failed: %v", err)
	}
	if !strings.Contains(result.Output, "first question") {
		t.Errorf("history missing message: %q", result.Output)
	}
}

func TestHandleTheme_Switch(t *testing.T) {
	ctx := newTestContext(t)

	result, err := HandleGrinch(ctx, nil)
	if err != nil {
		t.Fatalf("HandleGrinch failed: %v", err)
	}
	if result.ThemeChanged == nil || result.ThemeChanged.Name != "grinch" {
		t.Errorf("expected grinch theme, got %+v", result.ThemeChanged)
	}
	if ctx.Config.Theme != "grinch" {
		t.Errorf("config theme not updated: %s", ctx.Config.Theme)
	}

	result, err = HandleTheme(ctx, []string{"festive"})
	if err != nil {
		t.Fatalf("HandleTheme failed: %v", err)
	}
	if result.ThemeChanged == nil || result.ThemeChanged.Name != "festive" {
		t.Errorf("expected festive theme, got %+v", result.ThemeChanged)
	}
}

func TestHandleProject(t *testing.T) {
	ctx := newTestContext(t)

	result, err := HandleProject(ctx, nil)
	if err != nil {
		t.Fatalf("HandleProject failed: %v", err)
	}
	if !strings.Contains(result.Output, "No project folder") {
		t.Errorf("unexpected output: %q", result.Output)
	}

	dir := t.TempDir()
	result, err = HandleProject(ctx, []string{dir})
	if err != nil {
		t.Fatalf("HandleProject set failed: %v", err)
	}
	if ctx.Config.ProjectFolder != dir {
		t.Errorf("project folder not set: %s", ctx.Config.ProjectFolder)
	}
	if !strings.Contains(result.Output, dir) {
		t.Errorf("output missing folder: %q", result.Output)
	}
}

func TestHandleConfig_GetSet(t *testing.T) {
	ctx := newTestContext(t)

	result, err := HandleConfig(ctx, []string{"theme"})
	if err != nil {
		t.Fatalf("HandleConfig get failed: %v", err)
	}
	if !strings.Contains(result.Output, "festive") {
		t.Errorf("unexpected output: %q", result.Output)
	}

	if _, err := HandleConfig(ctx, []string{"theme", "grinch"}); err != nil {
		t.Fatalf("HandleConfig set failed: %v", err)
	}
	if ctx.Config.Theme != "grinch" {
		t.Errorf("theme not set: %s", ctx.Config.Theme)
	}
}

func TestHandleHelp_ListsCommands(t *testing.T) {
	ctx := newTestContext(t)
	result, err := HandleHelp(ctx, nil)
	if err != nil {
		t.Fatalf("HandleHelp failed: %v", err)
	}
	for _, want := range []string{"/help", "/load", "/project", "/setkey"} {
		if !strings.Contains(result.Output, want) {
			t.Errorf("help missing %s", want)
		}
	}
	if strings.Contains(result.Output, "/santa") {
		t.Error("hidden command listed in help")
	}
}

// ===== COMPLETION =====

func TestCompleter_Commands(t *testing.T) {
	c := NewCompleter(NewRegistry())

	got := c.Complete("/he")
	if len(got) != 1 || got[0] != "/help" {
		t.Errorf("Complete(/he) = %v", got)
	}

	if got := c.Complete("plain text"); got != nil {
		t.Errorf("expected no completions for prose, got %v", got)
	}
}

func TestCompleter_EnumArg(t *testing.T) {
	c := NewCompleter(NewRegistry())

	got := c.Complete("/export m")
	if len(got) != 1 || got[0] != "/export md" {
		t.Errorf("Complete(/export m) = %v", got)
	}

	got = c.Complete("/export ")
	if len(got) != 3 {
		t.Errorf("expected 3 formats, got %v", got)
	}
}

func TestCompleter_SessionArg(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.SessionsFn = func() []string { return []string{"abc123", "def456"} }

	got := c.Complete("/load ab")
	if len(got) != 1 || got[0] != "/load abc123" {
		t.Errorf("Complete(/load ab) = %v", got)
	}
}
