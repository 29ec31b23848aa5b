// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat session for clause.
//
// The chat loop owns the terminal: it reads lines with liner, dispatches
// slash commands through the commands package, streams everything else to
// the Messages API, and runs the extraction pipeline over each completed
// response. All state lives in ChatCLI; the loop itself is single-threaded.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/frostbitlabs/clause/internal/anthropic"
	"github.com/frostbitlabs/clause/internal/commands"
	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/eventlog"
	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/ledger"
	"github.com/frostbitlabs/clause/internal/storage"
	"github.com/frostbitlabs/clause/internal/theme"
	"github.com/frostbitlabs/clause/internal/ui"
	"github.com/frostbitlabs/clause/internal/util"
)

// systemPrompt frames every conversation; projectAddendum is appended only
// when a project folder is set. The marker line it dictates is exactly what
// the extraction detector looks for.
const systemPrompt = `You are Clause, a cheerful coding assistant with a festive spirit.
Keep explanations concise and put runnable code in fenced blocks with a
language tag.`

const projectAddendum = `
When you produce a complete file, put a marker line immediately before its
code block: ` + "**File: `path/to/file.ext`**" + ` on its own line, with the
path relative to the project root. Only use the marker for files meant to be
saved; leave illustrative snippets unmarked.`

// buildSystemPrompt assembles the system prompt for the current config.
func buildSystemPrompt(cfg *config.Config) string {
	if cfg.ProjectFolder == "" {
		return systemPrompt
	}
	return systemPrompt + projectAddendum
}

// =============================================================================
// CHAT CLI
// =============================================================================

// ChatCLI wires the line editor, command system, API client, and stores
// into one interactive session.
type ChatCLI struct {
	cfg    *config.Config
	client *anthropic.Client
	theme  *theme.Theme

	store  *storage.TranscriptStore
	ledger *ledger.Ledger
	events *eventlog.Logger

	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
	cmdCtx    *commands.Context

	line        *liner.State
	historyPath string

	watcher     *config.Watcher
	reloadedCfg atomic.Pointer[config.Config]

	session *commands.SessionState
	quiet   bool
	verbose bool
}

// RunChat starts the interactive chat session.
func RunChat(args *Args, cfg *config.Config) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		if errors.Is(err, config.ErrNoAPIKey) && CanPrompt() {
			// First run without a key: walk through setup, then retry.
			if serr := RunSetup(args, cfg); serr != nil {
				return serr
			}
			client, err = newClient(cfg)
		}
		if err != nil {
			return err
		}
	}

	c, err := newChatCLI(args, cfg, client)
	if err != nil {
		return err
	}
	defer c.close()

	return c.run()
}

// newChatCLI builds the session and its dependencies from config.
func newChatCLI(args *Args, cfg *config.Config, client *anthropic.Client) (*ChatCLI, error) {
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	c := &ChatCLI{
		cfg:     cfg,
		client:  client,
		theme:   activeTheme(cfg),
		quiet:   args.Quiet,
		verbose: args.Verbose,
	}

	if cfg.Transcripts.Enabled {
		dir := cfg.Transcripts.Dir
		if dir == "" {
			dir = filepath.Join(configDir, "transcripts")
		}
		store, err := storage.NewTranscriptStoreWithDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open transcript store: %w", err)
		}
		if cfg.Transcripts.MaxSessions > 0 {
			store.MaxSessions = cfg.Transcripts.MaxSessions
		}
		c.store = store
	}

	if cfg.Ledger.Enabled {
		path := cfg.Ledger.Path
		if path == "" {
			path = filepath.Join(configDir, "ledger.db")
		}
		led, err := ledger.Open(path)
		if err != nil {
			// RELIABILITY: a broken ledger degrades /files, not chat itself.
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: extraction ledger unavailable: "+err.Error()))
		} else {
			c.ledger = led
		}
	}

	eventPath := ""
	if cfg.Events.Enabled {
		eventPath = cfg.Events.Path
		if eventPath == "" {
			eventPath = filepath.Join(configDir, "events.jsonl")
		}
	}
	events, err := eventlog.New(eventPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: event log unavailable: "+err.Error()))
		events, _ = eventlog.New("")
	}
	c.events = events

	c.registry = commands.NewRegistry()
	c.parser = commands.NewParser(c.registry)
	c.completer = commands.NewCompleter(c.registry)
	c.completer.SessionsFn = c.sessionIDs
	c.completer.ConfigFn = config.GetAllKeys

	c.cmdCtx = commands.NewContext(cfg, client, c.store, c.ledger, c.events, c.theme)

	c.line = liner.NewLiner()
	c.line.SetCtrlCAborts(true)
	c.line.SetCompleter(c.completer.Complete)

	if cfg.History.Enabled {
		c.historyPath = cfg.History.File
		if c.historyPath == "" {
			c.historyPath = filepath.Join(configDir, "history")
		}
		if f, err := os.Open(c.historyPath); err == nil {
			_, _ = c.line.ReadHistory(f)
			f.Close()
		}
	}

	// Config edits from another terminal (or clause config set) take effect
	// on the next prompt. The callback runs on the watcher goroutine, so it
	// only parks the new config; the loop applies it between reads.
	if w, err := config.NewWatcher(500*time.Millisecond, func(next *config.Config) {
		c.reloadedCfg.Store(next)
	}); err == nil {
		if w.Watch() == nil {
			c.watcher = w
		} else {
			_ = w.Close()
		}
	}

	c.resetSession()
	return c, nil
}

// close flushes input history and releases resources.
func (c *ChatCLI) close() {
	if c.historyPath != "" {
		if f, err := os.OpenFile(c.historyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
		c.trimHistory()
	}
	c.line.Close()

	if c.watcher != nil {
		_ = c.watcher.Close()
	}
	if c.ledger != nil {
		_ = c.ledger.Close()
	}
	_ = c.events.Close()
}

// trimHistory enforces the configured history cap.
func (c *ChatCLI) trimHistory() {
	max := c.cfg.History.MaxEntries
	if max <= 0 {
		return
	}
	data, err := os.ReadFile(c.historyPath)
	if err != nil {
		return
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) <= max {
		return
	}
	trimmed := strings.Join(lines[len(lines)-max:], "\n") + "\n"
	_ = util.AtomicWriteFile(c.historyPath, []byte(trimmed), 0600)
}

// resetSession starts a fresh conversation.
func (c *ChatCLI) resetSession() {
	c.session = &commands.SessionState{
		ID:        uuid.New().String(),
		Model:     c.cfg.DefaultModel,
		StartedAt: time.Now(),
	}
}

// sessionIDs lists saved session IDs for completion.
func (c *ChatCLI) sessionIDs() []string {
	if c.store == nil {
		return nil
	}
	metas, err := c.store.List()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(metas))
	for _, m := range metas {
		ids = append(ids, m.ID)
	}
	return ids
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// run executes the read-dispatch loop until quit or EOF.
func (c *ChatCLI) run() error {
	c.printWelcome()

	_ = c.events.LogSessionStart(c.session.ID, map[string]string{
		"model": c.session.Model,
		"theme": c.theme.Name,
	})
	defer func() {
		c.printExitSummary()
		c.autosave()
		_ = c.events.LogSessionEnd(c.session.ID, map[string]string{
			"messages": util.IntToStr(len(c.session.Messages)),
		})
	}()

	for {
		c.applyReload()

		input, err := c.line.Prompt(c.promptText())
		switch {
		case err == liner.ErrPromptAborted:
			fmt.Println(c.theme.Styles.Dim.Render("(ctrl-c again or /quit to exit)"))
			continue
		case err == io.EOF:
			fmt.Println()
			fmt.Println(c.theme.Styles.Banner.Render(c.theme.RandomFarewell()))
			return nil
		case err != nil:
			return fmt.Errorf("input error: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		// SECURITY: a /setkey line with the key inline must not be persisted.
		if !strings.HasPrefix(input, "/setkey ") {
			c.line.AppendHistory(input)
		}

		// Bare exit/quit work like /quit.
		if input == "exit" || input == "quit" {
			fmt.Println(c.theme.Styles.Banner.Render(c.theme.RandomFarewell()))
			return nil
		}

		if commands.IsCommand(input) {
			quit, err := c.dispatchCommand(input)
			if err != nil {
				fmt.Println(ErrorStyle.Render("Error:"), err.Error())
			}
			if quit {
				return nil
			}
			continue
		}

		if err := c.sendMessage(input); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println()
				fmt.Println(c.theme.Styles.Dim.Render("(interrupted)"))
				continue
			}
			fmt.Println(c.theme.Styles.Error.Render(c.theme.RandomError()))
			fmt.Println(ErrorStyle.Render("Error:"), err.Error())
			if hint := errorHint(err); hint != "" {
				fmt.Println(DimStyle.Render("Hint: " + hint))
			}
		}
	}
}

// printExitSummary recaps the session before the prompt returns.
func (c *ChatCLI) printExitSummary() {
	if c.quiet || len(c.session.Messages) == 0 {
		return
	}

	files := 0
	for _, m := range c.session.Messages {
		files += len(m.FilesWritten)
	}

	line := fmt.Sprintf("%d messages, %s tokens", len(c.session.Messages),
		util.IntToStr(c.session.TokensUsed))
	if files > 0 {
		line += fmt.Sprintf(", %d files written", files)
	}
	if c.store != nil {
		line += " — saved as " + c.session.ID[:8]
	}
	fmt.Println(c.theme.Styles.Dim.Render(line))
}

// applyReload folds a config change picked up by the watcher into the live
// session. The model change only affects sessions started after it.
func (c *ChatCLI) applyReload() {
	next := c.reloadedCfg.Swap(nil)
	if next == nil {
		return
	}

	prevTheme := c.cfg.Theme
	prevFestive := c.cfg.FestiveMode
	prevProject := c.cfg.ProjectFolder

	*c.cfg = *next

	if c.cfg.Theme != prevTheme || c.cfg.FestiveMode != prevFestive {
		c.theme = activeTheme(c.cfg)
	}
	if !c.quiet && c.cfg.ProjectFolder != prevProject {
		if c.cfg.ProjectFolder == "" {
			fmt.Println(c.theme.Styles.Dim.Render("(config reloaded; file extraction off)"))
		} else {
			fmt.Println(c.theme.Styles.Dim.Render("(config reloaded; project folder now " + c.cfg.ProjectFolder + ")"))
		}
	}
}

// promptText renders the themed input prompt.
func (c *ChatCLI) promptText() string {
	return c.theme.Styles.Prompt.Render(c.theme.PromptLabel) + " > "
}

// printWelcome shows the banner (and tree on a fresh install).
func (c *ChatCLI) printWelcome() {
	if c.quiet {
		return
	}

	if c.store != nil {
		if metas, err := c.store.List(); err == nil && len(metas) == 0 && c.theme.Tree != "" {
			fmt.Println(c.theme.Styles.Banner.Render(c.theme.Tree))
		}
	}
	fmt.Println(c.theme.Styles.Banner.Render(c.theme.Banner))

	fmt.Println(c.theme.Styles.Dim.Render("Model: " + c.cfg.DefaultModel))
	if c.cfg.ProjectFolder != "" {
		fmt.Println(c.theme.Styles.Dim.Render("Project folder: " + c.cfg.ProjectFolder))
	} else {
		fmt.Println(c.theme.Styles.Dim.Render("No project folder set; /project <path> enables file extraction."))
	}
	fmt.Println(c.theme.Styles.Dim.Render("Type /help for commands."))
	fmt.Println()
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// dispatchCommand parses and runs one slash command. The returned bool
// reports whether the loop should end.
func (c *ChatCLI) dispatchCommand(input string) (bool, error) {
	parsed := c.parser.Parse(input)

	cmd := c.registry.Get(parsed.CommandName)
	if cmd == nil {
		return false, fmt.Errorf("unknown command %s (try /help)", parsed.CommandName)
	}
	if err := commands.ValidateArgs(cmd, parsed.Args); err != nil {
		return false, err
	}

	c.cmdCtx.Session = c.session
	c.cmdCtx.Theme = c.theme
	result, err := cmd.Handler(c.cmdCtx, parsed.Args)
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, nil
	}

	if result.Output != "" {
		fmt.Println(result.Output)
	}
	if result.ThemeChanged != nil {
		c.theme = result.ThemeChanged
	}
	if result.NewSession {
		c.autosave()
		_ = c.events.LogSessionEnd(c.session.ID, nil)
		c.resetSession()
		_ = c.events.LogSessionStart(c.session.ID, map[string]string{"model": c.session.Model})
	}
	if result.Load != nil {
		c.loadTranscript(result.Load)
	}
	return result.Quit, nil
}

// loadTranscript replaces the live conversation with a saved one.
func (c *ChatCLI) loadTranscript(t *storage.Transcript) {
	c.session = &commands.SessionState{
		ID:         t.ID,
		Model:      c.cfg.DefaultModel,
		Messages:   t.Messages,
		TokensUsed: t.TokensUsed,
		StartedAt:  t.CreatedAt,
	}
	if t.Model != "" {
		c.session.Model = t.Model
	}
}

// autosave persists the conversation on exit and /new when anything was said.
func (c *ChatCLI) autosave() {
	if c.store == nil || len(c.session.Messages) == 0 {
		return
	}
	t := &storage.Transcript{
		ID:            c.session.ID,
		Model:         c.session.Model,
		CreatedAt:     c.session.StartedAt,
		Messages:      c.session.Messages,
		ProjectFolder: c.cfg.ProjectFolder,
		TokensUsed:    c.session.TokensUsed,
	}
	if _, err := c.store.Save(t); err != nil && c.verbose {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: autosave failed: "+err.Error()))
	}
}

// =============================================================================
// MESSAGE SENDING
// =============================================================================

// sendMessage streams one prompt/response exchange and runs extraction on
// the completed response.
func (c *ChatCLI) sendMessage(input string) error {
	userMsg := storage.NewUserTranscriptMessage(input)
	c.session.Messages = append(c.session.Messages, userMsg)
	_ = c.events.LogPrompt(c.session.ID, len(input))

	req := anthropic.MessagesRequest{
		Model:    c.session.Model,
		System:   buildSystemPrompt(c.cfg),
		Messages: apiMessages(c.session.Messages),
	}

	if !c.quiet {
		fmt.Println(c.theme.Styles.Dim.Render(c.theme.RandomThinking()))
	}

	// SIGINT cancels the in-flight request instead of killing the process.
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	defer func() {
		signal.Stop(sigCh)
		cancel()
	}()

	acc := anthropic.NewStreamAccumulator()
	err := c.client.MessagesStream(ctx, req, func(chunk anthropic.StreamChunk) {
		acc.Add(chunk)
		if chunk.Content != "" {
			fmt.Print(chunk.Content)
		}
	})
	fmt.Println()

	if err == nil {
		err = acc.GetError()
	}
	if err != nil {
		// Drop the unanswered prompt so a retry does not duplicate it.
		c.session.Messages = c.session.Messages[:len(c.session.Messages)-1]
		_ = c.events.LogAPIError(c.session.ID, err)
		return err
	}

	stats := acc.GetStats()
	content := acc.GetContent()

	assistantMsg := storage.NewAssistantTranscriptMessage(content)
	assistantMsg.TokenCount = stats.OutputTokens
	assistantMsg.DurationMs = stats.EndTime.Sub(stats.StartTime).Milliseconds()
	assistantMsg.TokensPerSec = stats.TokensPerSecond
	assistantMsg.TTFTMs = stats.TTFT.Milliseconds()

	if acc.GetStopReason() == "max_tokens" {
		fmt.Println(WarningStyle.Render("Response hit the output token limit and may be truncated."))
	}

	written := c.runExtraction(content)
	assistantMsg.FilesWritten = written

	c.session.Messages = append(c.session.Messages, assistantMsg)
	c.session.TokensUsed += stats.InputTokens + stats.OutputTokens
	_ = c.events.LogResponse(c.session.ID, c.session.Model, stats.OutputTokens, assistantMsg.DurationMs)

	if !c.quiet {
		fmt.Println(c.theme.Styles.Dim.Render(stats.Format()))
	}
	return nil
}

// runExtraction applies the pipeline to a completed response and reports
// the outcome. Returns the relative paths that were written.
func (c *ChatCLI) runExtraction(content string) []string {
	if c.cfg.ProjectFolder == "" {
		return nil
	}

	pipeline, err := extract.New(c.cfg.ProjectFolder)
	if err != nil {
		fmt.Println(WarningStyle.Render("Extraction disabled: " + err.Error()))
		return nil
	}

	results := pipeline.Run(content)
	if len(results) == 0 {
		return nil
	}

	fmt.Println(ui.RenderExtractionReport(results, c.theme.Styles))

	summary := extract.Summarize(results)
	_ = c.events.LogExtraction(c.session.ID, summary.Written, summary.Rejected, summary.Failed)

	if c.ledger != nil {
		qctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := c.ledger.RecordBatch(qctx, c.session.ID, results); err != nil && c.verbose {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ledger write failed: "+err.Error()))
		}
	}

	var written []string
	for _, r := range results {
		if r.Outcome == extract.OutcomeWritten {
			written = append(written, r.Path)
		}
	}
	return written
}

// apiMessages converts transcript messages to API wire messages.
func apiMessages(msgs []storage.TranscriptMessage) []anthropic.Message {
	out := make([]anthropic.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, anthropic.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
