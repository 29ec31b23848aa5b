// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot prompt command for clause.
//
// "clause ask" sends a single prompt and exits. When stdout is a terminal
// the response is rendered as markdown with glamour; piped output gets the
// raw text so the command composes with shell tooling. Extraction runs the
// same as in chat when a project folder is configured.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/frostbitlabs/clause/internal/anthropic"
	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/eventlog"
	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/ledger"
	"github.com/frostbitlabs/clause/internal/theme"
	"github.com/frostbitlabs/clause/internal/ui"
)

// RunAsk sends one prompt and prints the response.
func RunAsk(args *Args, cfg *config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	th := activeTheme(cfg)
	sessionID := uuid.New().String()
	events := openEventLog(cfg)
	defer events.Close()

	_ = events.LogSessionStart(sessionID, map[string]string{"mode": "ask"})
	defer func() { _ = events.LogSessionEnd(sessionID, nil) }()
	_ = events.LogPrompt(sessionID, len(args.Prompt))

	req := anthropic.MessagesRequest{
		Model:    cfg.DefaultModel,
		System:   buildSystemPrompt(cfg),
		Messages: []anthropic.Message{anthropic.NewUserMessage(args.Prompt)},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	renderMarkdown := IsStdoutTTY() && !args.Plain

	if !args.Quiet && renderMarkdown {
		fmt.Println(th.Styles.Dim.Render(th.RandomThinking()))
	}

	acc := anthropic.NewStreamAccumulator()
	err = client.MessagesStream(ctx, req, func(chunk anthropic.StreamChunk) {
		acc.Add(chunk)
		// With markdown rendering the text is buffered and printed once;
		// raw mode streams as it arrives.
		if !renderMarkdown && chunk.Content != "" {
			fmt.Print(chunk.Content)
		}
	})
	if err == nil {
		err = acc.GetError()
	}
	if err != nil {
		_ = events.LogAPIError(sessionID, err)
		return err
	}

	content := acc.GetContent()
	stats := acc.GetStats()
	_ = events.LogResponse(sessionID, cfg.DefaultModel, stats.OutputTokens, stats.EndTime.Sub(stats.StartTime).Milliseconds())

	if renderMarkdown {
		fmt.Print(renderResponse(content))
	} else {
		fmt.Println()
	}

	if cfg.ProjectFolder != "" {
		if err := askExtraction(cfg, events, sessionID, content, th); err != nil {
			return err
		}
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Println(th.Styles.Dim.Render(stats.Format()))
	}
	return nil
}

// renderResponse renders markdown for terminal display, falling back to the
// raw text when rendering fails.
func renderResponse(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return content + "\n"
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

// askExtraction runs the pipeline for a one-shot response.
func askExtraction(cfg *config.Config, events *eventlog.Logger, sessionID, content string, th *theme.Theme) error {
	pipeline, err := extract.New(cfg.ProjectFolder)
	if err != nil {
		return err
	}

	results := pipeline.Run(content)
	if len(results) == 0 {
		return nil
	}

	fmt.Println(ui.RenderExtractionReport(results, th.Styles))

	summary := extract.Summarize(results)
	_ = events.LogExtraction(sessionID, summary.Written, summary.Rejected, summary.Failed)

	if cfg.Ledger.Enabled {
		if led := openLedger(cfg); led != nil {
			defer led.Close()
			_ = led.RecordBatch(context.Background(), sessionID, results)
		}
	}
	return nil
}

// openEventLog builds the event logger from config; failures degrade to the
// disabled logger rather than blocking the command.
func openEventLog(cfg *config.Config) *eventlog.Logger {
	path := ""
	if cfg.Events.Enabled {
		path = cfg.Events.Path
		if path == "" {
			if dir, err := config.ConfigDir(); err == nil {
				path = filepath.Join(dir, "events.jsonl")
			}
		}
	}
	events, err := eventlog.New(path)
	if err != nil {
		events, _ = eventlog.New("")
	}
	return events
}

// openLedger opens the extraction ledger from config, or nil on failure.
func openLedger(cfg *config.Config) *ledger.Ledger {
	path := cfg.Ledger.Path
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, "ledger.db")
	}
	led, err := ledger.Open(path)
	if err != nil {
		return nil
	}
	return led
}
