// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// extract_cmd.go - Offline extraction command for clause.
//
// "clause extract" runs the detection pipeline over text that already
// exists: a saved response, an exported transcript, or stdin. The default
// is a dry run showing highlighted previews of what would be written;
// --apply performs the writes and records them in the ledger.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/frostbitlabs/clause/internal/config"
	"github.com/frostbitlabs/clause/internal/diff"
	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/ui"
)

// RunExtract runs the extraction pipeline over a file or stdin.
func RunExtract(args *Args, cfg *config.Config) error {
	text, err := readExtractInput(args.InputFile)
	if err != nil {
		return err
	}

	if cfg.ProjectFolder == "" {
		return ConfigError("no project folder configured", extract.ErrNoProjectRoot)
	}

	pipeline, err := extract.New(cfg.ProjectFolder)
	if err != nil {
		return err
	}

	if args.Apply {
		return applyExtract(args, cfg, pipeline, text)
	}
	return previewExtract(args, pipeline, text)
}

// readExtractInput loads the source text. "-" reads stdin.
func readExtractInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// previewExtract shows what a run would do without touching the filesystem.
func previewExtract(args *Args, pipeline *extract.Pipeline, text string) error {
	planned := pipeline.Plan(text)
	if len(planned) == 0 {
		fmt.Println("No file blocks detected.")
		return nil
	}

	width := GetTerminalWidth()
	creates, overwrites, rejected := 0, 0, 0

	for _, p := range planned {
		if p.Reject != nil {
			rejected++
			fmt.Println(WarningStyle.Render("⚠ rejected ") + p.Intent.RelativePath +
				DimStyle.Render(" ("+p.Reject.Error()+")"))
			continue
		}

		switch p.Resolved.Action {
		case extract.ActionOverwrite:
			overwrites++
			fmt.Println(WarningStyle.Render("would overwrite ") + p.Resolved.RelativePath)
			if !args.Quiet {
				printOverwriteDiff(p.Resolved)
			}
		default:
			creates++
			fmt.Println(SuccessStyle.Render("would create ") + p.Resolved.RelativePath)
			if !args.Quiet {
				preview := ui.NewCodePreview(p.Intent)
				preview.MaxWidth = width
				fmt.Println(preview.Render())
			}
		}
	}

	fmt.Println(DimStyle.Render(fmt.Sprintf("%d create, %d overwrite, %d rejected (dry run; use --apply to write)",
		creates, overwrites, rejected)))
	return nil
}

// printOverwriteDiff shows what an overwrite changes, line by line. Falls
// back to summary-only when the existing file cannot be read.
func printOverwriteDiff(res *extract.ResolvedWrite) {
	existing, err := os.ReadFile(res.AbsolutePath)
	if err != nil {
		fmt.Println(DimStyle.Render("  (existing content unreadable: " + err.Error() + ")"))
		return
	}

	d := diff.Compute(res.RelativePath, string(existing), res.Content)
	if !d.Changed() {
		fmt.Println(DimStyle.Render("  (content identical)"))
		return
	}

	fmt.Println(DimStyle.Render("  " + d.Summary()))
	for _, h := range d.Hunks {
		fmt.Println(DimStyle.Render(fmt.Sprintf("  @@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)))
		for _, ln := range h.Lines {
			text := "  " + ln.Kind.Prefix() + ln.Text
			switch ln.Kind {
			case diff.KindAdd:
				fmt.Println(SuccessStyle.Render(text))
			case diff.KindDel:
				fmt.Println(ErrorStyle.Render(text))
			default:
				fmt.Println(DimStyle.Render(text))
			}
		}
	}
}

// applyExtract performs the writes and records the batch.
func applyExtract(args *Args, cfg *config.Config, pipeline *extract.Pipeline, text string) error {
	results := pipeline.Run(text)
	if len(results) == 0 {
		fmt.Println("No file blocks detected.")
		return nil
	}

	th := activeTheme(cfg)
	fmt.Println(ui.RenderExtractionReport(results, th.Styles))

	sessionID := uuid.New().String()
	events := openEventLog(cfg)
	defer events.Close()

	summary := extract.Summarize(results)
	_ = events.LogExtraction(sessionID, summary.Written, summary.Rejected, summary.Failed)

	if cfg.Ledger.Enabled {
		if led := openLedger(cfg); led != nil {
			defer led.Close()
			if err := led.RecordBatch(context.Background(), sessionID, results); err != nil && args.Verbose {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ledger write failed: "+err.Error()))
			}
		}
	}

	if summary.Failed > 0 {
		return NewCommandError(ExitError, fmt.Sprintf("%d of %d writes failed", summary.Failed, len(results)))
	}
	return nil
}
