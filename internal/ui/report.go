// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui renders terminal output for clause.
package ui

import (
	"strings"

	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/theme"
	"github.com/frostbitlabs/clause/internal/util"
)

// =============================================================================
// EXTRACTION REPORT
// =============================================================================

// RenderExtractionReport formats a batch report for the terminal, one line
// per entry in batch order plus a totals line.
func RenderExtractionReport(results []extract.WriteResult, pal theme.Palette) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	summary := extract.Summarize(results)

	for _, r := range results {
		switch r.Outcome {
		case extract.OutcomeWritten:
			sb.WriteString(pal.Success.Render("  ✓ "+r.Action.String()) + " " + r.Path + "\n")
		case extract.OutcomeRejectedUnsafe:
			sb.WriteString(pal.Warning.Render("  ⚠ rejected") + " " + r.Path)
			if r.Err != nil {
				sb.WriteString(pal.Dim.Render(" (" + r.Err.Error() + ")"))
			}
			sb.WriteString("\n")
		case extract.OutcomeFailed:
			sb.WriteString(pal.Error.Render("  ✗ failed") + " " + r.Path)
			if r.Err != nil {
				sb.WriteString(pal.Dim.Render(" (" + r.Err.Error() + ")"))
			}
			sb.WriteString("\n")
		}
	}

	totals := util.IntToStr(summary.Written) + " written"
	if summary.Rejected > 0 {
		totals += ", " + util.IntToStr(summary.Rejected) + " rejected"
	}
	if summary.Failed > 0 {
		totals += ", " + util.IntToStr(summary.Failed) + " failed"
	}
	sb.WriteString(pal.Dim.Render("  " + totals))

	return sb.String()
}
