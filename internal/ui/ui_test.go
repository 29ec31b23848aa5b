// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/theme"
)

func TestCodePreview_ShowsPathAndBody(t *testing.T) {
	preview := NewCodePreview(extract.FileIntent{
		RelativePath: "cmd/main.go",
		Content:      "package main\n\nfunc main() {}\n",
		LanguageHint: "go",
	})

	out := preview.Render()
	if !strings.Contains(out, "cmd/main.go") {
		t.Error("preview missing path badge")
	}
	if !strings.Contains(out, "main") {
		t.Error("preview missing code body")
	}
}

func TestCodePreview_TruncatesLongFiles(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 50; i++ {
		body.WriteString("line\n")
	}

	preview := NewCodePreview(extract.FileIntent{
		RelativePath: "big.txt",
		Content:      body.String(),
	})
	preview.MaxLines = 5

	out := preview.Render()
	if !strings.Contains(out, "45 more lines") {
		t.Errorf("expected truncation trailer, got:\n%s", out)
	}
}

func TestHighlight_FallsBackToPlainText(t *testing.T) {
	code := "not really code at all"
	out := Highlight(code, "", "")
	if out == "" {
		t.Error("expected non-empty output")
	}
}

func TestRenderExtractionReport(t *testing.T) {
	pal := theme.Festive().Styles

	results := []extract.WriteResult{
		{Path: "main.go", Action: extract.ActionCreate, Outcome: extract.OutcomeWritten},
		{Path: "../evil", Action: extract.ActionNone, Outcome: extract.OutcomeRejectedUnsafe,
			Err: errors.New("path escapes project root")},
		{Path: "locked.txt", Action: extract.ActionOverwrite, Outcome: extract.OutcomeFailed,
			Err: errors.New("permission denied")},
	}

	out := RenderExtractionReport(results, pal)
	for _, want := range []string{"main.go", "../evil", "locked.txt", "1 written", "1 rejected", "1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderExtractionReport_Empty(t *testing.T) {
	if out := RenderExtractionReport(nil, theme.Festive().Styles); out != "" {
		t.Errorf("expected empty report, got %q", out)
	}
}
