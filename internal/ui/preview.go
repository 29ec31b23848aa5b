// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui renders terminal output for clause.
package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/frostbitlabs/clause/internal/extract"
	"github.com/frostbitlabs/clause/internal/util"
)

// =============================================================================
// CODE PREVIEW
// =============================================================================

// maxPreviewLines caps how much of a file body a dry-run preview shows.
const maxPreviewLines = 20

// CodePreview renders one pending file write for the dry-run view.
type CodePreview struct {
	Intent   extract.FileIntent
	MaxWidth int

	// MaxLines limits the body; 0 means maxPreviewLines.
	MaxLines int
}

// NewCodePreview creates a preview for a detected file intent.
func NewCodePreview(intent extract.FileIntent) CodePreview {
	return CodePreview{
		Intent:   intent,
		MaxWidth: 100,
	}
}

// Render renders the preview: a path badge, then the highlighted body with
// line numbers, truncated with a trailer when the file is long.
// USABILITY: Syntax highlighting for better code readability
func (p CodePreview) Render() string {
	limit := p.MaxLines
	if limit <= 0 {
		limit = maxPreviewLines
	}

	code := strings.TrimRight(p.Intent.Content, "\n")
	allLines := strings.Split(code, "\n")
	truncated := 0
	if len(allLines) > limit {
		truncated = len(allLines) - limit
		allLines = allLines[:limit]
		code = strings.Join(allLines, "\n")
	}

	highlighted := Highlight(code, p.Intent.LanguageHint, p.Intent.RelativePath)
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var renderedLines []string
	for i, line := range lines {
		renderedLines = append(renderedLines, lineNumStyle.Render(util.IntToStr(i+1))+line)
	}
	if truncated > 0 {
		trailer := lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true).
			Render("... " + util.IntToStr(truncated) + " more lines")
		renderedLines = append(renderedLines, trailer)
	}

	pathBadge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("22")).
		Padding(0, 1).
		Bold(true).
		Render(p.Intent.RelativePath)

	maxWidth := p.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(pathBadge + "\n" + strings.Join(renderedLines, "\n"))
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// Highlight applies syntax highlighting. The fence's language tag wins;
// otherwise the lexer is matched from the target filename, then by content
// analysis.
func Highlight(code, language, filename string) string {
	lexer := lexers.Get(language)
	if lexer == nil && filename != "" {
		lexer = lexers.Match(filename)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code // Fallback to plain text
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
