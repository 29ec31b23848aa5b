// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
// detector.go scans response text for file-bearing code blocks.
package extract

import "strings"

// =============================================================================
// BLOCK DETECTOR
// =============================================================================

// The detector is an explicit two-state line scanner (outside-block /
// inside-block) with a pending-path register, rather than a regex, so the
// edge cases are enumerable: a marker with no following fence expires, a
// fence with no marker is illustrative code, an unclosed fence at EOF is
// discarded.
//
// A fence qualifies as file-bearing only when a path is found by one of two
// conventions, checked in this order:
//
//  1. a line of the form **File: path/to/file.ext** (optionally with
//     backticks around the path) immediately before the fence, with only
//     blank lines allowed in between, or
//  2. a comment on the first line inside the fence naming a path.
//
// When both appear for one block, the bold marker wins and the first line
// is not inspected at all.

type scanState int

const (
	stateOutside scanState = iota
	stateInside
)

// Detect scans response text and returns the file intents found, in
// detection order. Detection is pure: no side effects, and the same text
// always yields the same intents. Blocks without a discoverable path are
// excluded entirely, never emitted with a placeholder.
func Detect(text string) []FileIntent {
	var intents []FileIntent

	state := stateOutside
	pendingPath := ""

	var blockPath, blockLang string
	var content strings.Builder
	firstLine := false

	// Splitting on \n only keeps any \r attached to the content lines, so
	// CRLF responses round-trip byte for byte.
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")

		switch state {
		case stateOutside:
			if strings.HasPrefix(line, "```") {
				state = stateInside
				blockLang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				blockPath = pendingPath
				pendingPath = ""
				content.Reset()
				firstLine = true
				continue
			}
			if path, ok := parseBoldMarker(line); ok {
				pendingPath = path
				continue
			}
			// Blank lines keep the register alive; anything else breaks
			// the window between marker and fence.
			if strings.TrimSpace(line) != "" {
				pendingPath = ""
			}

		case stateInside:
			if strings.HasPrefix(line, "```") {
				// The closing line is consumed entirely; any trailing text
				// on it does not reopen a block.
				state = stateOutside
				if blockPath != "" {
					intents = append(intents, FileIntent{
						RelativePath: blockPath,
						Content:      content.String(),
						LanguageHint: blockLang,
					})
				}
				blockPath = ""
				blockLang = ""
				continue
			}
			if firstLine {
				firstLine = false
				if blockPath == "" {
					if path, ok := parseCommentPath(line); ok {
						blockPath = path
					}
				}
			}
			// The comment line, when present, stays part of the content:
			// the fence interior is captured verbatim.
			content.WriteString(raw)
			content.WriteByte('\n')
		}
	}

	// EOF inside a block: the fence never closed, so the block is dropped.
	return intents
}

// =============================================================================
// MARKER PARSING
// =============================================================================

// parseBoldMarker recognizes a whole line of the form
//
//	**File: path/to/file.ext**
//
// with optional whitespace after the colon and optional backticks around
// the path. The path may contain spaces since the markers delimit it. An
// empty path does not load the register.
func parseBoldMarker(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "**File:") {
		return "", false
	}
	rest := strings.TrimPrefix(s, "**File:")
	if !strings.HasSuffix(rest, "**") {
		return "", false
	}
	path := strings.TrimSuffix(rest, "**")
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "`")
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	return path, true
}

// parseCommentPath recognizes a first content line that is a comment naming
// a path, e.g.
//
//	// cmd/server/main.go
//	# utils/helpers.py
//	/* styles/site.css */
//	<!-- templates/index.html -->
//
// optionally with a File: label after the comment leader. The remainder
// must be a single whitespace-free token that looks like a path (contains
// a slash or a dot); prose comments like "// scratch" do not qualify.
// Shebang lines and URLs are explicitly excluded.
func parseCommentPath(line string) (string, bool) {
	s := strings.TrimSpace(line)

	var body string
	switch {
	case strings.HasPrefix(s, "#!"):
		// Shebang, not a file marker.
		return "", false
	case strings.HasPrefix(s, "//"):
		body = s[2:]
	case strings.HasPrefix(s, "#"):
		body = s[1:]
	case strings.HasPrefix(s, "--"):
		body = s[2:]
	case strings.HasPrefix(s, ";"):
		body = s[1:]
	case strings.HasPrefix(s, "/*") && strings.HasSuffix(s, "*/") && len(s) >= 4:
		body = s[2 : len(s)-2]
	case strings.HasPrefix(s, "<!--") && strings.HasSuffix(s, "-->") && len(s) >= 7:
		body = s[4 : len(s)-3]
	default:
		return "", false
	}

	body = strings.TrimSpace(body)
	for _, label := range []string{"File:", "file:", "FILE:"} {
		if strings.HasPrefix(body, label) {
			body = strings.TrimSpace(body[len(label):])
			break
		}
	}
	body = strings.Trim(body, "`")

	if body == "" || strings.ContainsAny(body, " \t") {
		return "", false
	}
	if strings.Contains(body, ":") {
		// Excludes URLs; drive-letter paths are caught by the resolver
		// when they arrive via the bold marker.
		return "", false
	}
	if !strings.ContainsAny(body, "/.") {
		return "", false
	}
	return body, true
}
