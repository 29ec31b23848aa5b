// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"
	"testing"
)

// =============================================================================
// DETECTOR TESTS
// =============================================================================

func TestDetect_NoMarkersYieldsNothing(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain prose", "Here is an explanation of the code.\nNothing else."},
		{"empty string", ""},
		{"unmarked fence", "Look at this:\n```python\nprint('hi')\n```\nNeat."},
		{"fence with prose comment", "```go\n// scratch\nfmt.Println(1)\n```"},
		{"marker without fence", "**File: app.py**\njust prose afterwards\n"},
		{"marker at end of text", "some text\n**File: app.py**"},
		{"unclosed fence", "**File: app.py**\n```python\nprint('hi')\n"},
		{"shebang first line", "```bash\n#!/bin/sh\necho hi\n```"},
		{"url in comment", "```go\n// https://example.com/pkg\nvar x int\n```"},
		{"indented fence is not a fence", "**File: app.py**\n    ```python\n    code\n    ```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); len(got) != 0 {
				t.Errorf("Detect() = %d intents, want 0: %+v", len(got), got)
			}
		})
	}
}

func TestDetect_BoldMarker(t *testing.T) {
	text := "Sure, here you go:\n" +
		"**File: hello.py**\n" +
		"```python\n" +
		"print(\"Hello, Santa!\")\n" +
		"```\n" +
		"That's it."

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}

	got := intents[0]
	if got.RelativePath != "hello.py" {
		t.Errorf("RelativePath = %q, want %q", got.RelativePath, "hello.py")
	}
	if got.Content != "print(\"Hello, Santa!\")\n" {
		t.Errorf("Content = %q, want %q", got.Content, "print(\"Hello, Santa!\")\n")
	}
	if got.LanguageHint != "python" {
		t.Errorf("LanguageHint = %q, want %q", got.LanguageHint, "python")
	}
}

func TestDetect_BoldMarkerWithBackticks(t *testing.T) {
	text := "**File: `src/utils/parse.go`**\n```go\npackage utils\n```"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	if intents[0].RelativePath != "src/utils/parse.go" {
		t.Errorf("RelativePath = %q, want %q", intents[0].RelativePath, "src/utils/parse.go")
	}
}

func TestDetect_MarkerWindow(t *testing.T) {
	t.Run("blank lines between marker and fence are fine", func(t *testing.T) {
		text := "**File: a.py**\n\n\n```python\nx = 1\n```"
		if got := Detect(text); len(got) != 1 || got[0].RelativePath != "a.py" {
			t.Errorf("Detect() = %+v, want one intent for a.py", got)
		}
	})

	t.Run("prose between marker and fence clears it", func(t *testing.T) {
		text := "**File: a.py**\nBut first, a note.\n```python\nx = 1\n```"
		if got := Detect(text); len(got) != 0 {
			t.Errorf("Detect() = %+v, want none", got)
		}
	})

	t.Run("later marker replaces earlier one", func(t *testing.T) {
		text := "**File: old.py**\n**File: new.py**\n```python\nx = 1\n```"
		got := Detect(text)
		if len(got) != 1 || got[0].RelativePath != "new.py" {
			t.Errorf("Detect() = %+v, want one intent for new.py", got)
		}
	})

	t.Run("empty marker does not qualify", func(t *testing.T) {
		text := "**File:**\n```python\nx = 1\n```"
		if got := Detect(text); len(got) != 0 {
			t.Errorf("Detect() = %+v, want none", got)
		}
	})

	t.Run("lowercase label does not qualify", func(t *testing.T) {
		text := "**file: a.py**\n```python\nx = 1\n```"
		if got := Detect(text); len(got) != 0 {
			t.Errorf("Detect() = %+v, want none", got)
		}
	})
}

func TestDetect_CommentPath(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantPath string
	}{
		{
			"double slash comment",
			"```go\n// cmd/server/main.go\npackage main\n```",
			"cmd/server/main.go",
		},
		{
			"hash comment",
			"```python\n# utils/helpers.py\ndef f(): pass\n```",
			"utils/helpers.py",
		},
		{
			"hash comment with label",
			"```python\n# File: utils/helpers.py\ndef f(): pass\n```",
			"utils/helpers.py",
		},
		{
			"block comment",
			"```css\n/* styles/site.css */\nbody {}\n```",
			"styles/site.css",
		},
		{
			"html comment",
			"```html\n<!-- templates/index.html -->\n<html></html>\n```",
			"templates/index.html",
		},
		{
			"sql comment",
			"```sql\n-- migrations/001_init.sql\nCREATE TABLE t (id INT);\n```",
			"migrations/001_init.sql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if len(got) != 1 {
				t.Fatalf("Detect() = %d intents, want 1", len(got))
			}
			if got[0].RelativePath != tt.wantPath {
				t.Errorf("RelativePath = %q, want %q", got[0].RelativePath, tt.wantPath)
			}
		})
	}
}

func TestDetect_CommentLineStaysInContent(t *testing.T) {
	text := "```go\n// pkg/mod.go\npackage pkg\n```"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	want := "// pkg/mod.go\npackage pkg\n"
	if intents[0].Content != want {
		t.Errorf("Content = %q, want %q", intents[0].Content, want)
	}
}

func TestDetect_BoldMarkerWinsOverComment(t *testing.T) {
	text := "**File: from_marker.py**\n```python\n# from_comment.py\nx = 1\n```"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	if intents[0].RelativePath != "from_marker.py" {
		t.Errorf("RelativePath = %q, want %q (bold marker wins)", intents[0].RelativePath, "from_marker.py")
	}
	// The comment line is content either way.
	if !strings.HasPrefix(intents[0].Content, "# from_comment.py\n") {
		t.Errorf("Content = %q, want comment line preserved", intents[0].Content)
	}
}

func TestDetect_MultipleBlocksInOrder(t *testing.T) {
	text := "**File: a.py**\n```python\na = 1\n```\n" +
		"Some prose.\n" +
		"```\nillustrative, no marker\n```\n" +
		"**File: b.py**\n```python\nb = 2\n```\n"

	intents := Detect(text)
	if len(intents) != 2 {
		t.Fatalf("Detect() = %d intents, want 2", len(intents))
	}
	if intents[0].RelativePath != "a.py" || intents[1].RelativePath != "b.py" {
		t.Errorf("order = [%q, %q], want [a.py, b.py]", intents[0].RelativePath, intents[1].RelativePath)
	}
}

func TestDetect_DuplicatePathsBothEmitted(t *testing.T) {
	text := "**File: app.py**\n```python\nfirst\n```\n" +
		"**File: app.py**\n```python\nsecond\n```\n"

	intents := Detect(text)
	if len(intents) != 2 {
		t.Fatalf("Detect() = %d intents, want 2 (dedupe happens at resolution)", len(intents))
	}
	if intents[0].Content != "first\n" || intents[1].Content != "second\n" {
		t.Errorf("contents = [%q, %q], want [first\\n, second\\n]", intents[0].Content, intents[1].Content)
	}
}

func TestDetect_CRLFPreservedVerbatim(t *testing.T) {
	text := "**File: win.txt**\r\n```\r\nline one\r\nline two\r\n```\r\n"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	want := "line one\r\nline two\r\n"
	if intents[0].Content != want {
		t.Errorf("Content = %q, want %q", intents[0].Content, want)
	}
}

func TestDetect_ClosingFenceWithTrailingText(t *testing.T) {
	// A line starting with ``` closes the block even when text follows the
	// backticks; the remainder never reopens a block.
	text := "**File: a.py**\n```python\nx = 1\n```python\nleftover prose\n"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	if intents[0].Content != "x = 1\n" {
		t.Errorf("Content = %q, want %q", intents[0].Content, "x = 1\n")
	}
}

func TestDetect_EmptyBlockWithMarker(t *testing.T) {
	text := "**File: empty.txt**\n```\n```\n"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	if intents[0].Content != "" {
		t.Errorf("Content = %q, want empty", intents[0].Content)
	}
}

func TestDetect_Restartable(t *testing.T) {
	text := "**File: a.py**\n```python\na = 1\n```\n**File: b/c.go**\n```go\npackage b\n```"

	first := Detect(text)
	second := Detect(text)
	if len(first) != len(second) {
		t.Fatalf("runs disagree on count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("intent %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDetect_LanguageHintOptional(t *testing.T) {
	text := "**File: notes.txt**\n```\nplain text\n```"

	intents := Detect(text)
	if len(intents) != 1 {
		t.Fatalf("Detect() = %d intents, want 1", len(intents))
	}
	if intents[0].LanguageHint != "" {
		t.Errorf("LanguageHint = %q, want empty", intents[0].LanguageHint)
	}
}

// =============================================================================
// MARKER PARSER TESTS
// =============================================================================

func TestParseBoldMarker(t *testing.T) {
	tests := []struct {
		line     string
		wantPath string
		wantOK   bool
	}{
		{"**File: app.py**", "app.py", true},
		{"**File:app.py**", "app.py", true},
		{"**File: `dir/app.py`**", "dir/app.py", true},
		{"  **File: app.py**  ", "app.py", true},
		{"**File: my file.txt**", "my file.txt", true},
		{"**File:**", "", false},
		{"**File: **", "", false},
		{"**file: app.py**", "", false},
		{"File: app.py", "", false},
		{"**File: app.py", "", false},
		{"prose with **File: app.py** inside", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			path, ok := parseBoldMarker(tt.line)
			if ok != tt.wantOK || path != tt.wantPath {
				t.Errorf("parseBoldMarker(%q) = (%q, %v), want (%q, %v)",
					tt.line, path, ok, tt.wantPath, tt.wantOK)
			}
		})
	}
}

func TestParseCommentPath(t *testing.T) {
	tests := []struct {
		line     string
		wantPath string
		wantOK   bool
	}{
		{"// main.go", "main.go", true},
		{"// cmd/app/main.go", "cmd/app/main.go", true},
		{"# setup.py", "setup.py", true},
		{"; config.ini", "config.ini", true},
		{"-- schema.sql", "schema.sql", true},
		{"/* site.css */", "site.css", true},
		{"<!-- index.html -->", "index.html", true},
		{"// File: pkg/x.go", "pkg/x.go", true},
		{"// `pkg/x.go`", "pkg/x.go", true},
		{"// scratch", "", false},
		{"// two words.py here", "", false},
		{"#!/usr/bin/env python", "", false},
		{"// https://example.com/x.go", "", false},
		{"plain line", "", false},
		{"//", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			path, ok := parseCommentPath(tt.line)
			if ok != tt.wantOK || path != tt.wantPath {
				t.Errorf("parseCommentPath(%q) = (%q, %v), want (%q, %v)",
					tt.line, path, ok, tt.wantPath, tt.wantOK)
			}
		})
	}
}
