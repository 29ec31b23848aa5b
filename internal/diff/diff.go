// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff computes line diffs between a file on disk and the content
// an extraction would write over it. Used by the extract dry run to show
// what an overwrite changes before --apply.
package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// TYPES
// =============================================================================

// LineKind classifies a diff line.
type LineKind int

const (
	KindContext LineKind = iota
	KindAdd
	KindDel
)

// Prefix returns the unified-diff marker for this kind.
func (k LineKind) Prefix() string {
	switch k {
	case KindAdd:
		return "+"
	case KindDel:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a computed diff. OldNo is 0 for additions and NewNo
// is 0 for deletions; both are 1-based otherwise.
type Line struct {
	Kind  LineKind
	Text  string
	OldNo int
	NewNo int
}

// Hunk is a contiguous run of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the full diff for one would-be overwrite.
type FileDiff struct {
	Path    string
	Hunks   []Hunk
	Adds    int
	Dels    int
	Created bool // old content was empty
}

// contextRadius lines of unchanged context around each change run.
const contextRadius = 3

// =============================================================================
// COMPUTATION
// =============================================================================

// Compute diffs oldText against newText for the file at path.
func Compute(path, oldText, newText string) *FileDiff {
	d := &FileDiff{Path: path, Created: oldText == ""}

	lines := align(toLines(oldText), toLines(newText))
	for _, ln := range lines {
		switch ln.Kind {
		case KindAdd:
			d.Adds++
		case KindDel:
			d.Dels++
		}
	}
	d.Hunks = hunks(lines)
	return d
}

// Changed reports whether the diff contains any additions or deletions.
func (d *FileDiff) Changed() bool {
	return d.Adds > 0 || d.Dels > 0
}

// Summary is a one-line description like "+12 -3".
func (d *FileDiff) Summary() string {
	if d.Created {
		return fmt.Sprintf("new file, +%d", d.Adds)
	}
	if !d.Changed() {
		return "no changes"
	}
	return fmt.Sprintf("+%d -%d", d.Adds, d.Dels)
}

// Unified renders the diff in unified format.
func (d *FileDiff) Unified() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", d.Path)
	fmt.Fprintf(&sb, "+++ b/%s\n", d.Path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, ln := range h.Lines {
			sb.WriteString(ln.Kind.Prefix())
			sb.WriteString(ln.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// toLines splits text into lines without a phantom final element when the
// text ends in a newline.
func toLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// align walks both sides against their longest common subsequence and emits
// context, deletion, and addition lines in order.
func align(old, new []string) []Line {
	common := lcs(old, new)

	var out []Line
	oi, ni, ci := 0, 0, 0
	for oi < len(old) || ni < len(new) {
		switch {
		case ci < len(common) && oi < len(old) && ni < len(new) &&
			old[oi] == common[ci] && new[ni] == common[ci]:
			out = append(out, Line{Kind: KindContext, Text: old[oi], OldNo: oi + 1, NewNo: ni + 1})
			oi++
			ni++
			ci++
		case oi < len(old) && (ci >= len(common) || old[oi] != common[ci]):
			out = append(out, Line{Kind: KindDel, Text: old[oi], OldNo: oi + 1})
			oi++
		default:
			out = append(out, Line{Kind: KindAdd, Text: new[ni], NewNo: ni + 1})
			ni++
		}
	}
	return out
}

// lcs returns the longest common subsequence of a and b by lines.
func lcs(a, b []string) []string {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	seq := make([]string, 0, table[m][n])
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			seq = append(seq, a[i-1])
			i--
			j--
		case table[i-1][j] >= table[i][j-1]:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(seq)-1; l < r; l, r = l+1, r-1 {
		seq[l], seq[r] = seq[r], seq[l]
	}
	return seq
}

// hunks groups aligned lines into hunks with contextRadius lines of
// context on each side. Adjacent change runs whose context overlaps are
// merged into one hunk.
func hunks(lines []Line) []Hunk {
	changed := make([]bool, len(lines))
	any := false
	for i, ln := range lines {
		if ln.Kind != KindContext {
			changed[i] = true
			any = true
		}
	}
	if !any {
		return nil
	}

	// Mark the context window around every change.
	keep := make([]bool, len(lines))
	for i := range lines {
		if !changed[i] {
			continue
		}
		lo := i - contextRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + contextRadius
		if hi > len(lines)-1 {
			hi = len(lines) - 1
		}
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var out []Hunk
	var cur *Hunk
	for i, ln := range lines {
		if !keep[i] {
			if cur != nil {
				out = append(out, *cur)
				cur = nil
			}
			continue
		}
		if cur == nil {
			cur = &Hunk{}
			if ln.OldNo > 0 {
				cur.OldStart = ln.OldNo
			} else {
				cur.OldStart = nextOldNo(lines, i)
			}
			if ln.NewNo > 0 {
				cur.NewStart = ln.NewNo
			} else {
				cur.NewStart = nextNewNo(lines, i)
			}
		}
		cur.Lines = append(cur.Lines, ln)
		if ln.OldNo > 0 {
			cur.OldCount++
		}
		if ln.NewNo > 0 {
			cur.NewCount++
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// nextOldNo finds the first old-side line number at or after i, for hunks
// that open on an addition.
func nextOldNo(lines []Line, i int) int {
	for ; i < len(lines); i++ {
		if lines[i].OldNo > 0 {
			return lines[i].OldNo
		}
	}
	return 1
}

func nextNewNo(lines []Line, i int) int {
	for ; i < len(lines); i++ {
		if lines[i].NewNo > 0 {
			return lines[i].NewNo
		}
	}
	return 1
}
