// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"testing"
)

// ===== COMPUTATION =====

func TestCompute_NoChanges(t *testing.T) {
	d := Compute("a.txt", "one\ntwo\n", "one\ntwo\n")
	if d.Changed() {
		t.Error("identical content should not be a change")
	}
	if len(d.Hunks) != 0 {
		t.Errorf("hunks = %d, want 0", len(d.Hunks))
	}
	if d.Summary() != "no changes" {
		t.Errorf("Summary = %q", d.Summary())
	}
}

func TestCompute_NewFile(t *testing.T) {
	d := Compute("a.txt", "", "one\ntwo\n")
	if !d.Created {
		t.Error("empty old content should mark Created")
	}
	if d.Adds != 2 || d.Dels != 0 {
		t.Errorf("adds/dels = %d/%d, want 2/0", d.Adds, d.Dels)
	}
	if d.Summary() != "new file, +2" {
		t.Errorf("Summary = %q", d.Summary())
	}
}

func TestCompute_Modification(t *testing.T) {
	old := "alpha\nbravo\ncharlie\n"
	new := "alpha\nbeta\ncharlie\n"

	d := Compute("a.txt", old, new)
	if d.Adds != 1 || d.Dels != 1 {
		t.Errorf("adds/dels = %d/%d, want 1/1", d.Adds, d.Dels)
	}
	if len(d.Hunks) != 1 {
		t.Fatalf("hunks = %d, want 1", len(d.Hunks))
	}

	var kinds []LineKind
	for _, ln := range d.Hunks[0].Lines {
		kinds = append(kinds, ln.Kind)
	}
	want := []LineKind{KindContext, KindDel, KindAdd, KindContext}
	if len(kinds) != len(want) {
		t.Fatalf("lines = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("line %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestCompute_SeparateHunks(t *testing.T) {
	var oldSB, newSB strings.Builder
	for i := 0; i < 30; i++ {
		oldSB.WriteString("line\n")
		newSB.WriteString("line\n")
	}
	oldText := "first-old\n" + oldSB.String() + "last-old\n"
	newText := "first-new\n" + newSB.String() + "last-new\n"

	d := Compute("a.txt", oldText, newText)
	if len(d.Hunks) != 2 {
		t.Errorf("hunks = %d, want 2 (changes far apart should split)", len(d.Hunks))
	}
}

func TestCompute_AdjacentChangesMerge(t *testing.T) {
	old := "a\nb\nc\nd\ne\n"
	new := "a\nB\nc\nD\ne\n"

	d := Compute("a.txt", old, new)
	if len(d.Hunks) != 1 {
		t.Errorf("hunks = %d, want 1 (overlapping context should merge)", len(d.Hunks))
	}
}

// ===== UNIFIED FORMAT =====

func TestUnified(t *testing.T) {
	d := Compute("pkg/main.go", "old\nsame\n", "new\nsame\n")
	out := d.Unified()

	for _, want := range []string{
		"--- a/pkg/main.go",
		"+++ b/pkg/main.go",
		"@@ -1,2 +1,2 @@",
		"-old",
		"+new",
		" same",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("unified output missing %q:\n%s", want, out)
		}
	}
}

func TestUnified_HunkCounts(t *testing.T) {
	// One deletion only: new side count excludes the removed line.
	d := Compute("a.txt", "keep\ngone\n", "keep\n")
	if len(d.Hunks) != 1 {
		t.Fatalf("hunks = %d, want 1", len(d.Hunks))
	}
	h := d.Hunks[0]
	if h.OldCount != 2 || h.NewCount != 1 {
		t.Errorf("counts = -%d +%d, want -2 +1", h.OldCount, h.NewCount)
	}
}
