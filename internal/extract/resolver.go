// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
// resolver.go anchors untrusted model paths under the project root.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// UNSAFE PATH ERROR
// =============================================================================

// UnsafePathError reports a model-supplied path that failed safety
// validation. It is carried in the batch report, never written to disk.
type UnsafePathError struct {
	Path   string
	Reason string
}

func (e *UnsafePathError) Error() string {
	return "unsafe path " + e.Path + ": " + e.Reason
}

// =============================================================================
// PATH RESOLVER & SAFETY GUARD
// =============================================================================

// Resolver validates raw paths from model output and anchors them under a
// project root.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for the given project root. The root must
// be a non-empty absolute path; extraction never guesses a target
// directory.
func NewResolver(root string) (*Resolver, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrNoProjectRoot
	}
	if !filepath.IsAbs(root) {
		return nil, &UnsafePathError{Path: root, Reason: "project root must be absolute"}
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the cleaned project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve turns one intent into zero or one ResolvedWrite. Absolute paths
// are rejected outright; relative paths are normalized, joined to the root,
// and checked for containment. The containment check is unconditional.
// Existence is probed here, at resolution time, so the create/overwrite
// action reflects the filesystem before any write of the batch runs.
func (r *Resolver) Resolve(intent FileIntent) (*ResolvedWrite, error) {
	// macOS pastes and some models emit decomposed Unicode; normalize the
	// path (never the content) so lookups and reports agree.
	path := norm.NFC.String(intent.RelativePath)

	if isAbsolutePath(path) {
		return nil, &UnsafePathError{Path: intent.RelativePath, Reason: "absolute paths are not permitted"}
	}

	joined := filepath.Join(r.root, filepath.FromSlash(path))
	if !isContained(r.root, joined) {
		return nil, &UnsafePathError{Path: intent.RelativePath, Reason: "escapes the project root"}
	}

	rel, err := filepath.Rel(r.root, joined)
	if err != nil {
		return nil, &UnsafePathError{Path: intent.RelativePath, Reason: "cannot be made root-relative"}
	}

	action := ActionCreate
	if info, err := os.Stat(joined); err == nil && !info.IsDir() {
		action = ActionOverwrite
	}

	return &ResolvedWrite{
		AbsolutePath: joined,
		RelativePath: filepath.ToSlash(rel),
		Action:       action,
		Content:      intent.Content,
	}, nil
}

// ResolveBatch resolves intents in detection order. Unsafe intents each
// keep their own rejected slot; safe intents collapse by absolute target,
// last content winning while the first detection position is kept, since
// all intents of a batch originate from one atomic assistant turn.
func (r *Resolver) ResolveBatch(intents []FileIntent) []Planned {
	plan := make([]Planned, 0, len(intents))
	slotByTarget := make(map[string]int)

	for _, intent := range intents {
		resolved, err := r.Resolve(intent)
		if err != nil {
			plan = append(plan, Planned{Intent: intent, Reject: err})
			continue
		}
		if idx, seen := slotByTarget[resolved.AbsolutePath]; seen {
			// Last-wins: replace the earlier slot's payload in place.
			plan[idx].Intent = intent
			plan[idx].Resolved = resolved
			continue
		}
		slotByTarget[resolved.AbsolutePath] = len(plan)
		plan = append(plan, Planned{Intent: intent, Resolved: resolved})
	}

	return plan
}

// =============================================================================
// CONTAINMENT CHECK
// =============================================================================

// SECURITY: isContained is the one security-relevant contract in the
// pipeline. It is a pure string predicate, independent of the filesystem,
// so it can be exhaustively tested with synthetic traversal strings.
// Both arguments must already be cleaned absolute paths.
func isContained(root, candidate string) bool {
	if candidate == root {
		return true
	}
	// The separator suffix stops /home/user matching /home/username.
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

// isAbsolutePath reports whether the model supplied an absolute path in
// any convention worth guarding against, including Windows drive letters
// and UNC-style prefixes that filepath.IsAbs would miss on this platform.
func isAbsolutePath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return true
	}
	if len(path) >= 2 && path[1] == ':' {
		return true
	}
	return false
}
