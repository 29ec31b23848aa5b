// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
package extract

import "errors"

// =============================================================================
// DATA MODEL
// =============================================================================

// FileIntent is one candidate file write discovered in a response.
// Intents are immutable once built and never outlive the handling of the
// response they came from.
type FileIntent struct {
	// RelativePath is the path exactly as the model wrote it. It is never
	// empty (blocks with no discoverable path are not emitted), but it is
	// untrusted: it may be absolute or contain traversal segments.
	RelativePath string

	// Content is the literal text between the fence markers, verbatim.
	// Line endings and indentation are preserved; every content line keeps
	// its terminator, so a one-line block ends in a newline.
	Content string

	// LanguageHint is the tag from the opening fence, informational only.
	LanguageHint string
}

// Action says whether a resolved target already existed when it was
// resolved.
type Action int

const (
	// ActionNone marks report entries that never resolved (unsafe paths).
	ActionNone Action = iota

	// ActionCreate means the target did not exist at resolution time.
	ActionCreate

	// ActionOverwrite means the target existed at resolution time.
	ActionOverwrite
)

// String returns the report label for the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	default:
		return "-"
	}
}

// ResolvedWrite is a FileIntent that passed validation against the project
// root. Existence is captured at resolution time, before any write in the
// batch mutates the filesystem, so the reported action reflects the state
// the batch started from.
type ResolvedWrite struct {
	// AbsolutePath is RelativePath joined to the project root and
	// normalized. It is always strictly contained within the root.
	AbsolutePath string

	// RelativePath is the cleaned root-relative form, kept for reporting.
	RelativePath string

	// Action records create vs overwrite as of resolution time.
	Action Action

	// Content carries the intent's verbatim content through to the writer.
	Content string
}

// Outcome is the terminal state of one batch entry. Every entry reaches
// exactly one outcome; there are no retries and no partial states.
type Outcome int

const (
	// OutcomeWritten means the file was written successfully.
	OutcomeWritten Outcome = iota

	// OutcomeRejectedUnsafe means the path failed safety validation and
	// was never written.
	OutcomeRejectedUnsafe

	// OutcomeFailed means the write was attempted and failed (permissions,
	// disk full, ...). The batch continues past it.
	OutcomeFailed
)

// String returns the report label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeRejectedUnsafe:
		return "rejected-unsafe"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WriteResult is one entry of the ordered batch report handed back to the
// caller. The pipeline performs no console output; rendering the report is
// the caller's job.
type WriteResult struct {
	// Path is the cleaned relative path for resolved targets, or the raw
	// model-supplied path for rejected ones.
	Path string

	// Action is create/overwrite for resolved targets, ActionNone for
	// rejected ones.
	Action Action

	// Outcome is the terminal state of this entry.
	Outcome Outcome

	// Err carries the failure reason for rejected-unsafe and failed
	// entries; nil for written ones.
	Err error
}

// Planned is one slot of a resolved batch before any write happens: either
// a ResolvedWrite ready to apply or a rejection that will be reported.
// Slots preserve detection order; duplicate safe targets have already been
// collapsed last-wins.
type Planned struct {
	Intent   FileIntent
	Resolved *ResolvedWrite // nil when rejected
	Reject   error          // non-nil when the path failed validation
}

// ErrNoProjectRoot is returned when extraction is attempted without a
// configured project root. The pipeline never guesses a target directory,
// and in particular never defaults to the current working directory.
var ErrNoProjectRoot = errors.New("no project root configured")
