// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
// writer.go materializes resolved writes and builds the batch report.
package extract

import (
	"errors"
	"os"
	"path/filepath"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer applies a resolved batch to disk.
type Writer struct {
	// DirPerm is used for created intermediate directories (default 0755).
	DirPerm os.FileMode

	// FilePerm is used for written files (default 0644).
	FilePerm os.FileMode
}

// NewWriter returns a writer with default permissions.
func NewWriter() *Writer {
	return &Writer{DirPerm: 0755, FilePerm: 0644}
}

// Apply materializes the plan in order and returns the ordered batch
// report. Rejected slots are reported as rejected-unsafe without touching
// the filesystem. A failing write is reported as failed with its cause and
// the batch continues; one bad file never aborts the rest. Each slot ends
// in exactly one terminal outcome: there are no retries and no partial
// states.
func (w *Writer) Apply(plan []Planned) []WriteResult {
	results := make([]WriteResult, 0, len(plan))

	for _, slot := range plan {
		if slot.Reject != nil {
			results = append(results, WriteResult{
				Path:    slot.Intent.RelativePath,
				Action:  ActionNone,
				Outcome: OutcomeRejectedUnsafe,
				Err:     slot.Reject,
			})
			continue
		}

		res := WriteResult{
			Path:   slot.Resolved.RelativePath,
			Action: slot.Resolved.Action,
		}
		if err := w.write(slot.Resolved); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
		} else {
			res.Outcome = OutcomeWritten
		}
		results = append(results, res)
	}

	return results
}

// write creates missing parent directories under the root and writes the
// content verbatim: no line-ending translation, no reformatting. Parents
// are always at or below the root because the target is contained in it.
func (w *Writer) write(rw *ResolvedWrite) error {
	if info, err := os.Stat(rw.AbsolutePath); err == nil && info.IsDir() {
		return errors.New("path is a directory")
	}

	dirPerm := w.DirPerm
	if dirPerm == 0 {
		dirPerm = 0755
	}
	filePerm := w.FilePerm
	if filePerm == 0 {
		filePerm = 0644
	}

	if err := os.MkdirAll(filepath.Dir(rw.AbsolutePath), dirPerm); err != nil {
		return err
	}
	return os.WriteFile(rw.AbsolutePath, []byte(rw.Content), filePerm)
}
