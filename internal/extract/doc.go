// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
//
// The package implements the response-to-filesystem pipeline: it scans the
// full text of one assistant turn for fenced code blocks that carry a file
// marker, validates each candidate path against the configured project
// root, and writes the surviving targets to disk, reporting one terminal
// outcome per target.
//
// # Key Types
//
//   - FileIntent: one candidate file write discovered in a response
//   - ResolvedWrite: an intent validated and anchored under the project root
//   - WriteResult: per-target terminal outcome for the batch report
//   - Pipeline: ties detection, resolution, and writing together per response
//
// # Usage
//
//	pipe, err := extract.New(cfg.ProjectFolder)
//	if err != nil {
//	    return err // no project root configured
//	}
//	results, err := pipe.Run(responseText)
//	for _, res := range results {
//	    // render res.Path, res.Action, res.Outcome
//	}
//
// Detection is pure: running it twice over the same text yields identical
// intents. Writes are applied in detection order, with duplicate targets
// collapsed last-wins before any file is touched. A failing write is
// reported and does not stop the rest of the batch.
package extract
