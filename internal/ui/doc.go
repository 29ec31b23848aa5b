// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui renders terminal output for clause.
//
// It covers the two extraction-facing views: CodePreview, the highlighted
// dry-run preview of a pending file write, and RenderExtractionReport, the
// per-file outcome lines printed after a batch runs. Highlighting uses
// chroma with the fence language tag, falling back to filename matching and
// content analysis.
package ui
