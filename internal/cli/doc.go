// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the clause command-line interface.
//
// The package owns argument parsing, the interactive chat loop, the one-shot
// ask and extract commands, first-run setup, and the error-to-exit-code
// mapping. Everything below it (API client, extraction pipeline, stores) is
// plain library code; this is the only package that prints to the terminal
// on its own initiative.
package cli
