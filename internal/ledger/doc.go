// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ledger records extraction outcomes in a local SQLite database.
//
// Every file-write attempt the extraction pipeline makes — written,
// rejected, or failed — lands as one row in the extractions table, keyed by
// a UUID and tagged with its chat session. The ledger backs the /files
// slash command and the history views.
//
// # Key Types
//
//   - Ledger: database handle with batch recording and queries
//   - Entry: one recorded extraction outcome
//   - Stats: aggregate counts
//
// # Usage
//
//	l, err := ledger.Open(filepath.Join(configDir, "ledger.db"))
//	if err != nil { ... }
//	defer l.Close()
//
//	_ = l.RecordBatch(ctx, sessionID, results)
//	entries, _ := l.Recent(ctx, 20)
//
// The database uses WAL mode with a single connection; the pure Go driver
// (modernc.org/sqlite) keeps the binary cgo-free.
package ledger
