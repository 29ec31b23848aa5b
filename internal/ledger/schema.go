// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ledger records extraction outcomes in a local SQLite database.
package ledger

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the extraction ledger
const Schema = `
-- Metadata table for schema version and ledger state
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Extractions table: one row per file write attempt
CREATE TABLE IF NOT EXISTS extractions (
    id TEXT PRIMARY KEY,        -- UUID
    session TEXT NOT NULL,      -- Chat session id
    at INTEGER NOT NULL,        -- Unix timestamp
    path TEXT NOT NULL,         -- Resolved absolute path
    action TEXT NOT NULL,       -- create, overwrite
    outcome TEXT NOT NULL,      -- written, rejected, failed, skipped
    detail TEXT                 -- Rejection reason or error message
);

CREATE INDEX IF NOT EXISTS idx_extractions_session ON extractions(session);
CREATE INDEX IF NOT EXISTS idx_extractions_at ON extractions(at);
CREATE INDEX IF NOT EXISTS idx_extractions_path ON extractions(path);
CREATE INDEX IF NOT EXISTS idx_extractions_outcome ON extractions(outcome);
`

// InitMetadata initializes the metadata table with default values
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`
