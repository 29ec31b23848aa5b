// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ledger records extraction outcomes in a local SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/frostbitlabs/clause/internal/extract"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed      = errors.New("ledger closed")
	ErrInvalidPath = errors.New("invalid ledger path")
)

// =============================================================================
// DATA MODEL
// =============================================================================

// Entry is one recorded extraction outcome.
type Entry struct {
	ID      string
	Session string
	At      time.Time
	Path    string
	Action  string
	Outcome string
	Detail  string
}

// Stats summarizes the ledger contents.
type Stats struct {
	Total    int
	Written  int
	Rejected int
	Failed   int
	Sessions int
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is an append-mostly record of every file-write attempt the
// extraction pipeline made, queryable by session and recency.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordBatch records every result of one extraction batch in a single
// transaction. The timestamp is shared across the batch.
func (l *Ledger) RecordBatch(ctx context.Context, session string, results []extract.WriteResult) error {
	if l.db == nil {
		return ErrClosed
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO extractions (id, session, at, path, action, outcome, detail) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(), session, now,
			r.Path, r.Action.String(), r.Outcome.String(), detail)
		if err != nil {
			return fmt.Errorf("failed to record extraction: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// QUERIES
// =============================================================================

// Recent returns the most recent entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if l.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, session, at, path, action, outcome, detail FROM extractions ORDER BY at DESC, rowid DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// BySession returns every entry for one session, oldest first.
func (l *Ledger) BySession(ctx context.Context, session string) ([]Entry, error) {
	if l.db == nil {
		return nil, ErrClosed
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, session, at, path, action, outcome, detail FROM extractions WHERE session = ? ORDER BY at ASC, rowid ASC",
		session)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetStats returns aggregate counts over the whole ledger.
func (l *Ledger) GetStats(ctx context.Context) (*Stats, error) {
	if l.db == nil {
		return nil, ErrClosed
	}

	stats := &Stats{}
	row := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome = 'written' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'rejected-unsafe' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT session)
		FROM extractions`)
	if err := row.Scan(&stats.Total, &stats.Written, &stats.Rejected, &stats.Failed, &stats.Sessions); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

// scanEntries reads all rows into entries.
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Session, &at, &e.Path, &e.Action, &e.Outcome, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.At = time.Unix(at, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
