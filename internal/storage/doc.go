// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides transcript persistence for clause.
//
// Each chat session is saved as one pretty-printed JSON file under
// ~/.clause/transcripts/, written atomically. The store keeps at most
// MaxSessions transcripts and prunes the oldest beyond that.
//
// # Key Types
//
//   - TranscriptStore: save, load, list, search, and delete sessions
//   - Transcript: a full session with messages and metadata
//   - TranscriptMeta: listing metadata without message bodies
//
// # Usage
//
//	store, err := storage.NewTranscriptStore()
//	if err != nil { ... }
//	id, err := store.Save(&storage.Transcript{Messages: msgs})
//	sessions, err := store.List()
package storage
