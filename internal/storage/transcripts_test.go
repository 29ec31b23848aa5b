// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *TranscriptStore {
	t.Helper()
	store, err := NewTranscriptStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func sampleTranscript(userMsg string) *Transcript {
	return &Transcript{
		Model: "claude-sonnet-4-5-20250929",
		Messages: []TranscriptMessage{
			NewUserTranscriptMessage(userMsg),
			NewAssistantTranscriptMessage("Sure, here you go."),
		},
	}
}

// ===== SAVE / LOAD =====

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(sampleTranscript("write me a parser"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(loaded.Messages))
	}
	if loaded.Messages[0].Content != "write me a parser" {
		t.Errorf("unexpected content: %q", loaded.Messages[0].Content)
	}
	if loaded.Summary == "" {
		t.Error("expected auto-generated summary")
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Load("missing"); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound, got %v", err)
	}
}

func TestSave_PreservesID(t *testing.T) {
	store := newTestStore(t)

	tr := sampleTranscript("hello")
	id1, err := store.Save(tr)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	tr.Messages = append(tr.Messages, NewUserTranscriptMessage("more"))
	id2, err := store.Save(tr)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("re-saving changed id: %s vs %s", id1, id2)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("expected 1 transcript, got %d", len(metas))
	}
}

// ===== LIST / SEARCH =====

func TestList_NewestFirst(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(sampleTranscript("old session")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Force distinct UpdatedAt ordering.
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Save(sampleTranscript("new session")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 transcripts, got %d", len(metas))
	}
	if metas[0].Preview != "new session" {
		t.Errorf("expected newest first, got %q", metas[0].Preview)
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(sampleTranscript("build a webserver")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Save(sampleTranscript("holiday card generator")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	results, err := store.Search("WEBSERVER")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearchMessages(t *testing.T) {
	store := newTestStore(t)

	tr := sampleTranscript("unrelated prompt")
	tr.Messages[1].Content = "here is the frobnicator you asked for"
	if _, err := store.Save(tr); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	results, err := store.SearchMessages("frobnicator")
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestLoadByPrefix(t *testing.T) {
	store := newTestStore(t)
	id, err := store.Save(sampleTranscript("prefix me"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.LoadByPrefix(id[:8])
	if err != nil {
		t.Fatalf("LoadByPrefix failed: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("expected %s, got %s", id, loaded.ID)
	}

	if _, err := store.LoadByPrefix("zzzz"); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound, got %v", err)
	}
}

// ===== DELETE / LIMIT =====

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	id, err := store.Save(sampleTranscript("ephemeral"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound after delete, got %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound on double delete, got %v", err)
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxSessions = 2

	for i := 0; i < 4; i++ {
		if _, err := store.Save(sampleTranscript("session")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Errorf("expected limit of 2, got %d", len(metas))
	}
}

// ===== EXPORT =====

func TestExportMarkdown(t *testing.T) {
	tr := sampleTranscript("export me")
	tr.ID = "abc123"
	tr.CreatedAt = time.Now()
	tr.Messages[1].FilesWritten = []string{"main.go"}

	md := tr.ExportMarkdown()
	for _, want := range []string{"# Session abc123", "**User**", "**Assistant**", "export me", "Files written: main.go"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestExportText(t *testing.T) {
	txt := sampleTranscript("plain please").ExportText()
	if !strings.Contains(txt, "You: plain please") {
		t.Errorf("text export missing user line: %q", txt)
	}
	if !strings.Contains(txt, "Clause: ") {
		t.Errorf("text export missing assistant line: %q", txt)
	}
}

func TestFormatSessionList(t *testing.T) {
	if got := FormatSessionList(nil); got != "No sessions found." {
		t.Errorf("unexpected empty list format: %q", got)
	}

	out := FormatSessionList([]TranscriptMeta{{
		ID:           "0123456789abcdef",
		CreatedAt:    time.Now(),
		MessageCount: 4,
		Preview:      "hello world",
	}})
	if !strings.Contains(out, "0123456789ab") {
		t.Errorf("expected truncated id in listing: %q", out)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected preview in listing: %q", out)
	}
}
