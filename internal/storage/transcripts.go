// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides transcript persistence for clause.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frostbitlabs/clause/internal/util"
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript represents a persisted chat session.
type Transcript struct {
	// Identity
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []TranscriptMessage `json:"messages"`

	// Context tracking
	ProjectFolder string `json:"project_folder,omitempty"`
	TokensUsed    int    `json:"tokens_used,omitempty"`
}

// TranscriptMessage represents a persisted message.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Statistics (for assistant messages)
	TokenCount   int     `json:"token_count,omitempty"`
	DurationMs   int64   `json:"duration_ms,omitempty"`
	TokensPerSec float64 `json:"tokens_per_sec,omitempty"`
	TTFTMs       int64   `json:"ttft_ms,omitempty"`

	// Extraction results attached to assistant messages
	FilesWritten []string `json:"files_written,omitempty"`
}

// TranscriptMeta contains metadata for listing transcripts.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"` // First user message truncated
}

// NewUserTranscriptMessage builds a user message with id and timestamp set.
func NewUserTranscriptMessage(content string) TranscriptMessage {
	return TranscriptMessage{
		ID:        uuid.New().String(),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTranscriptMessage builds an assistant message with id and
// timestamp set.
func NewAssistantTranscriptMessage(content string) TranscriptMessage {
	return TranscriptMessage{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   content,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore handles transcript persistence as one JSON file per
// session.
type TranscriptStore struct {
	// BaseDir is the directory for storing transcripts
	// Default: ~/.clause/transcripts/
	BaseDir string

	// MaxSessions limits stored transcripts (0 = unlimited)
	MaxSessions int
}

// NewTranscriptStore creates a store rooted under the user's home directory.
func NewTranscriptStore() (*TranscriptStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewTranscriptStoreWithDir(filepath.Join(homeDir, ".clause", "transcripts"))
}

// NewTranscriptStoreWithDir creates a store with a custom directory.
func NewTranscriptStoreWithDir(baseDir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &TranscriptStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID.
func (s *TranscriptStore) Save(t *Transcript) (string, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	if t.Summary == "" {
		t.Summary = summarize(t)
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.filePath(t.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}

	return t.ID, nil
}

// summarize derives a one-line summary from the first user message.
func summarize(t *Transcript) string {
	for _, msg := range t.Messages {
		if msg.Role == "user" && msg.Content != "" {
			content := strings.ReplaceAll(msg.Content, "\n", " ")
			content = strings.ReplaceAll(content, "\r", "")
			return util.TruncateRunes(content, 50)
		}
	}
	return "New session"
}

// enforceLimit removes oldest transcripts if over limit.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxSessions {
		return
	}

	// List returns newest first; everything past the cap goes.
	for _, meta := range metas[s.MaxSessions:] {
		s.Delete(meta.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadByIndex loads a transcript by its index in the list (0 = most recent).
func (s *TranscriptStore) LoadByIndex(index int) (*Transcript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrTranscriptNotFound
	}
	return s.Load(metas[index].ID)
}

// LoadByPrefix loads a transcript whose ID starts with the given prefix.
// Ambiguous prefixes are an error.
func (s *TranscriptStore) LoadByPrefix(prefix string) (*Transcript, error) {
	if prefix == "" {
		return nil, ErrTranscriptNotFound
	}

	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	var match string
	for _, meta := range metas {
		if strings.HasPrefix(meta.ID, prefix) {
			if match != "" {
				return nil, ErrAmbiguousPrefix
			}
			match = meta.ID
		}
	}
	if match == "" {
		return nil, ErrTranscriptNotFound
	}
	return s.Load(match)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved transcripts (most recent first).
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	var metas []TranscriptMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		t, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, TranscriptMeta{
			ID:           t.ID,
			Summary:      t.Summary,
			Model:        t.Model,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			MessageCount: len(t.Messages),
			Preview:      t.GetPreview(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds transcripts whose summary or preview matches a query string.
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []TranscriptMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Summary), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// SearchMessages searches transcripts by message content (case-insensitive).
func (s *TranscriptStore) SearchMessages(query string) ([]TranscriptMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []TranscriptMeta

	for _, meta := range all {
		t, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range t.Messages {
			if strings.Contains(strings.ToLower(msg.Content), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts.
func (s *TranscriptStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// TranscriptError represents a transcript-related error.
// It implements the error interface and can be compared using errors.Is.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing transcript errors.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
var ErrTranscriptNotFound = &TranscriptError{Message: "session not found"}

// ErrAmbiguousPrefix is returned when an ID prefix matches several sessions.
var ErrAmbiguousPrefix = &TranscriptError{Message: "ambiguous session id prefix"}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList formats saved sessions as a display table.
func FormatSessionList(sessions []TranscriptMeta) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 12) + " " + util.PadRight("Created", 20) + " " + util.PadRight("Messages", 8) + " Preview\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, s := range sessions {
		sb.WriteString(util.PadRight(util.TruncateRunesNoEllipsis(s.ID, 12), 12) + " " +
			util.PadRight(s.CreatedAt.Format("2006-01-02 15:04"), 20) + " " +
			util.PadRight(util.IntToStr(s.MessageCount), 8) + " " +
			util.TruncateRunes(s.Preview, 30) + "\n")
	}
	return sb.String()
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportMarkdown exports the transcript as a Markdown formatted string.
func (t *Transcript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Session " + t.ID + "\n\n")
	sb.WriteString("Created: " + t.CreatedAt.Format(time.RFC3339) + "\n")
	if t.Model != "" {
		sb.WriteString("Model: " + t.Model + "\n")
	}
	sb.WriteString("\n---\n\n")

	for _, msg := range t.Messages {
		role := "**User**"
		if msg.Role == "assistant" {
			role = "**Assistant**"
		}
		sb.WriteString(role + " (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
		if len(msg.FilesWritten) > 0 {
			sb.WriteString("Files written: " + strings.Join(msg.FilesWritten, ", ") + "\n\n")
		}
		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// ExportJSON exports the transcript as pretty-printed JSON.
func (t *Transcript) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ExportText exports the transcript as plain text with role prefixes.
func (t *Transcript) ExportText() string {
	var sb strings.Builder
	for _, msg := range t.Messages {
		prefix := "You: "
		if msg.Role == "assistant" {
			prefix = "Clause: "
		}
		sb.WriteString(prefix + msg.Content + "\n\n")
	}
	return sb.String()
}

// GetPreview returns a preview string from the first user message.
func (t *Transcript) GetPreview() string {
	for _, msg := range t.Messages {
		if msg.Role == "user" && msg.Content != "" {
			preview := strings.ReplaceAll(msg.Content, "\n", " ")
			return util.TruncateRunes(preview, 80)
		}
	}
	return ""
}

// MessageCount returns the number of messages in the transcript.
func (t *Transcript) MessageCount() int {
	return len(t.Messages)
}
