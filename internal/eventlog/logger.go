// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package eventlog records application events as JSON lines.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// MaxDetailLength is the maximum length of a detail value before truncation.
const MaxDetailLength = 200

// DefaultMaxFileSize is the default max file size before rotation (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Event types recorded by clause.
const (
	TypeSessionStart = "session_start"
	TypeSessionEnd   = "session_end"
	TypePrompt       = "prompt"
	TypeResponse     = "response"
	TypeExtraction   = "extraction"
	TypeAPIError     = "api_error"
	TypeConfigChange = "config_change"
)

// =============================================================================
// EVENT
// =============================================================================

// Event represents a single event log entry.
type Event struct {
	Time    time.Time         `json:"time"`
	Type    string            `json:"type"`
	Session string            `json:"session,omitempty"`
	Detail  map[string]string `json:"detail,omitempty"`
}

// ToJSON formats the event as one JSON line (no trailing newline).
func (e *Event) ToJSON() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// =============================================================================
// LOGGER
// =============================================================================

// keyPattern matches Anthropic-style API keys so they never land in the log,
// whatever detail field they arrive through.
var keyPattern = regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{8,}`)

// Logger appends events to a JSONL file.
//
// RELIABILITY: The logger is best-effort by contract. Write errors are
// returned so callers can see them, but every caller in clause treats them
// as non-fatal; a full disk must never take the chat loop down.
type Logger struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	enabled bool
	maxSize int64
}

// New creates a logger appending to the given path. An empty path disables
// the logger entirely; all methods become no-ops.
func New(path string) (*Logger, error) {
	if path == "" {
		return &Logger{enabled: false}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create event log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log file: %w", err)
	}

	return &Logger{
		path:    path,
		file:    file,
		enabled: true,
		maxSize: DefaultMaxFileSize,
	}, nil
}

// Log appends one event. Detail values are redacted and truncated; the
// timestamp is stamped here if the caller left it zero.
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.file == nil {
		return nil
	}

	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	for k, v := range event.Detail {
		event.Detail[k] = sanitize(v)
	}

	if err := l.checkRotationLocked(); err != nil {
		return err
	}

	line, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// sanitize redacts secrets and truncates oversized values.
func sanitize(v string) string {
	v = keyPattern.ReplaceAllString(v, "[REDACTED]")
	if len(v) > MaxDetailLength {
		v = v[:MaxDetailLength] + "..."
	}
	return v
}

// =============================================================================
// CONVENIENCE METHODS
// =============================================================================

// LogSessionStart records the beginning of a chat session.
func (l *Logger) LogSessionStart(session string, detail map[string]string) error {
	return l.Log(Event{Type: TypeSessionStart, Session: session, Detail: detail})
}

// LogSessionEnd records the end of a chat session.
func (l *Logger) LogSessionEnd(session string, detail map[string]string) error {
	return l.Log(Event{Type: TypeSessionEnd, Session: session, Detail: detail})
}

// LogPrompt records that a prompt was sent. Only the length is recorded;
// prompt text stays out of the log.
func (l *Logger) LogPrompt(session string, promptLen int) error {
	return l.Log(Event{Type: TypePrompt, Session: session, Detail: map[string]string{
		"length": fmt.Sprintf("%d", promptLen),
	}})
}

// LogResponse records a completed assistant response.
func (l *Logger) LogResponse(session, model string, outputTokens int, durationMs int64) error {
	return l.Log(Event{Type: TypeResponse, Session: session, Detail: map[string]string{
		"model":         model,
		"output_tokens": fmt.Sprintf("%d", outputTokens),
		"duration_ms":   fmt.Sprintf("%d", durationMs),
	}})
}

// LogExtraction records the outcome counts of one extraction batch.
func (l *Logger) LogExtraction(session string, written, rejected, failed int) error {
	return l.Log(Event{Type: TypeExtraction, Session: session, Detail: map[string]string{
		"written":  fmt.Sprintf("%d", written),
		"rejected": fmt.Sprintf("%d", rejected),
		"failed":   fmt.Sprintf("%d", failed),
	}})
}

// LogAPIError records a failed API call.
func (l *Logger) LogAPIError(session string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return l.Log(Event{Type: TypeAPIError, Session: session, Detail: map[string]string{
		"error": msg,
	}})
}

// LogConfigChange records a configuration change.
func (l *Logger) LogConfigChange(session, key, value string) error {
	return l.Log(Event{Type: TypeConfigChange, Session: session, Detail: map[string]string{
		"key":   key,
		"value": value,
	}})
}

// =============================================================================
// FILE ROTATION
// =============================================================================

// checkRotationLocked rotates when the file has outgrown maxSize.
func (l *Logger) checkRotationLocked() error {
	if l.maxSize <= 0 {
		return nil
	}

	info, err := l.file.Stat()
	if err != nil {
		return nil // Ignore stat errors
	}
	if info.Size() < l.maxSize {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close event log for rotation: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(l.path)
	base := strings.TrimSuffix(l.path, ext)
	rotatedPath := fmt.Sprintf("%s_%s%s", base, timestamp, ext)

	if err := os.Rename(l.path, rotatedPath); err != nil {
		l.file, _ = os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		return fmt.Errorf("failed to rotate event log: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create new event log after rotation: %w", err)
	}
	l.file = file
	return nil
}

// SetMaxSize sets the maximum file size before rotation.
func (l *Logger) SetMaxSize(size int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxSize = size
}

// Path returns the log file path ("" when disabled).
func (l *Logger) Path() string {
	return l.path
}

// Enabled reports whether the logger writes anywhere.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.enabled = false
	return err
}
