// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anthropic provides the HTTP client for the Anthropic Messages API.
// stream.go parses the server-sent-event stream of /v1/messages.
package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader parses the SSE stream of a streaming Messages call.
//
// The wire format is the standard event-stream framing: an "event:" line
// naming the event type, a "data:" line carrying a JSON payload, and a blank
// line terminating the event. The events this client acts on are
// message_start (model, input tokens), content_block_delta with a text_delta
// (the text itself), message_delta (stop reason, output tokens), and
// message_stop / error (stream end). Everything else, ping included, is
// ignored.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder

	model        string
	inputTokens  int
	outputTokens int
	stopReason   string
	started      bool
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the stream is complete or the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readEvent()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			if chunk != nil {
				s.started = true
				callback(*chunk)
				if chunk.Done {
					return chunk.Error
				}
			}
		}
	}
}

// readEvent reads one SSE event and maps it to a chunk, or nil for events
// that carry nothing the caller needs.
func (s *StreamReader) readEvent() (*StreamChunk, error) {
	var data string

	// Collect lines until the blank event terminator.
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) == "" && data == "" {
				return nil, io.EOF
			}
			if data == "" {
				return nil, err
			}
			// A final event without its trailing blank line still counts.
			break
		}

		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if data != "" {
				goto parse
			}
			// Stray blank line between events.
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		default:
			// "event:" lines are redundant with the payload's type field;
			// comments and unknown fields are skipped per the SSE spec.
		}
	}

parse:
	var event streamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		// Skip malformed events rather than killing the stream.
		return nil, nil
	}

	switch event.Type {
	case "message_start":
		s.model = event.Message.Model
		s.inputTokens = event.Message.Usage.InputTokens
		return nil, nil

	case "content_block_delta":
		if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
			return nil, nil
		}
		s.accumulator.WriteString(event.Delta.Text)
		return &StreamChunk{
			Content:     event.Delta.Text,
			Model:       s.model,
			InputTokens: s.inputTokens,
		}, nil

	case "message_delta":
		if event.Delta.StopReason != "" {
			s.stopReason = event.Delta.StopReason
		}
		if event.Usage.OutputTokens > 0 {
			s.outputTokens = event.Usage.OutputTokens
		}
		return nil, nil

	case "message_stop":
		return &StreamChunk{
			Done:         true,
			Model:        s.model,
			StopReason:   s.stopReason,
			InputTokens:  s.inputTokens,
			OutputTokens: s.outputTokens,
		}, nil

	case "error":
		err := &ClientError{
			Type:    errTypeFromAPI(event.Error.Type),
			Message: event.Error.Message,
		}
		return &StreamChunk{Done: true, Error: err, Model: s.model}, nil

	default:
		// ping, content_block_start, content_block_stop, future event types.
		return nil, nil
	}
}

// errTypeFromAPI maps a streaming error event's type string.
func errTypeFromAPI(apiType string) ErrorType {
	switch apiType {
	case "authentication_error", "permission_error":
		return ErrTypeAuth
	case "rate_limit_error":
		return ErrTypeRateLimit
	case "overloaded_error":
		return ErrTypeOverloaded
	case "invalid_request_error":
		return ErrTypeInvalidRequest
	default:
		return ErrTypeInvalidResponse
	}
}

// GetAccumulated returns all accumulated content.
func (s *StreamReader) GetAccumulated() string {
	return s.accumulator.String()
}

// GetModel returns the model id reported by the stream.
func (s *StreamReader) GetModel() string {
	return s.model
}

// Started reports whether any event reached the caller. Retrying a stream
// that already delivered content would duplicate output.
func (s *StreamReader) Started() bool {
	return s.started
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats holds statistics collected during streaming.
type StreamStats struct {
	// Timing
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	// Token counts (from message_start / message_delta usage)
	InputTokens  int
	OutputTokens int

	// Computed
	TTFT            time.Duration // Time to first token
	TokensPerSecond float64
}

// NewStreamStats creates a new StreamStats with start time set.
func NewStreamStats() *StreamStats {
	return &StreamStats{
		StartTime: time.Now(),
	}
}

// RecordFirstToken marks the time of first token arrival.
func (s *StreamStats) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize computes final statistics from the last chunk.
func (s *StreamStats) Finalize(chunk StreamChunk) {
	s.EndTime = time.Now()
	s.InputTokens = chunk.InputTokens
	s.OutputTokens = chunk.OutputTokens

	// Tokens per second over the generation window (first token to end).
	if !s.FirstTokenTime.IsZero() {
		elapsed := s.EndTime.Sub(s.FirstTokenTime)
		s.TokensPerSecond = TokensPerSecond(s.OutputTokens, elapsed)
	}
}

// Format returns a short human-readable summary line.
func (s *StreamStats) Format() string {
	total := s.EndTime.Sub(s.StartTime)
	return formatStatsDuration(total.Seconds()) + " | " +
		formatStatsInt(s.OutputTokens) + " tokens | " +
		formatStatsFloat(s.TokensPerSecond) + " tok/s | " +
		"TTFT " + formatStatsInt(int(s.TTFT.Milliseconds())) + "ms"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatStatsInt formats an integer without using fmt.
func formatStatsInt(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// formatStatsFloat formats a float with one decimal place.
func formatStatsFloat(f float64) string {
	whole := int(f)
	frac := int((f - float64(whole)) * 10)
	if frac < 0 {
		frac = -frac
	}
	return formatStatsInt(whole) + "." + formatStatsInt(frac)
}

// formatStatsDuration formats seconds as a nice duration string.
func formatStatsDuration(seconds float64) string {
	if seconds < 1 {
		ms := int(seconds * 1000)
		return formatStatsInt(ms) + "ms"
	}
	return formatStatsFloat(seconds) + "s"
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator collects streaming chunks and builds statistics.
type StreamAccumulator struct {
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	content strings.Builder
	Stats   *StreamStats
	Done    bool
	Error   error

	stopReason string
}

// NewStreamAccumulator creates a new accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{
		Stats: NewStreamStats(),
	}
}

// Add processes a new chunk.
func (a *StreamAccumulator) Add(chunk StreamChunk) {
	if chunk.Error != nil {
		a.Error = chunk.Error
		a.Done = true
		return
	}

	// Record first token
	if chunk.Content != "" && a.content.Len() == 0 {
		a.Stats.RecordFirstToken()
	}

	// Accumulate content
	a.content.WriteString(chunk.Content)

	// Check if done
	if chunk.Done {
		a.Done = true
		a.stopReason = chunk.StopReason
		a.Stats.Finalize(chunk)
	}
}

// GetContent returns the accumulated content.
func (a *StreamAccumulator) GetContent() string {
	return a.content.String()
}

// IsDone returns whether streaming is complete.
func (a *StreamAccumulator) IsDone() bool {
	return a.Done
}

// GetError returns any error that occurred.
func (a *StreamAccumulator) GetError() error {
	return a.Error
}

// GetStats returns the collected statistics.
func (a *StreamAccumulator) GetStats() *StreamStats {
	return a.Stats
}

// GetStopReason returns the stop reason from the final chunk.
func (a *StreamAccumulator) GetStopReason() string {
	return a.stopReason
}
