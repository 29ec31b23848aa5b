// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anthropic provides the HTTP client for the Anthropic Messages API.
package anthropic

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The message content
}

// MessagesRequest is the request body for the /v1/messages endpoint.
type MessagesRequest struct {
	Model       string    `json:"model"`                 // Model id (e.g., "claude-sonnet-4-5-20250929")
	MaxTokens   int       `json:"max_tokens"`            // Output token cap, required by the API
	System      string    `json:"system,omitempty"`      // System prompt
	Messages    []Message `json:"messages"`              // Conversation history
	Temperature *float64  `json:"temperature,omitempty"` // 0.0-1.0; nil for API default
	Stream      bool      `json:"stream,omitempty"`      // Enable SSE streaming
	StopSeqs    []string  `json:"stop_sequences,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ContentBlock is one block of a non-streaming response. This client only
// requests text, so Type is always "text" in practice.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage carries token accounting from the API.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessagesResponse is the response from a non-streaming /v1/messages call.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"` // "message"
	Role       string         `json:"role"` // "assistant"
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"` // "end_turn", "max_tokens", "stop_sequence"
	Usage      Usage          `json:"usage"`
}

// Text concatenates the text blocks of a response.
func (r *MessagesResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// apiError is the JSON error body the API returns alongside non-2xx statuses
// and inside streaming error events:
//
//	{"type":"error","error":{"type":"...","message":"..."}}
type apiError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk represents one delivery from a streaming response.
type StreamChunk struct {
	// Content is the text delta from this chunk (empty for control events).
	Content string

	// Done is true on the final chunk of the stream.
	Done bool

	// StopReason is populated once the API reports it (message_delta).
	StopReason string

	// Model is the model id, known from the message_start event onward.
	Model string

	// InputTokens is populated from message_start usage.
	InputTokens int

	// OutputTokens is populated from message_delta usage (cumulative).
	OutputTokens int

	// Error is set when the stream failed; Done is true alongside it.
	Error error
}

// Wire shapes of the SSE data payloads. Only the fields this client reads.

type streamEvent struct {
	Type    string `json:"type"`
	Message struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Usage Usage  `json:"usage"`
	} `json:"message"` // message_start
	Delta struct {
		Type       string `json:"type"`
		Text       string `json:"text"`        // content_block_delta / text_delta
		StopReason string `json:"stop_reason"` // message_delta
	} `json:"delta"`
	Usage Usage `json:"usage"` // message_delta
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"` // error event
}

// =============================================================================
// HELPER METHODS
// =============================================================================

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// TokensPerSecond calculates generation speed over a wall-clock duration.
func TokensPerSecond(outputTokens int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(outputTokens) / elapsed.Seconds()
}
