// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anthropic provides the HTTP client for the Anthropic Messages API.
package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != "user" {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}

	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage("Response")

	if msg.Role != "assistant" {
		t.Errorf("Role = %q, want 'assistant'", msg.Role)
	}

	if msg.Content != "Response" {
		t.Errorf("Content = %q, want 'Response'", msg.Content)
	}
}

func TestMessagesResponse_Text(t *testing.T) {
	resp := &MessagesResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Hello, "},
			{Type: "text", Text: "Santa!"},
		},
	}
	if got := resp.Text(); got != "Hello, Santa!" {
		t.Errorf("Text() = %q", got)
	}
}

// =============================================================================
// CLIENT CONFIGURATION TESTS
// =============================================================================

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("NewClient with empty key should fail")
	} else if !IsAuthError(err) {
		t.Errorf("expected an auth error, got: %v", err)
	}
}

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	client, err := NewClientWithConfig(&ClientConfig{APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewClientWithConfig failed: %v", err)
	}

	cfg := client.GetConfig()
	if cfg.BaseURL != "https://api.anthropic.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxTokens == 0 || cfg.DefaultModel == "" {
		t.Error("zero-value fields should be filled from defaults")
	}
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestErrorFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusUnauthorized, ErrTypeAuth},
		{http.StatusForbidden, ErrTypeAuth},
		{http.StatusTooManyRequests, ErrTypeRateLimit},
		{529, ErrTypeOverloaded},
		{http.StatusBadRequest, ErrTypeInvalidRequest},
		{http.StatusInternalServerError, ErrTypeInvalidResponse},
	}

	for _, tc := range tests {
		got := errorFromStatus(tc.status, nil)
		if got.Type != tc.want {
			t.Errorf("errorFromStatus(%d).Type = %d, want %d", tc.status, got.Type, tc.want)
		}
	}
}

func TestIsHelpers(t *testing.T) {
	auth := &ClientError{Type: ErrTypeAuth, Message: "bad key"}
	rated := &ClientError{Type: ErrTypeRateLimit, Message: "slow down"}
	loaded := &ClientError{Type: ErrTypeOverloaded, Message: "busy"}

	if !IsAuthError(auth) || IsAuthError(rated) {
		t.Error("IsAuthError misclassified")
	}
	if !IsRateLimited(rated) || IsRateLimited(auth) {
		t.Error("IsRateLimited misclassified")
	}
	if !IsOverloaded(loaded) || IsOverloaded(auth) {
		t.Error("IsOverloaded misclassified")
	}
	if !IsTimeout(ErrTimeout) {
		t.Error("IsTimeout should match the sentinel")
	}
}

func TestRetryable(t *testing.T) {
	if !retryable(&ClientError{Type: ErrTypeRateLimit}) {
		t.Error("rate limit should be retryable")
	}
	if !retryable(&ClientError{Type: ErrTypeOverloaded}) {
		t.Error("overloaded should be retryable")
	}
	if retryable(&ClientError{Type: ErrTypeAuth}) {
		t.Error("auth errors must not be retried")
	}
}

// =============================================================================
// NON-STREAMING REQUEST TESTS
// =============================================================================

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithConfig(&ClientConfig{
		APIKey:            "sk-ant-test",
		BaseURL:           server.URL,
		MaxRetries:        1,
		RetryDelay:        time.Millisecond,
		RequestsPerSecond: 1000,
	})
	if err != nil {
		t.Fatalf("NewClientWithConfig failed: %v", err)
	}
	return client
}

func TestMessages_Success(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != apiVersion {
			t.Errorf("anthropic-version = %q", got)
		}
		w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant",
			"model": "claude-sonnet-4-5-20250929",
			"content": [{"type": "text", "text": "Ho ho ho!"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 4}
		}`))
	})

	resp, err := client.Messages(context.Background(), MessagesRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if resp.Text() != "Ho ho ho!" {
		t.Errorf("Text = %q", resp.Text())
	}
	if resp.Usage.OutputTokens != 4 {
		t.Errorf("OutputTokens = %d", resp.Usage.OutputTokens)
	}
}

func TestMessages_AuthErrorNotRetried(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := client.Messages(context.Background(), MessagesRequest{})
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("auth failure retried %d times", calls-1)
	}
	if !strings.Contains(err.Error(), "invalid x-api-key") {
		t.Errorf("API error message lost: %v", err)
	}
}

func TestMessages_RateLimitRetried(t *testing.T) {
	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
			return
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"usage":{}}`))
	})

	resp, err := client.Messages(context.Background(), MessagesRequest{})
	if err != nil {
		t.Fatalf("expected the retry to succeed, got: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if resp.Text() != "ok" {
		t.Errorf("Text = %q", resp.Text())
	}
}

// =============================================================================
// STREAMING REQUEST TESTS
// =============================================================================

const sampleSSE = `event: message_start
data: {"type":"message_start","message":{"id":"msg_1","model":"claude-sonnet-4-5-20250929","usage":{"input_tokens":12}}}

event: content_block_start
data: {"type":"content_block_start","index":0}

event: ping
data: {"type":"ping"}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":", Santa!"}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":6}}

event: message_stop
data: {"type":"message_stop"}

`

func TestMessagesStream_Success(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sampleSSE))
	})

	acc := NewStreamAccumulator()
	err := client.MessagesStream(context.Background(), MessagesRequest{
		Messages: []Message{NewUserMessage("hi")},
	}, acc.Add)
	if err != nil {
		t.Fatalf("MessagesStream failed: %v", err)
	}

	if got := acc.GetContent(); got != "Hello, Santa!" {
		t.Errorf("content = %q", got)
	}
	if !acc.IsDone() {
		t.Error("accumulator should be done")
	}
	if acc.GetStopReason() != "end_turn" {
		t.Errorf("stop reason = %q", acc.GetStopReason())
	}
	if acc.Stats.OutputTokens != 6 {
		t.Errorf("output tokens = %d", acc.Stats.OutputTokens)
	}
	if acc.Stats.InputTokens != 12 {
		t.Errorf("input tokens = %d", acc.Stats.InputTokens)
	}
}

func TestMessagesStream_ErrorEvent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`event: error
data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}

`))
	})

	// The error arrives mid-stream, so it is surfaced, not retried.
	err := client.MessagesStream(context.Background(), MessagesRequest{}, func(StreamChunk) {})
	if !IsOverloaded(err) {
		t.Fatalf("expected overloaded error, got: %v", err)
	}
}

func TestMessagesStream_Cancellation(t *testing.T) {
	release := make(chan struct{})
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("event: message_start\ndata: {\"type\":\"message_start\",\"message\":{}}\n\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := client.MessagesStream(ctx, MessagesRequest{}, func(StreamChunk) {})
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
}

func TestMessagesStreamChan(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sampleSSE))
	})

	var content strings.Builder
	sawDone := false
	for chunk := range client.MessagesStreamChan(context.Background(), MessagesRequest{}) {
		if chunk.Error != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Error)
		}
		content.WriteString(chunk.Content)
		if chunk.Done {
			sawDone = true
		}
	}
	if content.String() != "Hello, Santa!" {
		t.Errorf("content = %q", content.String())
	}
	if !sawDone {
		t.Error("final chunk with Done never arrived")
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_SkipsMalformedEvents(t *testing.T) {
	stream := "event: content_block_delta\ndata: {not json}\n\n" +
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"ok\"}}\n\n" +
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"

	reader := NewStreamReader(strings.NewReader(stream))
	var got strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.String() != "ok" {
		t.Errorf("content = %q", got.String())
	}
}

func TestStreamReader_EOFWithoutStop(t *testing.T) {
	stream := "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"partial\"}}\n\n"

	reader := NewStreamReader(strings.NewReader(stream))
	err := reader.Process(context.Background(), func(StreamChunk) {})
	if err != nil {
		t.Fatalf("EOF should end the stream cleanly, got: %v", err)
	}
	if reader.GetAccumulated() != "partial" {
		t.Errorf("accumulated = %q", reader.GetAccumulated())
	}
}

// =============================================================================
// STATS TESTS
// =============================================================================

func TestTokensPerSecond(t *testing.T) {
	if got := TokensPerSecond(100, time.Second); got != 100.0 {
		t.Errorf("TokensPerSecond = %f", got)
	}
	if got := TokensPerSecond(100, 0); got != 0 {
		t.Errorf("zero duration should yield 0, got %f", got)
	}
}

func TestStreamStats_Format(t *testing.T) {
	stats := NewStreamStats()
	stats.RecordFirstToken()
	stats.Finalize(StreamChunk{Done: true, OutputTokens: 42})

	line := stats.Format()
	if !strings.Contains(line, "42 tokens") {
		t.Errorf("Format = %q", line)
	}
	if !strings.Contains(line, "TTFT") {
		t.Errorf("Format = %q", line)
	}
}
