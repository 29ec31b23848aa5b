// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anthropic provides the HTTP client for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Anthropic client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeAuth
	ErrTypeRateLimit
	ErrTypeOverloaded
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidRequest
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNoAPIKey = &ClientError{Type: ErrTypeAuth, Message: "no API key configured"}
	ErrTimeout  = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// apiVersion is the anthropic-version header value this client speaks.
const apiVersion = "2023-06-01"

// ClientConfig holds configuration options for the Anthropic client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: https://api.anthropic.com)
	BaseURL string

	// APIKey is the Anthropic API key, sent as the x-api-key header.
	APIKey string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// DefaultModel to use if none specified
	DefaultModel string

	// MaxTokens is the default output cap when a request leaves it zero
	// (default: 64000)
	MaxTokens int

	// Temperature is the default sampling temperature (default: 0.2)
	Temperature float64

	// MaxRetries bounds retries on rate-limit and overloaded responses
	// (default: 2)
	MaxRetries int

	// RetryDelay between retries (default: 1s)
	RetryDelay time.Duration

	// RequestsPerSecond is the client-side pacing limit (default: 2).
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://api.anthropic.com",
		Timeout:           30 * time.Second,
		DefaultModel:      "claude-sonnet-4-5-20250929",
		MaxTokens:         64000,
		Temperature:       0.2,
		MaxRetries:        2,
		RetryDelay:        1 * time.Second,
		RequestsPerSecond: 2,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Anthropic Messages API.
//
// The Client is thread-safe for concurrent use, though clause only ever
// issues one request at a time.
//
// Example:
//
//	client, err := anthropic.NewClient(key)
//	if err != nil { ... }
//	err = client.MessagesStream(ctx, req, func(chunk anthropic.StreamChunk) {
//	    fmt.Print(chunk.Content)
//	})
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with the default configuration and the given key.
func NewClient(apiKey string) (*Client, error) {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
// Zero-value fields are filled from the defaults. A missing API key is
// rejected here so every later call can assume one is present.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.DefaultModel == "" {
		config.DefaultModel = defaults.DefaultModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}

	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		// RELIABILITY: client-side pacing keeps bursts of slash-command
		// retries from tripping the API's rate limiter in the first place.
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}, nil
}

// setHeaders applies the auth and version headers every request needs.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
}

// fillRequest applies the client defaults to a request's zero fields.
func (c *Client) fillRequest(req *MessagesRequest) {
	if req.Model == "" {
		req.Model = c.config.DefaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	if req.Temperature == nil {
		t := c.config.Temperature
		req.Temperature = &t
	}
}

// errorFromStatus maps an HTTP status and API error body to a ClientError.
func errorFromStatus(status int, body *apiError) *ClientError {
	message := http.StatusText(status)
	if body != nil && body.Error.Message != "" {
		message = body.Error.Message
	}

	var errType ErrorType
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		errType = ErrTypeAuth
	case status == http.StatusTooManyRequests:
		errType = ErrTypeRateLimit
	case status == 529: // anthropic: overloaded_error
		errType = ErrTypeOverloaded
	case status == http.StatusBadRequest:
		errType = ErrTypeInvalidRequest
	default:
		errType = ErrTypeInvalidResponse
	}

	return &ClientError{Type: errType, Message: message}
}

// retryable reports whether a failed attempt is worth repeating.
func retryable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeRateLimit || clientErr.Type == ErrTypeOverloaded
	}
	return false
}

// =============================================================================
// MESSAGES (NON-STREAMING)
// =============================================================================

// Messages sends a non-streaming request and returns the complete response.
func (c *Client) Messages(ctx context.Context, req MessagesRequest) (*MessagesResponse, error) {
	c.fillRequest(&req)
	req.Stream = false

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		resp, err := c.doMessages(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// doMessages performs one non-streaming attempt.
func (c *Client) doMessages(ctx context.Context, req MessagesRequest) (*MessagesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if decErr := json.NewDecoder(resp.Body).Decode(&apiErr); decErr == nil {
			return nil, errorFromStatus(resp.StatusCode, &apiErr)
		}
		return nil, errorFromStatus(resp.StatusCode, nil)
	}

	var result MessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamCallback is called for each chunk received during streaming.
// Callbacks run synchronously in arrival order.
type StreamCallback func(chunk StreamChunk)

// MessagesStream sends a streaming request and calls the callback for each
// chunk. Returns when the stream completes or fails. Rate-limit and
// overloaded failures that occur before any content arrives are retried up
// to MaxRetries; once streaming has begun the error is surfaced as-is.
func (c *Client) MessagesStream(ctx context.Context, req MessagesRequest, callback StreamCallback) error {
	c.fillRequest(&req)
	req.Stream = true

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		started, err := c.doMessagesStream(ctx, req, callback)
		if err == nil {
			return nil
		}
		lastErr = err
		if started || !retryable(err) {
			return err
		}
	}
	return lastErr
}

// doMessagesStream performs one streaming attempt. The bool result reports
// whether any stream content reached the callback (retry is unsafe past
// that point).
func (c *Client) doMessagesStream(ctx context.Context, req MessagesRequest, callback StreamCallback) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return false, &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	// Use a client without timeout for streaming; the context governs the
	// lifetime of the whole exchange.
	streamClient := &http.Client{}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return false, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return false, ErrTimeout
		}
		return false, &ClientError{Type: ErrTypeConnection, Message: "stream request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if decErr := json.NewDecoder(resp.Body).Decode(&apiErr); decErr == nil {
			return false, errorFromStatus(resp.StatusCode, &apiErr)
		}
		return false, errorFromStatus(resp.StatusCode, nil)
	}

	reader := NewStreamReader(resp.Body)
	err = reader.Process(ctx, callback)
	return reader.Started(), err
}

// MessagesStreamChan sends a streaming request and returns a channel of
// chunks. The channel is closed when streaming completes or fails; errors
// are delivered as chunks with the Error field set.
func (c *Client) MessagesStreamChan(ctx context.Context, req MessagesRequest) <-chan StreamChunk {
	ch := make(chan StreamChunk)

	go func() {
		defer close(ch)

		err := c.MessagesStream(ctx, req, func(chunk StreamChunk) {
			select {
			case ch <- chunk:
			case <-ctx.Done():
			}
		})

		if err != nil {
			select {
			case ch <- StreamChunk{Error: err, Done: true}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// GetDefaultModel returns the current default model.
func (c *Client) GetDefaultModel() string {
	return c.config.DefaultModel
}

// IsAuthError checks if an error is an authentication failure.
func IsAuthError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeAuth
	}
	return false
}

// IsRateLimited checks if an error is a rate-limit rejection.
func IsRateLimited(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeRateLimit
	}
	return false
}

// IsOverloaded checks if an error is an API overload rejection.
func IsOverloaded(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeOverloaded
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsConnectionError checks if an error is a network-level failure.
func IsConnectionError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return false
}
