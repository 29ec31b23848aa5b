// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anthropic provides the HTTP client for the Anthropic Messages API.
//
// This package implements a client for /v1/messages, supporting both
// non-streaming calls and server-sent-event streaming, with a typed error
// taxonomy, client-side request pacing, and bounded retries on rate-limit
// and overloaded responses.
//
// # Key Types
//
//   - Client: HTTP client for the Messages API
//   - Message: Chat message with role and content
//   - MessagesRequest / MessagesResponse: request and response structures
//   - StreamReader: SSE stream parser
//   - StreamAccumulator: collects chunks and computes stream statistics
//
// # Usage
//
// Create a client and stream a response:
//
//	client, err := anthropic.NewClient(apiKey)
//	if err != nil { ... }
//	err = client.MessagesStream(ctx, anthropic.MessagesRequest{
//	    Messages: []anthropic.Message{anthropic.NewUserMessage("Hello")},
//	}, func(chunk anthropic.StreamChunk) {
//	    fmt.Print(chunk.Content)
//	})
//
// Error categories can be inspected with the Is* helpers:
//
//	if anthropic.IsAuthError(err) { ... }
//	if anthropic.IsRateLimited(err) { ... }
package anthropic
