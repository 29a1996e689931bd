// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// The client speaks the NDJSON streaming form of /api/chat: one JSON object
// per line, each carrying an increment of the assistant message, the last
// one flagged "done". Lines that fail to decode are skipped and logged so a
// single bad chunk does not void an otherwise good response.
//
// # Key Types
//
//   - Client: HTTP client for health checks, model listing and chat streaming
//   - StreamReader: line-by-line NDJSON decoder with malformed-line skipping
//   - Backend: adapts Client to the session.Backend contract
//   - BreakerBackend: circuit breaker in front of a Backend
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL:      "http://127.0.0.1:11434",
//	    DefaultModel: "llama3.2",
//	}, logger)
//	err := client.ChatStream(ctx, "", messages, nil, func(chunk ollama.StreamChunk) {
//	    fmt.Print(chunk.Content)
//	})
package ollama
