// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"fmt"
	"time"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // The message content
}

// ChatRequest is the request body for /api/chat endpoint.
type ChatRequest struct {
	Model    string    `json:"model"`             // Model name (e.g., "llama3.2")
	Messages []Message `json:"messages"`          // Conversation history
	Stream   bool      `json:"stream"`            // Enable streaming
	Options  *Options  `json:"options,omitempty"` // Model parameters
}

// Options contains model parameters for inference.
type Options struct {
	Temperature float64  `json:"temperature,omitempty"` // 0.0-2.0, default 0.8
	NumCtx      int      `json:"num_ctx,omitempty"`     // Context window size
	NumPredict  int      `json:"num_predict,omitempty"` // Max tokens to generate, -1 for unlimited
	Stop        []string `json:"stop,omitempty"`        // Stop sequences
	Seed        int      `json:"seed,omitempty"`        // Random seed
}

// IsZero reports whether no option is set.
func (o *Options) IsZero() bool {
	return o == nil || (o.Temperature == 0 && o.NumCtx == 0 && o.NumPredict == 0 && len(o.Stop) == 0 && o.Seed == 0)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// chatStreamLine is one NDJSON line of a streaming /api/chat response.
type chatStreamLine struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done               bool   `json:"done"`
	DoneReason         string `json:"done_reason,omitempty"`
	TotalDuration      int64  `json:"total_duration,omitempty"`
	PromptEvalCount    int    `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64  `json:"prompt_eval_duration,omitempty"`
	EvalCount          int    `json:"eval_count,omitempty"`
	EvalDuration       int64  `json:"eval_duration,omitempty"`
	Error              string `json:"error,omitempty"`
}

// =============================================================================
// MODEL TYPES
// =============================================================================

// ModelInfo contains information about a model.
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details,omitempty"`
}

// ModelDetails contains detailed information about a model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// ListModelsResponse is the response from /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk represents a single chunk from streaming response.
type StreamChunk struct {
	// Content from this chunk
	Content string

	// Timing information (only populated on final chunk)
	Done               bool
	DoneReason         string
	TotalDuration      time.Duration
	PromptEvalDuration time.Duration
	EvalDuration       time.Duration

	// Token counts (only populated on final chunk)
	PromptTokens     int
	CompletionTokens int

	// Model information
	Model string
}

// TokensPerSecond calculates the generation speed of a final chunk.
func (c StreamChunk) TokensPerSecond() float64 {
	if c.EvalDuration <= 0 {
		return 0
	}
	return float64(c.CompletionTokens) / c.EvalDuration.Seconds()
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// OllamaError represents an error body from the Ollama API.
type OllamaError struct {
	Error string `json:"error"`
}

// =============================================================================
// HELPER METHODS
// =============================================================================

// FormatSize formats the model size in human-readable form.
func (m *ModelInfo) FormatSize() string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case m.Size >= GB:
		return fmt.Sprintf("%.1f GB", float64(m.Size)/GB)
	case m.Size >= MB:
		return fmt.Sprintf("%.1f MB", float64(m.Size)/MB)
	case m.Size >= KB:
		return fmt.Sprintf("%.1f KB", float64(m.Size)/KB)
	default:
		return fmt.Sprintf("%d B", m.Size)
	}
}
