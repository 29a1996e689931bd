// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Ollama client.
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

// Is matches sentinel errors by type and message, so a ClientError carrying
// a transport cause still satisfies errors.Is(err, ErrNotRunning).
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == e.Message
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeCanceled
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNotRunning:
		return "not_running"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeModelNotFound:
		return "model_not_found"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning       = &ClientError{Type: ErrTypeNotRunning, Message: "Ollama is not running"}
	ErrTimeout          = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound    = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
	ErrStreamIncomplete = &ClientError{Type: ErrTypeInvalidResponse, Message: "stream ended before completion"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL uses the IPv4 loopback address to avoid IPv6 resolution of
// "localhost".
const DefaultBaseURL = "http://127.0.0.1:11434"

// DefaultModel is used when neither configuration nor caller names a model.
const DefaultModel = "llama3.2"

// ClientConfig holds configuration options for the Ollama client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// ConnectTimeout bounds dialing the server on
	// streaming requests (default: 10s). The body itself is unbounded.
	ConnectTimeout time.Duration

	// DefaultModel to use if none specified (default: "llama3.2")
	DefaultModel string

	// Options are sent with every chat request when non-zero.
	Options *Options
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        DefaultBaseURL,
		Timeout:        30 * time.Second,
		ConnectTimeout: 10 * time.Second,
		DefaultModel:   DefaultModel,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
//
// The Client is safe for concurrent use.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	streamClient *http.Client
	logger       *zap.Logger

	// malformed throttles warnings about undecodable stream lines across
	// all requests made by this client.
	malformed *rate.Sometimes
}

// NewClient creates a new Ollama client with default configuration.
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithConfig(DefaultConfig(), logger)
}

// NewClientWithConfig creates a new Ollama client with custom configuration.
// Zero values in config are replaced by defaults. A nil logger disables
// logging.
func NewClientWithConfig(config *ClientConfig, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Only the dial is bounded. Headers arrive after the model has loaded,
	// and a stalled stream is the session's idle timeout to catch.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &Client{
		config:       &cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{Transport: transport},
		logger:       logger.Named("ollama"),
		malformed:    &rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that Ollama is reachable and running.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from Ollama: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves all available models from Ollama.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to list models: " + resp.Status,
		}
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Models, nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)

// ChatStream sends a streaming chat request and calls the callback for each
// chunk. The callback runs synchronously on the caller's goroutine, in the
// order chunks are received. ChatStream returns nil only after a chunk with
// done set; a body that ends early yields ErrStreamIncomplete.
//
// Cancelling ctx aborts the request and closes the response body.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, opts *Options, callback StreamCallback) error {
	if model == "" {
		model = c.config.DefaultModel
	}
	if opts.IsZero() {
		opts = c.config.Options
	}
	if opts.IsZero() {
		opts = nil
	}

	reqBody := ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
		Options:  opts,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	c.logger.Debug("chat stream request",
		zap.String("model", model),
		zap.Int("messages", len(messages)))

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	// Closing without draining: a server that keeps the body open after
	// the final chunk must not hold the caller.
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &ClientError{Type: ErrTypeModelNotFound, Message: "model not found: " + model}
	}

	if resp.StatusCode != http.StatusOK {
		var ollamaErr OllamaError
		if err := json.NewDecoder(resp.Body).Decode(&ollamaErr); err == nil && ollamaErr.Error != "" {
			return &ClientError{
				Type:    ErrTypeInvalidResponse,
				Message: ollamaErr.Error,
			}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "stream request failed: " + resp.Status,
		}
	}

	reader := NewStreamReader(resp.Body, c.logger)
	reader.throttle = c.malformed
	var final StreamChunk
	err = reader.Process(ctx, func(chunk StreamChunk) {
		if chunk.Done {
			final = chunk
		}
		callback(chunk)
	})

	c.logger.Debug("chat stream finished",
		zap.String("model", model),
		zap.Int("fragments", reader.FragmentCount()),
		zap.Int("malformed", reader.MalformedCount()),
		zap.Int("eval_count", final.CompletionTokens),
		zap.Float64("tokens_per_sec", final.TokensPerSecond()),
		zap.Error(err))

	return err
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// DefaultModelName returns the model used when callers pass an empty name.
func (c *Client) DefaultModelName() string {
	return c.config.DefaultModel
}

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool {
	return errorType(err) == ErrTypeModelNotFound
}

// IsNotRunning checks if an error indicates Ollama is not running.
func IsNotRunning(err error) bool {
	return errorType(err) == ErrTypeNotRunning
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errorType(err) == ErrTypeTimeout
}

// IsCanceled checks if an error reports a cancelled request.
func IsCanceled(err error) bool {
	return errorType(err) == ErrTypeCanceled
}

func errorType(err error) ErrorType {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ErrTypeUnknown
}

// transportError maps an http.Client.Do failure onto a ClientError.
func transportError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return &ClientError{Type: ErrTypeCanceled, Message: "request cancelled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded), isNetTimeout(err):
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	default:
		return &ClientError{Type: ErrTypeNotRunning, Message: ErrNotRunning.Message, Cause: err}
	}
}

func isNetTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Helper to drain response body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
	_ = r.Close()
}
