// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"errors"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
)

// =============================================================================
// SESSION BACKEND
// =============================================================================

// Backend streams chat responses from Ollama for a session.Session.
type Backend struct {
	client *Client
	model  string
}

// NewBackend creates a Backend that sends requests for the named model.
// An empty model uses the client's default.
func NewBackend(client *Client, model string) *Backend {
	return &Backend{client: client, model: model}
}

// Model returns the model name sent with each request.
func (b *Backend) Model() string {
	if b.model == "" {
		return b.client.DefaultModelName()
	}
	return b.model
}

// Stream implements session.Backend. Client errors are translated into
// *session.TurnError so the session can label the failure.
func (b *Backend) Stream(ctx context.Context, messages []model.Message, onFragment func(string)) error {
	err := b.client.ChatStream(ctx, b.model, toWire(messages), nil, func(chunk StreamChunk) {
		if chunk.Content != "" {
			onFragment(chunk.Content)
		}
	})
	if err != nil {
		return b.turnError(err)
	}
	return nil
}

func (b *Backend) turnError(err error) error {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return session.NewTurnError(session.Unknown, err.Error(), err)
	}

	switch clientErr.Type {
	case ErrTypeNotRunning:
		return session.NewTurnError(session.BackendUnavailable,
			"Ollama is not running at "+b.client.config.BaseURL, err)
	case ErrTypeModelNotFound, ErrTypeConnection:
		return session.NewTurnError(session.BackendUnavailable, clientErr.Message, err)
	case ErrTypeTimeout:
		return session.NewTurnError(session.BackendTimeout, "timeout", err)
	case ErrTypeInvalidResponse:
		return session.NewTurnError(session.MalformedResponse, clientErr.Message, err)
	case ErrTypeCanceled:
		return session.NewTurnError(session.UserCancelled, "cancelled", err)
	default:
		return session.NewTurnError(session.Unknown, clientErr.Error(), err)
	}
}

// toWire converts conversation records to the request format.
func toWire(messages []model.Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = Message{Role: m.Role.String(), Content: m.Content}
	}
	return out
}

// Compile-time interface check.
var _ session.Backend = (*Backend)(nil)
