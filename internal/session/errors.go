// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind classifies why a turn failed.
type ErrorKind int

const (
	// Unknown is any failure the backend did not classify.
	Unknown ErrorKind = iota
	// BackendUnavailable means the backend could not be reached or the
	// requested model does not exist.
	BackendUnavailable
	// BackendTimeout means the backend made no progress within the idle
	// timeout.
	BackendTimeout
	// MalformedResponse means the response could not be decoded or ended
	// without a completion marker.
	MalformedResponse
	// UserCancelled means the turn was cancelled locally.
	UserCancelled
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case BackendUnavailable:
		return "backend_unavailable"
	case BackendTimeout:
		return "backend_timeout"
	case MalformedResponse:
		return "malformed_response"
	case UserCancelled:
		return "user_cancelled"
	default:
		return "unknown"
	}
}

// =============================================================================
// TURN ERROR
// =============================================================================

// TurnError is a classified turn failure. Message is the text shown to the
// user; Cause keeps the underlying error for logs.
type TurnError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewTurnError creates a TurnError.
func NewTurnError(kind ErrorKind, message string, cause error) *TurnError {
	return &TurnError{Kind: kind, Message: message, Cause: cause}
}

func (e *TurnError) Error() string {
	return e.Message
}

func (e *TurnError) Unwrap() error {
	return e.Cause
}

// Sentinel causes used to cancel a turn's context.
var (
	// ErrCancelled is the cause recorded when Turn.Cancel is called.
	ErrCancelled = errors.New("cancelled")

	// ErrIdleTimeout is the cause recorded when the idle watchdog fires.
	ErrIdleTimeout = errors.New("timeout")
)

// KindOf returns the ErrorKind of err, or Unknown when err carries no
// TurnError.
func KindOf(err error) ErrorKind {
	var te *TurnError
	if errors.As(err, &te) {
		return te.Kind
	}
	return Unknown
}

// classify turns a backend error into a TurnError. The turn context's
// cancellation cause wins over whatever the backend reported, because a
// cancelled request usually surfaces as an unrelated transport error.
func classify(ctx context.Context, err error) *TurnError {
	if cause := context.Cause(ctx); cause != nil {
		switch {
		case errors.Is(cause, ErrIdleTimeout):
			return NewTurnError(BackendTimeout, "timeout", err)
		case errors.Is(cause, ErrCancelled), errors.Is(cause, context.Canceled):
			return NewTurnError(UserCancelled, "cancelled", err)
		case errors.Is(cause, context.DeadlineExceeded):
			return NewTurnError(BackendTimeout, "timeout", err)
		}
	}

	var te *TurnError
	if errors.As(err, &te) {
		return te
	}
	return NewTurnError(Unknown, err.Error(), err)
}
