// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/events"
	"github.com/jeranaias/aurora-tui/internal/model"
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend streams one assistant response for a conversation.
//
// Stream calls onFragment for each non-empty increment of text, in order,
// on the calling goroutine, and returns nil once the response is complete.
// It must return promptly after ctx is cancelled.
type Backend interface {
	Stream(ctx context.Context, messages []model.Message, onFragment func(string)) error
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, messages []model.Message, onFragment func(string)) error

// Stream calls f.
func (f BackendFunc) Stream(ctx context.Context, messages []model.Message, onFragment func(string)) error {
	return f(ctx, messages, onFragment)
}

// =============================================================================
// SESSION
// =============================================================================

// Options configures a Session.
type Options struct {
	// SystemPrompt is prepended to every request and never stored.
	SystemPrompt string

	// IdleTimeout bounds the wait for the next fragment. Zero disables it.
	IdleTimeout time.Duration

	// Logger receives turn lifecycle logs. Nil disables logging.
	Logger *zap.Logger
}

// Session owns the ConversationContext and launches turns against a
// Backend. Its methods are safe for concurrent use; the fetch goroutine of
// a turn appends the assistant record under the same lock.
type Session struct {
	backend Backend
	opts    Options
	logger  *zap.Logger

	mu   sync.Mutex
	conv *model.Conversation
	// generation increments on Reset so a turn started before the reset
	// does not append its result to the emptied context.
	generation uint64
}

// New creates a Session over backend.
func New(backend Backend, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		backend: backend,
		opts:    opts,
		logger:  logger.Named("session"),
		conv:    model.NewConversation(),
	}
}

// Messages returns a copy of the ConversationContext.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Len returns the number of records in the ConversationContext.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Len()
}

// Reset empties the ConversationContext. A turn still in flight keeps
// running until cancelled, but its result is no longer recorded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Clear()
	s.generation++
}

// Submit records userText and starts fetching the response in the
// background. Events for the turn are sent to out, tagged with the turn ID.
//
// The user record is appended before Submit returns and is kept even when
// the turn fails.
func (s *Session) Submit(ctx context.Context, userText string, out *events.Channel) *Turn {
	s.mu.Lock()
	s.conv.AddUserMessage(userText)
	messages := s.conv.WithSystemPrompt(s.opts.SystemPrompt)
	gen := s.generation
	s.mu.Unlock()

	turnCtx, cancel := context.WithCancelCause(ctx)
	t := &Turn{
		ID:      uuid.NewString(),
		Started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go s.fetch(turnCtx, t, gen, messages, out)
	return t
}

// fetch runs on the turn goroutine and is the sole producer on out.
func (s *Session) fetch(ctx context.Context, t *Turn, gen uint64, messages []model.Message, out *events.Channel) {
	defer close(t.done)
	defer t.cancel(nil)

	log := s.logger.With(zap.String("turn", t.ID))
	log.Info("turn started", zap.Int("messages", len(messages)))

	idle := s.opts.IdleTimeout
	var watchdog *time.Timer
	if idle > 0 {
		watchdog = time.AfterFunc(idle, func() { t.cancel(ErrIdleTimeout) })
		defer watchdog.Stop()
	}

	var (
		total     strings.Builder
		fragments int
	)
	err := s.backend.Stream(ctx, messages, func(fragment string) {
		if fragment == "" || ctx.Err() != nil {
			return
		}
		if watchdog != nil {
			watchdog.Reset(idle)
		}
		total.WriteString(fragment)
		fragments++
		out.Send(events.NewFragment(t.ID, fragment))
	})

	if err != nil {
		terr := classify(ctx, err)
		t.setErr(terr)
		log.Warn("turn failed",
			zap.Stringer("kind", terr.Kind),
			zap.Int("fragments", fragments),
			zap.Duration("elapsed", time.Since(t.Started)),
			zap.Error(terr.Cause))
		out.Send(events.NewError(t.ID, terr.Message))
		return
	}

	full := total.String()
	s.mu.Lock()
	if gen == s.generation {
		s.conv.AddAssistantMessage(full)
	}
	s.mu.Unlock()

	log.Info("turn done",
		zap.Int("fragments", fragments),
		zap.Int("chars", len(full)),
		zap.Duration("elapsed", time.Since(t.Started)))
	out.Send(events.NewDone(t.ID, full))
}

// =============================================================================
// TURN
// =============================================================================

// Turn is a handle to one in-flight fetch.
type Turn struct {
	// ID correlates the turn's events and log lines.
	ID      string
	Started time.Time

	cancel context.CancelCauseFunc
	done   chan struct{}

	mu  sync.Mutex
	err *TurnError
}

// Cancel stops the fetch. The turn then ends with a UserCancelled error
// unless it already finished. Cancel is safe to call more than once.
func (t *Turn) Cancel() {
	t.cancel(ErrCancelled)
}

// Wait blocks until the fetch goroutine has exited.
func (t *Turn) Wait() {
	<-t.done
}

// Done returns a channel closed when the fetch goroutine has exited.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Err returns the turn's failure, or nil while running or after success.
func (t *Turn) Err() *TurnError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Turn) setErr(err *TurnError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}
