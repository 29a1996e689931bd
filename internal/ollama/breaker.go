// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/session"
)

// Default circuit breaker settings.
const (
	defaultBreakerMaxFailures uint32        = 3
	defaultBreakerTimeout     time.Duration = 15 * time.Second
	defaultBreakerInterval    time.Duration = 60 * time.Second
)

// BreakerConfig configures BreakerBackend.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request is allowed.
	OpenTimeout time.Duration
	// Interval clears failure counts while closed. Zero uses the default.
	Interval time.Duration
}

// BreakerBackend fails fast once the wrapped backend has been unreachable
// several times in a row. Only unavailability and timeouts count as
// failures; a cancelled turn or a garbled response means the server
// answered.
type BreakerBackend struct {
	inner   session.Backend
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	logger  *zap.Logger
}

// NewBreakerBackend wraps inner with a circuit breaker.
func NewBreakerBackend(inner session.Backend, cfg BreakerConfig, logger *zap.Logger) *BreakerBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	timeout := cfg.OpenTimeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultBreakerInterval
	}

	logger = logger.Named("breaker")
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "ollama",
		MaxRequests: 1, // one trial request while half-open
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
		IsSuccessful: countsAsSuccess,
	})

	return &BreakerBackend{
		inner:   inner,
		breaker: cb,
		timeout: timeout,
		logger:  logger,
	}
}

// Stream implements session.Backend.
func (b *BreakerBackend) Stream(ctx context.Context, messages []model.Message, onFragment func(string)) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Stream(ctx, messages, onFragment)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return session.NewTurnError(session.BackendUnavailable,
			fmt.Sprintf("backend unavailable, retrying after %s", b.timeout), err)
	}
	return err
}

// State returns the current circuit breaker state.
func (b *BreakerBackend) State() gobreaker.State {
	return b.breaker.State()
}

func countsAsSuccess(err error) bool {
	switch session.KindOf(err) {
	case session.BackendUnavailable, session.BackendTimeout:
		return false
	default:
		return true
	}
}

// Compile-time interface check.
var _ session.Backend = (*BreakerBackend)(nil)
