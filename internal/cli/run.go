// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// run.go - The interactive chat.
//
// Startup order:
//  1. Pre-flight: stdin and stdout must be terminals
//  2. Ollama client, backend and optional circuit breaker
//  3. Session and theme
//  4. The renderer selected by ui.backend takes over the terminal
//
// Any failure before the renderer is running is returned and ends the
// process with exit code 1. Backend failures during the chat are shown in
// the transcript and never end it.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/ollama"
	"github.com/jeranaias/aurora-tui/internal/session"
	"github.com/jeranaias/aurora-tui/internal/ui/chat"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/ui/surface"
)

// newTcellScreen is swapped in tests.
var newTcellScreen = surface.NewTcellScreen

func (a *app) runChat(cmd *cobra.Command, _ []string) error {
	if !a.isTerminal() {
		return fmt.Errorf("cannot start chat: %w", surface.ErrNotTerminal)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(newBackend(a.cfg, a.logger), session.Options{
		SystemPrompt: a.cfg.Ollama.SystemPrompt,
		IdleTimeout:  a.cfg.IdleTimeout(),
		Logger:       a.logger,
	})
	theme := styles.NewTheme(a.cfg.UI.Palette)
	opts := chat.Options{
		Model:        a.cfg.Ollama.Model,
		Greeting:     a.cfg.UI.Greeting,
		HistoryLimit: a.cfg.UI.HistoryLimit,
		Logger:       a.logger,
	}

	a.logger.Info("chat starting",
		zap.String("model", a.cfg.Ollama.Model),
		zap.String("backend", a.cfg.UI.Backend),
	)

	var err error
	switch strings.ToLower(a.cfg.UI.Backend) {
	case config.BackendTcell:
		err = a.runTcell(ctx, theme, sess, opts)
	default:
		err = a.runTea(ctx, theme, sess, opts)
	}
	if err != nil {
		a.logger.Error("chat ended with error", zap.Error(err))
		return err
	}
	a.logger.Info("chat ended")
	return nil
}

// runTcell drives the loop on its own ticker while the screen's event pump
// runs alongside it.
func (a *app) runTcell(ctx context.Context, theme *styles.Theme, sess *session.Session, opts chat.Options) error {
	screen, err := newTcellScreen(theme)
	if err != nil {
		return err
	}
	loop := chat.New(screen, sess, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(screen.Pump)
	g.Go(func() error {
		defer screen.Fini()
		return loop.Run(gctx, a.cfg.TickInterval())
	})
	return g.Wait()
}

// runTea hands the loop to a bubbletea program, which calls Tick on every
// frame.
func (a *app) runTea(ctx context.Context, theme *styles.Theme, sess *session.Session, opts chat.Options) error {
	rows, cols := sizeOr(a.termSize)
	canvas := surface.NewTeaCanvas(theme, rows, cols)
	loop := chat.New(canvas, sess, opts)
	defer loop.Quit()

	return surface.RunTea(ctx, canvas, a.cfg.TickInterval(), loop.Tick)
}

// newBackend builds the Ollama backend, wrapped in a circuit breaker when
// enabled.
func newBackend(cfg *config.Config, logger *zap.Logger) session.Backend {
	opts := &ollama.Options{
		Temperature: cfg.Ollama.Temperature,
		NumCtx:      cfg.Ollama.NumCtx,
	}
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:        cfg.Ollama.URL,
		ConnectTimeout: cfg.ConnectTimeout(),
		DefaultModel:   cfg.Ollama.Model,
		Options:        opts,
	}, logger)

	var backend session.Backend = ollama.NewBackend(client, cfg.Ollama.Model)
	if cfg.Breaker.Enabled {
		backend = ollama.NewBreakerBackend(backend, ollama.BreakerConfig{
			MaxFailures: uint32(cfg.Breaker.MaxFailures),
			OpenTimeout: cfg.OpenTimeout(),
		}, logger)
	}
	return backend
}
