// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger for aurora.
//
// The terminal belongs to the chat UI while it runs, so log output goes to a
// file and never to stdout or stderr. With logging disabled every component
// receives zap.NewNop().
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Enabled bool
	// Path is the log file. Its directory is created if missing.
	Path string
	// Level is debug, info, warn or error. Empty means info.
	Level string
}

// New builds a JSON file logger, or a no-op logger when disabled or when
// no path is set.
func New(opts Options) (*zap.Logger, error) {
	if !opts.Enabled || opts.Path == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(opts.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{opts.Path}
	config.ErrorOutputPaths = []string{opts.Path}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("aurora"), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
