// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aurora.log")

	logger, err := New(Options{Enabled: true, Path: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("turn done", zap.String("turn", "abc"), zap.Int("chars", 12))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entries are filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "turn done", entry["msg"])
	assert.Equal(t, "aurora", entry["logger"])
	assert.Equal(t, "abc", entry["turn"])
	assert.EqualValues(t, 12, entry["chars"])
}

func TestNew_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aurora.log")
	logger, err := New(Options{Enabled: true, Path: path, Level: "debug"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_DisabledIsNop(t *testing.T) {
	for _, opts := range []Options{
		{Enabled: false, Path: "/nonexistent/aurora.log"},
		{Enabled: true, Path: ""},
	} {
		logger, err := New(opts)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	}
	assert.False(t, Nop().Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Enabled: true, Path: filepath.Join(t.TempDir(), "a.log"), Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
