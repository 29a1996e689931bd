// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/config"
	"github.com/jeranaias/aurora-tui/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	model      string
	url        string
	backend    string
	logFile    string
	debug      bool
}

// app carries the state built in PersistentPreRunE to the commands.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger

	// isTerminal and termSize are swapped in tests.
	isTerminal func() bool
	termSize   func() (rows, cols int, err error)
}

// Execute runs the aurora command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the aurora command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{isTerminal: IsInteractive, termSize: TerminalSize})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "aurora",
		Short: "Streaming terminal chat for a local Ollama server",
		Long: `aurora streams answers from a model served by a local Ollama server.

Type a message and press Enter. The answer appears as it is generated;
Esc stops it, Ctrl+L clears the history and Ctrl+C quits.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runChat,
	}
	root.SetVersionTemplate("aurora version {{.Version}}\n")

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.aurora/config.toml)")
	f.StringVar(&a.flags.model, "model", "", "model to chat with")
	f.StringVar(&a.flags.url, "url", "", "Ollama base URL")
	f.StringVar(&a.flags.backend, "backend", "", "renderer: tea or tcell")
	f.StringVar(&a.flags.logFile, "log-file", "", "log file")
	f.BoolVar(&a.flags.debug, "debug", false, "debug logging")

	root.AddCommand(
		newStatusCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.flags.configPath)
	if cfg == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (using defaults)\n", err)
	}

	a.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("failed to resolve log path: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Enabled: cfg.Log.Enabled,
		Path:    logPath,
		Level:   cfg.Log.Level,
	})
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("version", Version))
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("model", cfg.Ollama.Model),
		zap.String("url", cfg.Ollama.URL),
		zap.String("backend", cfg.UI.Backend),
	)
	return nil
}

func (a *app) applyFlags(cfg *config.Config) {
	if a.flags.model != "" {
		cfg.Ollama.Model = a.flags.model
	}
	if a.flags.url != "" {
		cfg.Ollama.URL = a.flags.url
	}
	if a.flags.backend != "" {
		cfg.UI.Backend = strings.ToLower(a.flags.backend)
	}
	if a.flags.logFile != "" {
		cfg.Log.File = a.flags.logFile
		cfg.Log.Enabled = true
	}
	if a.flags.debug {
		cfg.Log.Level = "debug"
	}
}

// loadConfig reads path, or the default config file when path is empty.
// An explicit path that does not exist yet yields the defaults so that
// `config init` and `config set` can create it.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadFromPath(path)
}

// configFile returns the file the config commands read and write.
func (a *app) configFile() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.ConfigPath()
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// The version command needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aurora version %s\n", Version)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Build date: %s\n", BuildDate)
		},
	}
}
