// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for aurora.
//
// Command: status
// Short:   Check the Ollama server and the configured model
// Aliases: s
//
// Output Fields:
//   URL        Ollama base URL
//   Host       Whether the server runs on this machine
//   Ollama     Reachable or not
//   Model      Configured model and whether it is installed
//   Backend    Renderer used by the chat
//   Config     Config file path
//   Log        Log file path, or "disabled"
//
// Installed models are listed with their size. The command fails when
// Ollama cannot be reached.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/endpoint"
	"github.com/jeranaias/aurora-tui/internal/ollama"
)

// statusTimeout bounds each request the status command makes.
const statusTimeout = 5 * time.Second

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Check the Ollama server and the configured model",
		Args:    cobra.NoArgs,
		RunE:    a.runStatus,
	}
}

func (a *app) runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfg := a.cfg

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:        cfg.Ollama.URL,
		Timeout:        statusTimeout,
		ConnectTimeout: cfg.ConnectTimeout(),
		DefaultModel:   cfg.Ollama.Model,
	}, a.logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	fmt.Fprintln(out, TitleStyle.Render("aurora status"))
	fmt.Fprintln(out, RenderSeparator(40))

	fmt.Fprintln(out, RenderField("URL", ValueStyle.Render(cfg.Ollama.URL)))
	if endpoint.IsLocal(cfg.Ollama.URL) {
		fmt.Fprintln(out, RenderField("Host", DimStyle.Render("this machine")))
	} else {
		fmt.Fprintln(out, RenderField("Host", WarningStyle.Render("remote, conversations leave this machine")))
	}
	if err := client.CheckRunning(ctx); err != nil {
		a.logger.Warn("ollama not reachable", zap.String("url", cfg.Ollama.URL), zap.Error(err))
		fmt.Fprintln(out, RenderField("Ollama", ErrorStyle.Render("not reachable")))
		fmt.Fprintln(out, RenderField("Model", ValueStyle.Render(cfg.Ollama.Model)))
		a.printLocal(out)
		return fmt.Errorf("ollama is not reachable at %s: %w", cfg.Ollama.URL, err)
	}
	fmt.Fprintln(out, RenderField("Ollama", SuccessStyle.Render("running")))

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	model := ValueStyle.Render(cfg.Ollama.Model)
	if hasModel(models, cfg.Ollama.Model) {
		model += " " + SuccessStyle.Render("(installed)")
	} else {
		model += " " + WarningStyle.Render("(not installed, run: ollama pull "+cfg.Ollama.Model+")")
	}
	fmt.Fprintln(out, RenderField("Model", model))
	a.printLocal(out)

	fmt.Fprintln(out)
	fmt.Fprintln(out, SectionStyle.Render(fmt.Sprintf("Installed models (%d)", len(models))))
	if len(models) == 0 {
		fmt.Fprintln(out, DimStyle.Render("  none"))
	}
	for i := range models {
		m := &models[i]
		fmt.Fprintf(out, "  %-32s %s\n", m.Name, DimStyle.Render(m.FormatSize()))
	}
	return nil
}

func (a *app) printLocal(out io.Writer) {
	fmt.Fprintln(out, RenderField("Backend", ValueStyle.Render(a.cfg.UI.Backend)))
	if path, err := a.configFile(); err == nil {
		fmt.Fprintln(out, RenderField("Config", DimStyle.Render(path)))
	}
	logPath := "disabled"
	if a.cfg.Log.Enabled {
		if p, err := a.cfg.LogPath(); err == nil {
			logPath = p
		}
	}
	fmt.Fprintln(out, RenderField("Log", DimStyle.Render(logPath)))
}

// hasModel reports whether name is installed. A name without a tag
// matches its ":latest" tag.
func hasModel(models []ollama.ModelInfo, name string) bool {
	for _, m := range models {
		if m.Name == name {
			return true
		}
		if !strings.Contains(name, ":") && m.Name == name+":latest" {
			return true
		}
	}
	return false
}
