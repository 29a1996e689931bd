// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the aurora command line.
//
// Running aurora with no subcommand starts the interactive chat. The
// remaining commands work without a terminal.
//
// # Commands
//
//   - aurora: streaming chat with the configured Ollama model
//   - aurora status: Ollama reachability and installed models
//   - aurora config: show, get, set and initialise the config file
//   - aurora version: build information
//
// # Global Flags
//
//	--config PATH    config file (default ~/.aurora/config.toml)
//	--model NAME     model to chat with
//	--url URL        Ollama base URL
//	--backend NAME   renderer, tea or tcell
//	--log-file PATH  log file
//	--debug          debug logging
//
// Flags override the environment, which overrides the config file.
//
// # Usage
//
//	if err := cli.Execute(); err != nil {
//	    fmt.Fprintln(os.Stderr, "aurora:", err)
//	    os.Exit(1)
//	}
package cli
