// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the aurora CLI.
//
// The chat needs a real terminal on both stdin and stdout. The other
// commands only use it to decide whether output is coloured.

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether the chat can take over the terminal.
func IsInteractive() bool {
	return IsTTY() && IsStdoutTTY()
}

// =============================================================================
// TERMINAL SIZE
// =============================================================================

// Fallback size when the terminal does not report one.
const (
	DefaultTerminalRows = 24
	DefaultTerminalCols = 80
)

// TerminalSize returns the rows and columns of the terminal on stdout.
func TerminalSize() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// sizeOr returns the terminal size, or the defaults when it is unknown.
func sizeOr(size func() (int, int, error)) (rows, cols int) {
	rows, cols, err := size()
	if err != nil || rows <= 0 || cols <= 0 {
		return DefaultTerminalRows, DefaultTerminalCols
	}
	return rows, cols
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// ColorsEnabled returns true if colored output should be used.
// NO_COLOR wins over FORCE_COLOR, which wins over TTY detection.
// See https://no-color.org/.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsStdoutTTY()
}

// GetColorProfile returns the color profile for command output.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
