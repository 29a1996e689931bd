// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface defines the drawing contract between the chat loop and
// the terminal, and implements it over tcell and bubbletea.
//
// The loop only ever writes text at a row and column, clears, asks for the
// size, polls one key without blocking, and presents a finished frame.
// Writes outside the surface are clipped, never errors, so a resize
// between Size and WriteAt cannot crash a frame.
package surface

import (
	"errors"
	"fmt"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// =============================================================================
// SURFACE CONTRACT
// =============================================================================

// Style tags a run of text with its role; the surface maps it to colors
// through its theme.
type Style = styles.Element

// Surface is a character-cell drawing target with a key source.
type Surface interface {
	// Size returns the current dimensions in cells.
	Size() (rows, cols int)

	// Clear blanks the back buffer.
	Clear()

	// WriteAt draws text starting at row, col. Cells beyond the edges are
	// dropped.
	WriteAt(row, col int, text string, style Style)

	// ReadKey returns the next pending key, or false when none is queued.
	// It never blocks.
	ReadKey() (Key, bool)

	// Present makes the back buffer visible.
	Present() error
}

// Minimum usable terminal size. Smaller terminals get a notice instead of
// the chat layout.
const (
	MinRows = 6
	MinCols = 24
)

// TooSmall reports whether rows x cols is below the minimum layout size.
func TooSmall(rows, cols int) bool {
	return rows < MinRows || cols < MinCols
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotTerminal is returned when standard input or output is not a
// terminal.
var ErrNotTerminal = errors.New("not a terminal")

// InitError reports that a renderer could not take over the terminal.
// It is the one renderer failure that ends the process.
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("cannot start %s renderer: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// IsInitError reports whether err is an InitError.
func IsInitError(err error) bool {
	var ie *InitError
	return errors.As(err, &ie)
}
