// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// INPUT LINE
// =============================================================================

// InputLine accumulates the text being typed. It is owned by the loop.
type InputLine struct {
	runes []rune
}

// Append adds a rune at the end.
func (in *InputLine) Append(r rune) {
	in.runes = append(in.runes, r)
}

// DeleteLast removes the last rune. It reports whether anything was removed.
func (in *InputLine) DeleteLast() bool {
	if len(in.runes) == 0 {
		return false
	}
	in.runes = in.runes[:len(in.runes)-1]
	return true
}

// String returns the raw input.
func (in *InputLine) String() string {
	return string(in.runes)
}

// Trimmed returns the input without surrounding whitespace.
func (in *InputLine) Trimmed() string {
	return strings.TrimSpace(string(in.runes))
}

// IsBlank reports whether the input is empty or whitespace only.
func (in *InputLine) IsBlank() bool {
	return in.Trimmed() == ""
}

// Len returns the number of runes typed.
func (in *InputLine) Len() int {
	return len(in.runes)
}

// Reset empties the input.
func (in *InputLine) Reset() {
	in.runes = in.runes[:0]
}

// Submit returns the trimmed, NFC-normalised input and resets the line.
// Blank input returns "" and also resets.
func (in *InputLine) Submit() string {
	text := norm.NFC.String(in.Trimmed())
	in.Reset()
	return text
}
