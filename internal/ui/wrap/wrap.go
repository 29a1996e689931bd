// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wrap re-flows transcript text into display lines.
//
// Wrapping is greedy on whitespace-delimited tokens and measures display
// width with go-runewidth, so CJK glyphs and emoji occupy two columns.
//
// # Overflow policy
//
// A token wider than the target width is never split. It is placed alone on
// its own line and may exceed the width; the renderer surface clips it at the
// terminal edge. Splitting inside a token could separate combining marks from
// their base rune.
package wrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap breaks text into lines no wider than width.
//
// Runs of whitespace (including newlines) collapse to single separators.
// Wrap("", w) returns exactly one empty line. A width below 1 is treated as 1.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, len(tokens)/4+1)
	var current strings.Builder
	currentWidth := 0

	for _, tok := range tokens {
		tokWidth := runewidth.StringWidth(tok)

		if currentWidth == 0 {
			current.WriteString(tok)
			currentWidth = tokWidth
			continue
		}

		if currentWidth+1+tokWidth <= width {
			current.WriteByte(' ')
			current.WriteString(tok)
			currentWidth += 1 + tokWidth
			continue
		}

		lines = append(lines, current.String())
		current.Reset()
		current.WriteString(tok)
		currentWidth = tokWidth
	}

	lines = append(lines, current.String())
	return lines
}

// Paragraphs wraps each newline-separated paragraph of text independently,
// so explicit line breaks in model output survive re-flow. An empty
// paragraph yields a single empty line.
func Paragraphs(text string, width int) []string {
	if !strings.Contains(text, "\n") {
		return Wrap(text, width)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	paras := strings.Split(text, "\n")

	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, Wrap(p, width)...)
	}
	return lines
}

// Truncate cuts s to at most width display cells without splitting a rune.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// TailFit returns the longest suffix of s whose display width fits in width.
// The input row uses it to keep the cursor end of long input visible.
func TailFit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}

	runes := []rune(s)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}
	return string(runes[start:])
}
