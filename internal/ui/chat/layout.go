// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/ui/surface"
	"github.com/jeranaias/aurora-tui/internal/ui/wrap"
)

// Rows taken by everything except the transcript: header, separator,
// input and status.
const chromeRows = 4

const (
	inputPrompt  = "► "
	cursorOn     = "█"
	cursorOff    = "▏"
	tooSmallText = "terminal too small"
)

// =============================================================================
// LAYOUT TYPES
// =============================================================================

// View is the non-transcript state a frame depends on.
type View struct {
	Model    string
	Clock    time.Time
	Input    string
	CursorOn bool

	// Scroll counts display lines up from the newest one. It is clamped.
	Scroll int

	Status      string
	StatusStyle surface.Style
}

// Span is a run of text at a fixed position.
type Span struct {
	Row   int
	Col   int
	Text  string
	Style surface.Style
}

// Frame is the result of Layout.
type Frame struct {
	Spans []Span

	// Scroll is the clamped offset actually used and MaxScroll the largest
	// valid one.
	Scroll    int
	MaxScroll int

	// Page is the number of transcript rows and Lines the number of
	// wrapped transcript lines.
	Page  int
	Lines int

	TooSmall bool
}

// Draw writes the frame to s and presents it.
func (f Frame) Draw(s surface.Surface) error {
	s.Clear()
	for _, sp := range f.Spans {
		s.WriteAt(sp.Row, sp.Col, sp.Text, sp.Style)
	}
	return s.Present()
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout positions the header, the transcript tail, the input line and the
// status row in a rows x cols terminal. It has no side effects.
func Layout(entries []model.Entry, rows, cols int, v View) Frame {
	if surface.TooSmall(rows, cols) {
		return tooSmall(rows, cols)
	}

	var f Frame
	add := func(row, col int, text string, style surface.Style) {
		if text == "" {
			return
		}
		f.Spans = append(f.Spans, Span{Row: row, Col: col, Text: text, Style: style})
	}

	// Header
	clock := v.Clock.Format("15:04:05") + " "
	title := " aurora"
	if v.Model != "" {
		title += " · " + v.Model
	}
	title = wrap.Truncate(title, cols-wrap.Width(clock)-1)
	add(0, 0, strings.Repeat(" ", cols), styles.Header)
	add(0, 0, title, styles.Header)
	add(0, cols-wrap.Width(clock), clock, styles.Header)

	// Transcript
	f.Page = rows - chromeRows
	lines := transcriptLines(entries, cols)
	f.Lines = len(lines)
	f.MaxScroll = max(0, len(lines)-f.Page)
	f.Scroll = min(max(v.Scroll, 0), f.MaxScroll)

	start := max(0, len(lines)-f.Page-f.Scroll)
	end := min(len(lines), start+f.Page)
	for i, ln := range lines[start:end] {
		row := 1 + i
		add(row, 0, ln.prefix, ln.prefixStyle)
		add(row, ln.indent, ln.body, ln.bodyStyle)
	}

	// Separator, with a marker when scrolled away from the tail
	sep := rows - 3
	add(sep, 0, strings.Repeat("─", cols), styles.Dim)
	if f.Scroll > 0 {
		add(sep, 2, fmt.Sprintf(" ↓ %d more ", f.Scroll), styles.Status)
	}

	// Input
	in := rows - 2
	pw := wrap.Width(inputPrompt)
	text := wrap.TailFit(v.Input, cols-pw-1)
	add(in, 0, inputPrompt, styles.User)
	add(in, pw, text, styles.Input)
	if v.CursorOn {
		add(in, pw+wrap.Width(text), cursorOn, styles.Cursor)
	} else {
		add(in, pw+wrap.Width(text), cursorOff, styles.Dim)
	}

	// Status
	add(rows-1, 0, wrap.Truncate(v.Status, cols), v.StatusStyle)

	return f
}

func tooSmall(rows, cols int) Frame {
	f := Frame{TooSmall: true}
	if rows <= 0 || cols <= 0 {
		return f
	}
	msg := fmt.Sprintf("%s (%dx%d, need %dx%d)", tooSmallText, cols, rows, surface.MinCols, surface.MinRows)
	f.Spans = []Span{{Row: rows / 2, Col: 0, Text: wrap.Truncate(msg, cols), Style: styles.Notice}}
	return f
}

// =============================================================================
// TRANSCRIPT LINES
// =============================================================================

type displayLine struct {
	prefix      string
	prefixStyle surface.Style
	indent      int
	body        string
	bodyStyle   surface.Style
}

// transcriptLines wraps every entry below its role prefix. Continuation
// lines are indented to the prefix width; entries are separated by one
// blank line.
func transcriptLines(entries []model.Entry, cols int) []displayLine {
	var lines []displayLine
	for i, e := range entries {
		if i > 0 {
			lines = append(lines, displayLine{})
		}

		prefix := e.Role.DisplayName() + ": "
		indent := wrap.Width(prefix)
		prefixStyle, bodyStyle := entryStyles(e)

		for j, body := range wrap.Paragraphs(e.Text, cols-indent) {
			ln := displayLine{indent: indent, body: body, bodyStyle: bodyStyle}
			if j == 0 {
				ln.prefix = prefix
				ln.prefixStyle = prefixStyle
			}
			lines = append(lines, ln)
		}
	}
	return lines
}

func entryStyles(e model.Entry) (prefix, body surface.Style) {
	switch {
	case e.Failed:
		return styles.Failed, styles.Failed
	case e.Role == model.RoleUser:
		return styles.User, styles.Normal
	default:
		return styles.Assistant, styles.Normal
	}
}
