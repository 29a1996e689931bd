// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/ui/surface"
)

var clock = time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)

// render lays out and draws onto a fresh memory surface.
func render(t *testing.T, entries []model.Entry, rows, cols int, v View) (Frame, *surface.Memory) {
	t.Helper()
	f := Layout(entries, rows, cols, v)
	mem := surface.NewMemory(rows, cols)
	require.NoError(t, f.Draw(mem))
	return f, mem
}

func TestLayout_Regions(t *testing.T) {
	entries := []model.Entry{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleAssistant, Text: "hello"},
	}
	v := View{Model: "llama3.2", Clock: clock, Input: "abc", CursorOn: true, Status: "ready", StatusStyle: styles.Dim}

	f, mem := render(t, entries, 10, 30, v)
	lines := mem.Lines()

	assert.False(t, f.TooSmall)
	assert.Equal(t, 6, f.Page)
	assert.True(t, strings.HasPrefix(lines[0], " aurora · llama3.2"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "12:34:56"), lines[0])
	assert.Equal(t, "You: hi", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "AI: hello", lines[3])
	assert.Equal(t, strings.Repeat("─", 30), lines[7])
	assert.Equal(t, "► abc█", lines[8])
	assert.Equal(t, "ready", lines[9])

	assert.Equal(t, styles.Header, mem.StyleAt(0, 25))
	assert.Equal(t, styles.User, mem.StyleAt(1, 0))
	assert.Equal(t, styles.Assistant, mem.StyleAt(3, 0))
	assert.Equal(t, styles.Normal, mem.StyleAt(3, 5))
	assert.Equal(t, styles.Cursor, mem.StyleAt(8, 5))
	assert.Equal(t, styles.Dim, mem.StyleAt(9, 0))
}

func TestLayout_CursorOffUsesThinBar(t *testing.T) {
	_, mem := render(t, nil, 6, 24, View{Clock: clock, Input: "x"})
	assert.Equal(t, "► x▏", mem.Lines()[4])
}

func TestLayout_WrapsBelowPrefix(t *testing.T) {
	entries := []model.Entry{{Role: model.RoleUser, Text: "hello there general kenobi"}}
	_, mem := render(t, entries, 6, 24, View{Clock: clock})

	lines := mem.Lines()
	assert.Equal(t, "You: hello there general", lines[1])
	assert.Equal(t, "     kenobi", lines[2])
}

func TestLayout_KeepsParagraphBreaks(t *testing.T) {
	entries := []model.Entry{{Role: model.RoleAssistant, Text: "one\n\ntwo"}}
	_, mem := render(t, entries, 8, 24, View{Clock: clock})

	lines := mem.Lines()
	assert.Equal(t, "AI: one", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "    two", lines[3])
}

func TestLayout_ScrollFromTail(t *testing.T) {
	entries := []model.Entry{{Role: model.RoleAssistant, Text: "one\ntwo\nthree\nfour"}}

	f, mem := render(t, entries, 6, 24, View{Clock: clock})
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 4, f.Lines)
	assert.Equal(t, 2, f.MaxScroll)
	assert.Equal(t, 0, f.Scroll)
	assert.Equal(t, "    three", mem.Lines()[1])
	assert.Equal(t, "    four", mem.Lines()[2])
	assert.NotContains(t, mem.Lines()[3], "more")

	f, mem = render(t, entries, 6, 24, View{Clock: clock, Scroll: 1})
	assert.Equal(t, 1, f.Scroll)
	assert.Equal(t, "    two", mem.Lines()[1])
	assert.Equal(t, "    three", mem.Lines()[2])

	f, mem = render(t, entries, 6, 24, View{Clock: clock, Scroll: 99})
	assert.Equal(t, 2, f.Scroll, "scroll is clamped to the oldest line")
	assert.Equal(t, "AI: one", mem.Lines()[1])
	assert.Contains(t, mem.Lines()[3], "↓ 2 more")

	f, _ = render(t, entries, 6, 24, View{Clock: clock, Scroll: -3})
	assert.Equal(t, 0, f.Scroll)
}

func TestLayout_LongTokenOverflowsAndIsClipped(t *testing.T) {
	word := "supercalifragilisticexpialidocious"
	entries := []model.Entry{{Role: model.RoleAssistant, Text: word}}
	f, mem := render(t, entries, 6, 24, View{Clock: clock})

	var found bool
	for _, sp := range f.Spans {
		if sp.Text == word {
			found = true
		}
	}
	assert.True(t, found, "the token is laid out whole")
	assert.Equal(t, "AI: supercalifragilistic", mem.Lines()[1])
}

func TestLayout_LongInputShowsTail(t *testing.T) {
	_, mem := render(t, nil, 6, 24, View{Clock: clock, Input: "abcdefghijklmnopqrstuvwxyz", CursorOn: true})
	assert.Equal(t, "► fghijklmnopqrstuvwxyz█", mem.Lines()[4])
}

func TestLayout_FailedEntryStyle(t *testing.T) {
	entries := []model.Entry{{Role: model.RoleAssistant, Text: "Error: timeout", Failed: true}}
	_, mem := render(t, entries, 6, 24, View{Clock: clock})

	assert.Equal(t, "AI: Error: timeout", mem.Lines()[1])
	assert.Equal(t, styles.Failed, mem.StyleAt(1, 0))
	assert.Equal(t, styles.Failed, mem.StyleAt(1, 6))
}

func TestLayout_TooSmall(t *testing.T) {
	f, mem := render(t, []model.Entry{{Role: model.RoleUser, Text: "hi"}}, 5, 40, View{Clock: clock})

	assert.True(t, f.TooSmall)
	require.Len(t, f.Spans, 1)
	assert.Equal(t, styles.Notice, f.Spans[0].Style)
	assert.Equal(t, "terminal too small (40x5, need 24x6)", mem.Lines()[2])

	f = Layout(nil, 0, 0, View{})
	assert.True(t, f.TooSmall)
	assert.Empty(t, f.Spans)
}

func TestLayout_IsPure(t *testing.T) {
	entries := []model.Entry{{Role: model.RoleUser, Text: "same input"}}
	v := View{Model: "m", Clock: clock, Input: "x", CursorOn: true}
	assert.Equal(t, Layout(entries, 12, 40, v), Layout(entries, 12, 40, v))
	assert.Equal(t, "same input", entries[0].Text)
}
