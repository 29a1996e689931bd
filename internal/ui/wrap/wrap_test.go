// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// WRAP TESTS
// =============================================================================

func TestWrap_EmptyInput(t *testing.T) {
	for _, w := range []int{1, 5, 80} {
		lines := Wrap("", w)
		require.Len(t, lines, 1)
		assert.Equal(t, "", lines[0])
	}

	// Whitespace-only input has no tokens either.
	assert.Equal(t, []string{""}, Wrap("   \n\t ", 10))
}

func TestWrap_Greedy(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"exact fit", "hello world", 11, []string{"hello world"}},
		{"one short", "hello world", 10, []string{"hello", "world"}},
		{"three lines", "the quick brown fox jumps", 10, []string{"the quick", "brown fox", "jumps"}},
		{"collapses whitespace", "a   b\n\nc", 80, []string{"a b c"}},
		{"single token", "word", 4, []string{"word"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Wrap(tc.text, tc.width))
		})
	}
}

func TestWrap_LongTokenOverflows(t *testing.T) {
	lines := Wrap("a supercalifragilistic b", 5)

	assert.Equal(t, []string{"a", "supercalifragilistic", "b"}, lines)
}

func TestWrap_WideRunes(t *testing.T) {
	// Each CJK glyph is two cells wide.
	lines := Wrap("日本 語の 文字", 5)

	assert.Equal(t, []string{"日本", "語の", "文字"}, lines)
	for _, l := range lines {
		assert.LessOrEqual(t, Width(l), 5)
	}
}

func TestWrap_NonPositiveWidth(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Wrap("a b", 0))
	assert.Equal(t, []string{"a", "b"}, Wrap("a b", -3))
}

func TestWrap_Properties(t *testing.T) {
	texts := []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor.",
		"short",
		"tabs\tand\nnewlines  mixed   in",
		"x",
		"averyveryverylongtokenwithoutanyspaces and then some words",
		"Hi there, 世界! émoji 🙂 ok",
	}

	for _, text := range texts {
		for w := 1; w <= 40; w++ {
			lines := Wrap(text, w)
			require.NotEmpty(t, lines)

			for _, line := range lines {
				if Width(line) > w {
					// Only a lone over-long token may exceed the width.
					assert.Len(t, strings.Fields(line), 1, "width %d line %q", w, line)
				}
			}

			rejoined := strings.Join(lines, " ")
			assert.Equal(t, strings.Join(strings.Fields(text), " "), rejoined, "width %d", w)
		}
	}
}

func TestWrap_Deterministic(t *testing.T) {
	text := "same input gives the same output every single frame"
	first := Wrap(text, 12)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Wrap(text, 12))
	}
}

// =============================================================================
// PARAGRAPH TESTS
// =============================================================================

func TestParagraphs(t *testing.T) {
	lines := Paragraphs("first line\n\nsecond paragraph here", 10)

	assert.Equal(t, []string{"first line", "", "second", "paragraph", "here"}, lines)
}

func TestParagraphs_NoNewline(t *testing.T) {
	assert.Equal(t, Wrap("plain text", 5), Paragraphs("plain text", 5))
	assert.Equal(t, []string{""}, Paragraphs("", 5))
}

func TestParagraphs_CRLF(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Paragraphs("a\r\nb", 10))
}

// =============================================================================
// TRUNCATION TESTS
// =============================================================================

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "日", Truncate("日本", 3))
}

func TestTailFit(t *testing.T) {
	assert.Equal(t, "hello", TailFit("hello", 10))
	assert.Equal(t, "llo", TailFit("hello", 3))
	assert.Equal(t, "本", TailFit("日本", 3))
	assert.Equal(t, "", TailFit("hello", 0))
}
