// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/aurora-tui/internal/ui/surface"
)

func TestInputLine(t *testing.T) {
	var in InputLine
	assert.True(t, in.IsBlank())
	assert.False(t, in.DeleteLast())

	for _, r := range "  h\u00e9llo 世界 " {
		in.Append(r)
	}
	assert.Equal(t, 11, in.Len())
	assert.Equal(t, "h\u00e9llo 世界", in.Trimmed())

	assert.True(t, in.DeleteLast())
	assert.True(t, in.DeleteLast())
	assert.Equal(t, "  h\u00e9llo 世", in.String())

	in.Reset()
	assert.Equal(t, "", in.String())
	assert.Equal(t, 0, in.Len())
}

func TestInputLine_SubmitNormalises(t *testing.T) {
	var in InputLine
	for _, r := range " cafe\u0301 " {
		in.Append(r)
	}
	assert.Equal(t, "caf\u00e9", in.Submit())
	assert.Equal(t, "", in.String(), "submit resets the line")

	in.Append(' ')
	assert.Equal(t, "", in.Submit())
	assert.Equal(t, 0, in.Len())
}

func TestKeyMap_MatchesSurfaceKeys(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, matches(surface.Key{Code: surface.KeyEnter}, km.Submit))
	assert.True(t, matches(surface.Key{Code: surface.KeyBackspace}, km.Delete))
	assert.True(t, matches(surface.Key{Code: surface.KeyCtrlL}, km.Clear))
	assert.True(t, matches(surface.Key{Code: surface.KeyEsc}, km.Cancel))
	assert.True(t, matches(surface.Key{Code: surface.KeyCtrlC}, km.Quit))
	assert.True(t, matches(surface.Key{Code: surface.KeyPgDown}, km.PageDown))
	assert.False(t, matches(surface.RuneKey('q'), km.Quit), "printable keys are never bound")
	assert.False(t, matches(surface.Key{Code: surface.KeyEnter}, km.Quit))
}

func TestHelpLine(t *testing.T) {
	km := DefaultKeyMap()
	assert.Equal(t, "Enter send │ Esc stop │ ↑↓ scroll │ C-l clear │ C-c quit", HelpLine(km.ShortHelp()))

	km.Clear.SetEnabled(false)
	assert.NotContains(t, HelpLine(km.ShortHelp()), "clear")

	groups := km.FullHelp()
	assert.Len(t, groups, 3)
}
