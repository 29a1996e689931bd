// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

func newCanvas(rows, cols int) *TeaCanvas {
	theme := styles.NewThemeFor(io.Discard, termenv.Ascii, true, styles.DefaultPalette(true))
	return NewTeaCanvas(theme, rows, cols)
}

func TestTeaCanvas_FrameIsPresentedGrid(t *testing.T) {
	c := newCanvas(2, 6)
	c.WriteAt(0, 0, "AI: ok", styles.Assistant)
	assert.Equal(t, "      \n      ", c.Frame())

	require.NoError(t, c.Present())
	assert.Equal(t, "AI: ok\n      ", c.Frame())
}

func TestTeaModel_KeysAreQueuedAndTicked(t *testing.T) {
	c := newCanvas(2, 10)
	ticks := 0
	m := c.Model(time.Hour, func() bool { ticks++; return true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("héllo")})
	assert.Nil(t, cmd)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyF1})

	assert.Equal(t, 4, ticks)
	var got string
	for {
		k, ok := c.ReadKey()
		if !ok {
			break
		}
		got += k.String() + ","
	}
	assert.Equal(t, "h,é,l,l,o, ,enter,", got)
}

func TestTeaModel_ResizeAndView(t *testing.T) {
	c := newCanvas(0, 0)
	m := c.Model(time.Hour, func() bool {
		c.Clear()
		c.WriteAt(0, 0, "x", styles.Normal)
		_ = c.Present()
		return true
	})

	_, _ = m.Update(tea.WindowSizeMsg{Width: 3, Height: 2})
	rows, cols := c.Size()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "x  \n   ", m.View())
}

func TestTeaModel_QuitsWhenTickReturnsFalse(t *testing.T) {
	c := newCanvas(1, 1)
	calls := 0
	m := c.Model(time.Hour, func() bool { calls++; return false })

	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// Finished models do not tick again.
	_, cmd = m.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, calls)
}

func TestTeaModel_TickReschedules(t *testing.T) {
	c := newCanvas(1, 1)
	m := c.Model(time.Millisecond, func() bool { return true })

	require.NotNil(t, m.Init())
	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.IsType(t, tickMsg{}, cmd())
}

func TestFromTea(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want []Key
	}{
		{tea.KeyMsg{Type: tea.KeyBackspace}, []Key{{Code: KeyBackspace}}},
		{tea.KeyMsg{Type: tea.KeyCtrlH}, []Key{{Code: KeyBackspace}}},
		{tea.KeyMsg{Type: tea.KeyEsc}, []Key{{Code: KeyEsc}}},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, []Key{{Code: KeyCtrlC}}},
		{tea.KeyMsg{Type: tea.KeyCtrlL}, []Key{{Code: KeyCtrlL}}},
		{tea.KeyMsg{Type: tea.KeyPgUp}, []Key{{Code: KeyPgUp}}},
		{tea.KeyMsg{Type: tea.KeyPgDown}, []Key{{Code: KeyPgDown}}},
		{tea.KeyMsg{Type: tea.KeyTab}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, fromTea(tt.msg))
		})
	}
}
