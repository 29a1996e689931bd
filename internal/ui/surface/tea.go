// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// =============================================================================
// TEA CANVAS
// =============================================================================

// TeaCanvas is a Surface for bubbletea programs. The loop draws into a
// cell grid; the tea model returns the presented grid from View, styled
// through the theme. Keys arrive as tea.KeyMsg and are queued for ReadKey.
//
// Update and View run on the bubbletea event goroutine, which is also the
// goroutine that calls the tick function, so the loop and the canvas are
// never touched concurrently.
type TeaCanvas struct {
	*Memory
	theme *styles.Theme
}

// NewTeaCanvas creates a canvas of the given initial size. The size is
// replaced by the first tea.WindowSizeMsg.
func NewTeaCanvas(theme *styles.Theme, rows, cols int) *TeaCanvas {
	return &TeaCanvas{Memory: NewMemory(rows, cols), theme: theme}
}

// Frame renders the presented grid as styled text.
func (c *TeaCanvas) Frame() string {
	runs := c.Runs()
	var b strings.Builder
	for i, row := range runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			b.WriteString(c.theme.Render(r.Style, r.Text))
		}
	}
	return b.String()
}

// Model returns a tea.Model that calls tick every interval and after every
// key or resize. The program quits when tick returns false.
func (c *TeaCanvas) Model(interval time.Duration, tick func() bool) tea.Model {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &teaModel{canvas: c, interval: interval, tick: tick}
}

// RunTea runs the canvas as a full-screen bubbletea program until tick
// returns false or ctx is cancelled.
func RunTea(ctx context.Context, c *TeaCanvas, interval time.Duration, tick func() bool, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(c.Model(interval, tick), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return &InitError{Backend: "bubbletea", Err: err}
	}
	return nil
}

// =============================================================================
// TEA MODEL
// =============================================================================

type tickMsg time.Time

type teaModel struct {
	canvas   *TeaCanvas
	interval time.Duration
	tick     func() bool
	quitting bool
}

func (m *teaModel) Init() tea.Cmd {
	return m.next()
}

func (m *teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Height, msg.Width)
		return m, m.step(nil)
	case tea.KeyMsg:
		m.canvas.PushKey(fromTea(msg)...)
		return m, m.step(nil)
	case tickMsg:
		return m, m.step(m.next())
	}
	return m, nil
}

func (m *teaModel) View() string {
	return m.canvas.Frame()
}

// step runs one loop tick and returns then, or tea.Quit once the loop is
// finished.
func (m *teaModel) step(then tea.Cmd) tea.Cmd {
	if m.quitting {
		return nil
	}
	if !m.tick() {
		m.quitting = true
		return tea.Quit
	}
	return then
}

func (m *teaModel) next() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fromTea converts a key message. Pasted or batched runes become one key
// each.
func fromTea(msg tea.KeyMsg) []Key {
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, RuneKey(r))
		}
		return keys
	case tea.KeySpace:
		return []Key{RuneKey(' ')}
	case tea.KeyEnter:
		return []Key{{Code: KeyEnter}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []Key{{Code: KeyBackspace}}
	case tea.KeyEsc:
		return []Key{{Code: KeyEsc}}
	case tea.KeyCtrlC:
		return []Key{{Code: KeyCtrlC}}
	case tea.KeyCtrlL:
		return []Key{{Code: KeyCtrlL}}
	case tea.KeyUp:
		return []Key{{Code: KeyUp}}
	case tea.KeyDown:
		return []Key{{Code: KeyDown}}
	case tea.KeyPgUp:
		return []Key{{Code: KeyPgUp}}
	case tea.KeyPgDown:
		return []Key{{Code: KeyPgDown}}
	case tea.KeyHome:
		return []Key{{Code: KeyHome}}
	case tea.KeyEnd:
		return []Key{{Code: KeyEnd}}
	default:
		return nil
	}
}

// Compile-time interface check.
var _ Surface = (*TeaCanvas)(nil)
