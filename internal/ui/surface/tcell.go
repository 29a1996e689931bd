// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/aurora-tui/internal/ui/styles"
)

// keyQueueSize bounds keys buffered between the event pump and the loop.
// Keys arriving while the queue is full are dropped.
const keyQueueSize = 256

// newScreen is swapped in tests.
var newScreen = tcell.NewScreen

// =============================================================================
// TCELL SCREEN
// =============================================================================

// TcellScreen is a Surface over a tcell screen. Keys are read by Pump on
// its own goroutine and queued for ReadKey.
type TcellScreen struct {
	screen tcell.Screen
	styles map[Style]tcell.Style
	keys   chan Key
}

// NewTcellScreen takes over the terminal. The caller must call Fini.
func NewTcellScreen(theme *styles.Theme) (*TcellScreen, error) {
	screen, err := newScreen()
	if err != nil {
		return nil, &InitError{Backend: "tcell", Err: err}
	}
	if err := screen.Init(); err != nil {
		return nil, &InitError{Backend: "tcell", Err: err}
	}
	return NewTcellScreenFrom(screen, theme), nil
}

// NewTcellScreenFrom wraps an already initialised screen.
func NewTcellScreenFrom(screen tcell.Screen, theme *styles.Theme) *TcellScreen {
	s := &TcellScreen{
		screen: screen,
		styles: make(map[Style]tcell.Style),
		keys:   make(chan Key, keyQueueSize),
	}
	for _, e := range []Style{
		styles.Normal, styles.Header, styles.User, styles.Assistant, styles.Failed,
		styles.Input, styles.Cursor, styles.Status, styles.Notice, styles.Dim,
	} {
		fg, bg, bold := theme.Colors(e)
		s.styles[e] = tcell.StyleDefault.
			Foreground(tcellColor(fg)).
			Background(tcellColor(bg)).
			Bold(bold)
	}
	screen.HideCursor()
	return s
}

// Pump reads terminal events until the screen is finalised. Key events are
// queued for ReadKey; resizes force a full repaint. Run it on its own
// goroutine.
func (s *TcellScreen) Pump() error {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch tev := ev.(type) {
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			k, ok := fromTcell(tev)
			if !ok {
				continue
			}
			select {
			case s.keys <- k:
			default:
			}
		}
	}
}

// Fini restores the terminal. Pump returns afterwards.
func (s *TcellScreen) Fini() {
	s.screen.Fini()
}

// Size implements Surface.
func (s *TcellScreen) Size() (rows, cols int) {
	cols, rows = s.screen.Size()
	return rows, cols
}

// Clear implements Surface.
func (s *TcellScreen) Clear() {
	s.screen.Clear()
}

// WriteAt implements Surface.
func (s *TcellScreen) WriteAt(row, col int, text string, style Style) {
	cols, rows := s.screen.Size()
	if row < 0 || row >= rows {
		return
	}
	st, ok := s.styles[style]
	if !ok {
		st = tcell.StyleDefault
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > cols {
			return
		}
		if col >= 0 {
			s.screen.SetContent(col, row, r, nil, st)
		}
		col += w
	}
}

// ReadKey implements Surface.
func (s *TcellScreen) ReadKey() (Key, bool) {
	select {
	case k := <-s.keys:
		return k, true
	default:
		return Key{}, false
	}
}

// Present implements Surface.
func (s *TcellScreen) Present() error {
	s.screen.Show()
	return nil
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func fromTcell(ev *tcell.EventKey) (Key, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return RuneKey(ev.Rune()), true
	case tcell.KeyEnter:
		return Key{Code: KeyEnter}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Key{Code: KeyBackspace}, true
	case tcell.KeyEscape:
		return Key{Code: KeyEsc}, true
	case tcell.KeyCtrlC:
		return Key{Code: KeyCtrlC}, true
	case tcell.KeyCtrlL:
		return Key{Code: KeyCtrlL}, true
	case tcell.KeyUp:
		return Key{Code: KeyUp}, true
	case tcell.KeyDown:
		return Key{Code: KeyDown}, true
	case tcell.KeyPgUp:
		return Key{Code: KeyPgUp}, true
	case tcell.KeyPgDn:
		return Key{Code: KeyPgDown}, true
	case tcell.KeyHome:
		return Key{Code: KeyHome}, true
	case tcell.KeyEnd:
		return Key{Code: KeyEnd}, true
	default:
		return Key{}, false
	}
}

// tcellColor converts a palette color spec. Empty means terminal default.
func tcellColor(spec string) tcell.Color {
	if spec == "" {
		return tcell.ColorDefault
	}
	if n, err := strconv.Atoi(spec); err == nil {
		return tcell.PaletteColor(n)
	}
	if len(spec) == 4 && strings.HasPrefix(spec, "#") {
		// #rgb -> #rrggbb
		spec = "#" + strings.Repeat(spec[1:2], 2) + strings.Repeat(spec[2:3], 2) + strings.Repeat(spec[3:4], 2)
	}
	return tcell.GetColor(spec)
}

// Compile-time interface check.
var _ Surface = (*TcellScreen)(nil)
