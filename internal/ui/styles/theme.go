// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme resolves Elements to concrete styles for one terminal.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	palette  Palette
	renderer *lipgloss.Renderer
	styles   map[Element]lipgloss.Style
}

// NewTheme detects the terminal and builds a theme. Non-empty fields of
// override replace the defaults for the detected background.
func NewTheme(override Palette) *Theme {
	profile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	return NewThemeFor(os.Stdout, profile, isDark, DefaultPalette(isDark).Merge(override))
}

// NewThemeFor builds a theme for an explicit output, profile and palette.
func NewThemeFor(w io.Writer, profile termenv.Profile, isDark bool, palette Palette) *Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		palette:      palette,
		renderer:     r,
		styles:       make(map[Element]lipgloss.Style, len(elementNames)),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	for e := range elementNames {
		el := Element(e)
		fg, bg, bold := t.palette.Colors(el)
		s := t.renderer.NewStyle().Bold(bold)
		if fg != "" {
			s = s.Foreground(lipgloss.Color(fg))
		}
		if bg != "" {
			s = s.Background(lipgloss.Color(bg))
		}
		t.styles[el] = s
	}
}

// Palette returns the palette the theme was built from.
func (t *Theme) Palette() Palette {
	return t.palette
}

// Monochrome reports whether the terminal cannot show colors.
func (t *Theme) Monochrome() bool {
	return t.ColorProfile == termenv.Ascii
}

// Style returns the lipgloss style for e.
func (t *Theme) Style(e Element) lipgloss.Style {
	if s, ok := t.styles[e]; ok {
		return s
	}
	return t.styles[Normal]
}

// Render styles text as e.
func (t *Theme) Render(e Element, text string) string {
	return t.Style(e).Render(text)
}

// Colors returns the color specs and bold flag for e. On a monochrome
// terminal the specs are empty.
func (t *Theme) Colors(e Element) (fg, bg string, bold bool) {
	fg, bg, bold = t.palette.Colors(e)
	if t.Monochrome() {
		return "", "", bold
	}
	return fg, bg, bold
}

// =============================================================================
// ANIMATION
// =============================================================================

// CursorBlinkPeriod is the on/off period of the input cursor.
const CursorBlinkPeriod = 500 * time.Millisecond

// CursorVisible reports whether the blinking cursor is lit at now.
func CursorVisible(now time.Time) bool {
	return (now.UnixNano()/int64(CursorBlinkPeriod))%2 == 0
}

// Frame picks the animation frame for now, advancing once per interval.
func Frame(frames []string, interval time.Duration, now time.Time) string {
	if len(frames) == 0 {
		return ""
	}
	if interval <= 0 {
		return frames[0]
	}
	return frames[(now.UnixNano()/int64(interval))%int64(len(frames))]
}
