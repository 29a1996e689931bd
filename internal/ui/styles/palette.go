// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "fmt"

// =============================================================================
// ELEMENTS
// =============================================================================

// Element names the role a run of text plays on screen.
type Element int

const (
	Normal Element = iota
	Header
	User
	Assistant
	Failed
	Input
	Cursor
	Status
	Notice
	Dim
)

var elementNames = [...]string{
	Normal:    "normal",
	Header:    "header",
	User:      "user",
	Assistant: "assistant",
	Failed:    "failed",
	Input:     "input",
	Cursor:    "cursor",
	Status:    "status",
	Notice:    "notice",
	Dim:       "dim",
}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "unknown"
	}
	return elementNames[e]
}

// =============================================================================
// PALETTE
// =============================================================================

// Palette is the immutable color configuration of the renderer surface.
// Each field is a color spec (see ValidColor); empty means terminal default.
type Palette struct {
	User      string `toml:"user"`
	Assistant string `toml:"assistant"`
	Failed    string `toml:"failed"`
	Input     string `toml:"input"`
	Cursor    string `toml:"cursor"`
	Status    string `toml:"status"`
	Notice    string `toml:"notice"`
	Dim       string `toml:"dim"`
	HeaderFg  string `toml:"header_fg"`
	HeaderBg  string `toml:"header_bg"`
}

// DefaultPalette returns the built-in palette for a dark or light
// background.
func DefaultPalette(dark bool) Palette {
	return Palette{
		User:      pick(Cyan, dark),
		Assistant: pick(Purple, dark),
		Failed:    pick(Rose, dark),
		Input:     pick(TextPrimary, dark),
		Cursor:    pick(Cyan, dark),
		Status:    pick(TextSecondary, dark),
		Notice:    pick(Amber, dark),
		Dim:       pick(TextMuted, dark),
		HeaderFg:  pick(TextInverse, dark),
		HeaderBg:  pick(Purple, dark),
	}
}

// Merge returns p with every non-empty field of override applied.
func (p Palette) Merge(override Palette) Palette {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&p.User, override.User)
	set(&p.Assistant, override.Assistant)
	set(&p.Failed, override.Failed)
	set(&p.Input, override.Input)
	set(&p.Cursor, override.Cursor)
	set(&p.Status, override.Status)
	set(&p.Notice, override.Notice)
	set(&p.Dim, override.Dim)
	set(&p.HeaderFg, override.HeaderFg)
	set(&p.HeaderBg, override.HeaderBg)
	return p
}

// Validate checks every field is a valid color spec.
func (p Palette) Validate() error {
	fields := []struct {
		name, spec string
	}{
		{"user", p.User},
		{"assistant", p.Assistant},
		{"failed", p.Failed},
		{"input", p.Input},
		{"cursor", p.Cursor},
		{"status", p.Status},
		{"notice", p.Notice},
		{"dim", p.Dim},
		{"header_fg", p.HeaderFg},
		{"header_bg", p.HeaderBg},
	}
	for _, f := range fields {
		if !ValidColor(f.spec) {
			return fmt.Errorf("palette.%s: invalid color %q", f.name, f.spec)
		}
	}
	return nil
}

// Colors returns the foreground and background specs and bold flag for e.
func (p Palette) Colors(e Element) (fg, bg string, bold bool) {
	switch e {
	case Header:
		return p.HeaderFg, p.HeaderBg, true
	case User:
		return p.User, "", true
	case Assistant:
		return p.Assistant, "", false
	case Failed:
		return p.Failed, "", false
	case Input:
		return p.Input, "", false
	case Cursor:
		// Block cursor: a cell filled with the cursor color.
		return "", p.Cursor, false
	case Status:
		return p.Status, "", false
	case Notice:
		return p.Notice, "", true
	case Dim:
		return p.Dim, "", false
	default:
		return "", "", false
	}
}
