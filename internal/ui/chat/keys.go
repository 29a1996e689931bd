// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/aurora-tui/internal/ui/surface"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat loop.
// Printable characters are never bound; they always go to the input line.
type KeyMap struct {
	Submit   key.Binding
	Delete   key.Binding
	Clear    key.Binding
	Cancel   key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("Bksp", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑↓", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "oldest"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "latest"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Up, k.Clear, k.Quit}
}

// FullHelp returns all bindings in groups.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Editing
		{k.Submit, k.Delete, k.Clear},
		// Scrolling
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		// Turn control
		{k.Cancel, k.Quit},
	}
}

// HelpLine renders bindings as "Enter send │ Esc stop │ ...".
// Disabled bindings are skipped.
func HelpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " │ ")
}

func matches(k surface.Key, b key.Binding) bool {
	return key.Matches(k, b)
}
