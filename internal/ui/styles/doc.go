// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aurora TUI.

Colors are fixed when a Theme is built: a Palette is an immutable value
handed to the renderer surface at construction, never a package-level
variable mutated at runtime.

# Elements

Every run of text the chat layout emits is tagged with an Element
(User, Assistant, Failed, Input, Status, ...). Surfaces resolve an
Element to concrete colors through the Theme:

	theme := styles.NewTheme(styles.DefaultPalette(true))
	style := theme.Style(styles.Assistant)   // lipgloss, for bubbletea
	fg, bg, bold := theme.Colors(styles.Failed) // raw specs, for tcell

# Color Specs

Palette fields hold color specs as accepted by lipgloss.Color: "#RRGGBB"
hex, or an ANSI index "0" through "255". An empty spec means the terminal
default.

# Capability Detection

NewTheme asks termenv for the terminal's color profile and background.
On an Ascii profile all colors are dropped and only bold survives.
*/
package styles
