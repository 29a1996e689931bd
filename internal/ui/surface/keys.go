// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import "unicode"

// KeyCode identifies a non-printable key, or KeyRune for text input.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyEsc
	KeyCtrlC
	KeyCtrlL
	KeyUp
	KeyDown
	KeyPgUp
	KeyPgDown
	KeyHome
	KeyEnd
)

var keyNames = map[KeyCode]string{
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyEsc:       "esc",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlL:     "ctrl+l",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyPgUp:      "pgup",
	KeyPgDown:    "pgdown",
	KeyHome:      "home",
	KeyEnd:       "end",
}

// Key is one keypress.
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey returns the key for a printable character.
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Keys returns one rune key per character of text, for scripting input.
func Keys(text string) []Key {
	keys := make([]Key, 0, len(text))
	for _, r := range text {
		keys = append(keys, RuneKey(r))
	}
	return keys
}

// String returns the key's name in the form bubbles key bindings match
// against: "enter", "ctrl+c", "pgup", or the character itself.
func (k Key) String() string {
	if k.Code == KeyRune {
		return string(k.Rune)
	}
	if name, ok := keyNames[k.Code]; ok {
		return name
	}
	return ""
}

// Printable reports whether the key inserts text.
func (k Key) Printable() bool {
	return k.Code == KeyRune && unicode.IsPrint(k.Rune)
}
