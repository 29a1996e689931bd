// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the transcript and the
// conversation context.
package model

// =============================================================================
// TRANSCRIPT ENTRY
// =============================================================================

// Entry is one visible item of the chat transcript.
type Entry struct {
	Role Role
	Text string

	// Failed marks an assistant entry that carries an error notice.
	Failed bool
}

// =============================================================================
// TRANSCRIPT BUFFER
// =============================================================================

// Transcript is the ordered list of entries shown to the user.
//
// Entries are append-only except for the last one, whose text may be
// replaced while a response streams into it. When a capacity is set the
// oldest entries are evicted first.
type Transcript struct {
	entries  []Entry
	capacity int
}

// NewTranscript creates a transcript. A capacity of 0 or less is unbounded.
func NewTranscript(capacity int) *Transcript {
	if capacity < 0 {
		capacity = 0
	}
	return &Transcript{capacity: capacity}
}

// Append adds an entry to the end, evicting the oldest entries once the
// capacity is exceeded.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	if t.capacity > 0 && len(t.entries) > t.capacity {
		drop := len(t.entries) - t.capacity
		// Shift instead of reslicing so evicted text can be collected.
		n := copy(t.entries, t.entries[drop:])
		for i := n; i < len(t.entries); i++ {
			t.entries[i] = Entry{}
		}
		t.entries = t.entries[:n]
	}
}

// ReplaceLastIf replaces the text of the last entry when its role matches.
// It reports whether a replacement happened.
func (t *Transcript) ReplaceLastIf(role Role, text string) bool {
	if len(t.entries) == 0 {
		return false
	}
	last := &t.entries[len(t.entries)-1]
	if last.Role != role {
		return false
	}
	last.Text = text
	return true
}

// Snapshot returns a copy of the entries for rendering.
func (t *Transcript) Snapshot() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Clear removes all entries.
func (t *Transcript) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.entries = t.entries[:0]
}
