// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "AI"},
		{RoleSystem, "System"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%s.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendOrder(t *testing.T) {
	tr := NewTranscript(0)
	tr.Append(Entry{Role: RoleUser, Text: "one"})
	tr.Append(Entry{Role: RoleAssistant, Text: "two"})
	tr.Append(Entry{Role: RoleUser, Text: "three"})

	snap := tr.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "one", snap[0].Text)
	assert.Equal(t, "two", snap[1].Text)
	assert.Equal(t, "three", snap[2].Text)
}

func TestTranscript_CapacityEvictsOldest(t *testing.T) {
	tr := NewTranscript(2)
	tr.Append(Entry{Role: RoleUser, Text: "a"})
	tr.Append(Entry{Role: RoleAssistant, Text: "b"})
	tr.Append(Entry{Role: RoleUser, Text: "c"})

	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Text)
	assert.Equal(t, "c", snap[1].Text)
	assert.Equal(t, 2, tr.capacity)
}

func TestTranscript_NegativeCapacityIsUnbounded(t *testing.T) {
	tr := NewTranscript(-5)
	for i := 0; i < 100; i++ {
		tr.Append(Entry{Role: RoleUser})
	}
	assert.Equal(t, 100, tr.Len())
}

func TestTranscript_ReplaceLastIf(t *testing.T) {
	tr := NewTranscript(0)

	// Empty buffer
	assert.False(t, tr.ReplaceLastIf(RoleAssistant, "x"))
	assert.Equal(t, 0, tr.Len())

	tr.Append(Entry{Role: RoleUser, Text: "hello"})

	// Role mismatch leaves the buffer unchanged.
	before := tr.Snapshot()
	assert.False(t, tr.ReplaceLastIf(RoleAssistant, "Hi"))
	assert.Equal(t, before, tr.Snapshot())

	tr.Append(Entry{Role: RoleAssistant, Text: ""})
	assert.True(t, tr.ReplaceLastIf(RoleAssistant, "Hi"))
	assert.True(t, tr.ReplaceLastIf(RoleAssistant, "Hi there"))

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, Entry{Role: RoleAssistant, Text: "Hi there"}, last)
	assert.Equal(t, 2, tr.Len(), "replacement must not add entries")
}

func TestTranscript_SnapshotIsIsolated(t *testing.T) {
	tr := NewTranscript(0)
	tr.Append(Entry{Role: RoleAssistant, Text: "partial"})

	snap := tr.Snapshot()
	tr.ReplaceLastIf(RoleAssistant, "partial and more")
	tr.Append(Entry{Role: RoleUser, Text: "next"})

	require.Len(t, snap, 1)
	assert.Equal(t, "partial", snap[0].Text)

	snap[0].Text = "mutated"
	last, _ := tr.Last()
	assert.Equal(t, "next", last.Text)
	assert.Equal(t, "partial and more", tr.Snapshot()[0].Text)
}

func TestTranscript_Clear(t *testing.T) {
	tr := NewTranscript(3)
	tr.Append(Entry{Role: RoleUser, Text: "a"})
	tr.Append(Entry{Role: RoleAssistant, Text: "b"})

	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Append(Entry{Role: RoleUser, Text: "c"})
	assert.Equal(t, 1, tr.Len())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_Records(t *testing.T) {
	c := NewConversation()
	assert.Zero(t, c.Len())

	c.AddUserMessage("hello")
	c.AddAssistantMessage("Hi there")

	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "Hi there"},
	}, c.Messages())
	assert.Equal(t, 2, c.Len())
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("hello")

	msgs := c.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "hello", c.Messages()[0].Content)
}

func TestConversation_WithSystemPrompt(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("hello")

	msgs := c.WithSystemPrompt("be brief")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "be brief", msgs[0].Content)
	assert.Equal(t, 1, c.Len(), "system prompt is not stored")

	assert.Equal(t, c.Messages(), c.WithSystemPrompt(""))
}

func TestConversation_Clear(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("a")
	c.AddAssistantMessage("b")

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Messages())
}
