// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the transcript and the
// conversation context.
package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message history sent to the backend.
//
// A completed turn contributes one user record followed by one assistant
// record. A failed turn contributes only its user record.
type Conversation struct {
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{messages: make([]Message, 0, 16)}
}

// AddUserMessage appends a user record.
func (c *Conversation) AddUserMessage(content string) {
	c.messages = append(c.messages, NewUserMessage(content))
}

// AddAssistantMessage appends an assistant record.
func (c *Conversation) AddAssistantMessage(content string) {
	c.messages = append(c.messages, NewAssistantMessage(content))
}

// Messages returns a copy of the records in order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// WithSystemPrompt returns a copy of the records prefixed by a system record.
// The prompt itself is never stored in the conversation.
func (c *Conversation) WithSystemPrompt(prompt string) []Message {
	if prompt == "" {
		return c.Messages()
	}
	out := make([]Message, 0, len(c.messages)+1)
	out = append(out, NewSystemMessage(prompt))
	return append(out, c.messages...)
}

// Len returns the number of records.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Clear removes all records.
func (c *Conversation) Clear() {
	c.messages = c.messages[:0]
}
