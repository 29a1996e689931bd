// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events carries stream events from the background fetch goroutine
// to the foreground render loop.
//
// A Channel has exactly one producer (the fetch goroutine of one turn) and
// one consumer (the render loop). Send never blocks, so a slow frame can
// never stall the network read, and Drain hands the consumer everything
// queued so far in production order.
package events

import "sync"

// =============================================================================
// EVENT TYPES
// =============================================================================

// Kind tags the variant of an Event.
type Kind int

const (
	// Fragment carries an incremental piece of assistant text.
	Fragment Kind = iota
	// Done terminates a turn successfully; Text is the full response.
	Done
	// Error terminates a turn with a failure; Text is the message.
	Error
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Fragment:
		return "fragment"
	case Done:
		return "done"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one item of a turn's event sequence.
type Event struct {
	Kind   Kind
	Text   string
	TurnID string
}

// Terminal reports whether the event ends its turn.
func (e Event) Terminal() bool {
	return e.Kind == Done || e.Kind == Error
}

// NewFragment creates a Fragment event.
func NewFragment(turnID, text string) Event {
	return Event{Kind: Fragment, Text: text, TurnID: turnID}
}

// NewDone creates a Done event.
func NewDone(turnID, full string) Event {
	return Event{Kind: Done, Text: full, TurnID: turnID}
}

// NewError creates an Error event.
func NewError(turnID, message string) Event {
	return Event{Kind: Error, Text: message, TurnID: turnID}
}

// =============================================================================
// CHANNEL
// =============================================================================

// Channel is an unbounded, non-blocking FIFO queue of events.
//
// The zero value is not usable; create one with NewChannel.
type Channel struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
}

// NewChannel creates an open, empty channel.
func NewChannel() *Channel {
	return &Channel{queue: make([]Event, 0, 32)}
}

// Send enqueues an event without blocking. It returns false, dropping the
// event, once the channel has been closed.
func (c *Channel) Send(e Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.queue = append(c.queue, e)
	return true
}

// Drain removes and returns every queued event in the order sent.
// It returns nil when nothing is queued or the channel is closed.
func (c *Channel) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) == 0 {
		return nil
	}
	out := c.queue
	c.queue = make([]Event, 0, cap(out))
	return out
}

// Len returns the number of queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close tears the channel down. Queued events are discarded and later
// sends are dropped. Close is idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.queue = nil
}

// Closed reports whether Close has been called.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
