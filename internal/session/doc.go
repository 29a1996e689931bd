// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation context sent to the model backend
// and runs one streamed turn at a time.
//
// A turn appends the user record immediately, then fetches the response on
// a background goroutine that reports progress as events on a per-turn
// events.Channel: zero or more Fragment events followed by exactly one Done
// or Error. Only a successful turn appends an assistant record; the user
// record of a failed turn is kept.
//
// # Key Types
//
//   - Session: conversation context plus turn launcher
//   - Turn: handle to an in-flight fetch (ID, Cancel, Wait)
//   - Backend: the streaming model collaborator
//   - TurnError: classified turn failure
//
// # Usage
//
//	s := session.New(backend, session.Options{IdleTimeout: 2 * time.Minute})
//	ch := events.NewChannel()
//	turn := s.Submit(ctx, "hello", ch)
//	defer turn.Cancel()
//
// # Timeouts
//
// The idle timeout is a watchdog rearmed on every fragment, so a long answer
// that keeps streaming never times out while a stalled one does.
package session
