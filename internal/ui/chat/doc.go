// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the render/input loop of the aurora chat client.

# Loop

Loop is a cooperative scheduler driven one Tick at a time. Each tick:
  - drains the event channel of the turn in flight and folds fragments into
    the open assistant entry of the transcript
  - reads at most one key from the surface and applies it
  - redraws the whole frame from a transcript snapshot

The loop has two states. StateIdle accepts a submission; StateStreaming
rejects it, so at most one turn and one fetch goroutine exist at a time.
Done and Error events return the loop to StateIdle.

The loop goroutine is the only reader of the event channel and the only
writer of the transcript and the input line, so none of them are locked.

# Layout

Layout is a pure function from a transcript snapshot, a terminal size and
a View to positioned, styled spans:

	row 0           header: model name and clock
	rows 1..n-4     transcript, wrapped and scrolled from the tail
	row n-3         separator
	row n-2         input line with blinking cursor
	row n-1         status: notice, streaming spinner or key help

Terminals below surface.MinCols x surface.MinRows get a single notice.

# Keys

Key bindings are bubbles key.Binding values in KeyMap, matched against the
surface key names.
*/
package chat
