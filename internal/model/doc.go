// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the transcript and the
// conversation context.
//
// Two histories are kept side by side. The Transcript is what the user sees:
// it may show partial streamed text and error notices. The Conversation is
// exactly what is replayed to the backend on every turn, so it only ever
// holds complete user and assistant records.
//
// # Key Types
//
//   - Role: RoleUser or RoleAssistant (RoleSystem for request prefixes)
//   - Entry: one visible transcript entry
//   - Transcript: ordered, optionally bounded, entry list with a mutable tail
//   - Message: one conversation record sent to the backend
//   - Conversation: ordered message records
//
// # Usage
//
//	tr := model.NewTranscript(0)
//	tr.Append(model.Entry{Role: model.RoleUser, Text: "hello"})
//	tr.Append(model.Entry{Role: model.RoleAssistant})
//	tr.ReplaceLastIf(model.RoleAssistant, "Hi")
//
// Neither type is safe for concurrent use; each has a single owner.
package model
