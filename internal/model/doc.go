// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for repositories,
// conversations and messages.
//
// # Key Types
//
//   - Repository: An ingested codebase known to the backend
//   - Conversation: Message log for the currently bound repository
//   - Message: Single turn with role, content and timestamp
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a conversation for a repository and append a turn:
//
//	conv := model.NewConversation("infralens")
//	conv.AddUserMessage("Where is the ingest endpoint defined?")
package model
