// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session binds the conversation to one repository at a time.
//
// The Binder is a small state machine: Unbound, or Bound to a
// repository name. Rebinding clears the message log synchronously and
// loads the new repository's history asynchronously. Every asynchronous
// completion carries the binder epoch from the moment it started;
// completions whose epoch no longer matches are discarded, so a slow
// history load or send can never leak messages into a conversation it
// does not belong to.
//
// The Binder is not safe for concurrent mutation. Bind, BeginSend,
// ApplyHistory and FinishSend must run on a single goroutine (the
// Bubble Tea update loop or the CLI REPL); FetchHistory and PerformSend
// are pure network calls and may run anywhere.
package session
