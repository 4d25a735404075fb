// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the infralens TUI.
//
// The interface has two views: a repository picker backed by the
// lifecycle manager, and a chat transcript backed by the session
// binder. All conversation mutation happens on the update loop; only
// backend calls run inside tea commands, and their completions carry
// the binder's epoch so replies that arrive after a rebind are
// discarded.
package chat
