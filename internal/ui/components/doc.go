// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable view components for the
// infralens TUI: the header, status bar, message bubbles, and the
// repository picker list. Components are pure render helpers; state
// lives in the chat model.
package components
