// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repos drives the repository lifecycle: ingest by URL, list
// and delete. The manager keeps an in-memory snapshot of the backend's
// repository list and degrades to an empty list when the backend cannot
// be reached, so the UI always has something to render.
package repos
