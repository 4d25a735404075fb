// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage archives completed chat exchanges in a local SQLite
// database.
//
// The archive is strictly write-behind: the authoritative conversation
// history always lives on the backend, and the session never reads
// from the archive. Its purpose is to let transcripts outlive backend
// deletion and to feed the export command.
package storage
