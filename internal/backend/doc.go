// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend implements the typed HTTP client for the infralens
// analysis backend.
//
// The backend exposes five operations: ingest a repository, list
// ingested repositories, delete a repository, send a chat message and
// fetch a repository's chat history. All failures are normalized into a
// small set of typed errors so callers never branch on raw HTTP status
// codes.
//
// The bearer credential is supplied by a CredentialFunc that is invoked
// immediately before every dispatch. The client never caches its value,
// so a token rotated on disk mid-session is picked up on the next call.
package backend
