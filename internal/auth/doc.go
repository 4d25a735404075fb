// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the bearer credential for the backend.
//
// The credential is issued out of band by the identity provider and
// stored locally; this package only reads, stores and fingerprints it.
// Providers re-read their source on every call so a rotated token is
// picked up without restarting the client. There is no refresh or
// re-authentication logic here: a 401 stays a 401 until the user runs
// "infralens auth login" with a new token.
package auth
