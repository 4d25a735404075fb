// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI command
// handlers for infralens.
//
// Commands either run to completion and exit (ingest, repos, auth,
// config, status, export) or hand off to an interactive surface (tui,
// chat). All handlers return errors; main converts them to exit codes
// via GetExitCode.
package cli
