// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// REPOSITORY TYPE
// =============================================================================

// FallbackRepoName is used when no name can be derived from a URL.
const FallbackRepoName = "repository"

// Repository is an ingested codebase known to the backend.
type Repository struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceURL  string    `json:"source_url,omitempty"`
	FileCount  int       `json:"file_count,omitempty"`
	ChunkCount int       `json:"chunk_count,omitempty"`
	IngestedAt time.Time `json:"ingested_at,omitempty"`
}

// DeriveRepoName extracts a display name from a repository URL: the
// segment after the last slash with a trailing ".git" stripped. URLs
// that yield nothing (empty, trailing slash) fall back to
// FallbackRepoName. The derivation is purely lexical; the URL is not
// parsed or validated here.
func DeriveRepoName(rawURL string) string {
	segment := rawURL
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		segment = rawURL[i+1:]
	}
	segment = strings.TrimSuffix(segment, ".git")
	if segment == "" {
		return FallbackRepoName
	}
	return segment
}
