// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
)

// Error variables for the backend API.
var (
	// ErrUnauthorized indicates the request was rejected with HTTP 401.
	// The credential is missing, expired or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the addressed resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrConnectionFailed indicates the request never produced an HTTP
	// response: refused connection, DNS failure, timeout.
	ErrConnectionFailed = errors.New("backend unreachable")

	// ErrEmptyInput indicates a request was rejected locally before any
	// network activity because a required field was empty or whitespace.
	ErrEmptyInput = errors.New("empty input")
)

// RequestError is returned for HTTP error statuses that have no
// dedicated sentinel. Status carries the raw code for diagnostics.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// IsRetryable reports whether an error is a transient failure a caller
// could reasonably try again. The client itself never retries.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConnectionFailed) {
		return true
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status >= 500 && reqErr.Status < 600
	}
	return false
}
