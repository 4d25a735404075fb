// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all CLI commands.
//
// Every handler returns errors instead of printing and exiting; main
// maps the returned error to an exit code with GetExitCode.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kkshivani18/infralens-tui/internal/backend"
)

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration error
	ExitConfigError = 3
	// ExitAuthError indicates an authentication failure
	ExitAuthError = 4
	// ExitNetworkError indicates the backend was unreachable
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "ingest", "repos")
	Action  string // Action being performed (e.g., "delete")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrUnsupportedFormat creates an error for unsupported output formats.
func ErrUnsupportedFormat(format string, supported []string) error {
	return &ValidationError{
		Field:   "format",
		Value:   format,
		Reason:  "unsupported format",
		Example: fmt.Sprintf("supported formats: %v", supported),
	}
}

// DisplayError displays an error in a consistent format.
// In JSON mode the error goes to stdout as a structured response;
// otherwise it is rendered to stderr.
func DisplayError(err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		NewJSONErrorResponse("", err).Print()
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())

	if errors.Is(err, backend.ErrUnauthorized) {
		fmt.Fprintf(os.Stderr, "%s\n", DimStyle.Render("Run 'infralens auth login' to store a backend token."))
	}
}

// HandleErrorAndExit displays an error and exits with the matching code.
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return ExitAuthError
	case errors.Is(err, backend.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, backend.ErrConnectionFailed):
		return ExitNetworkError
	case errors.Is(err, backend.ErrEmptyInput):
		return ExitUsageError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	}

	return ExitGeneralError
}
