// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit-code mapping for the clause CLI.
//
// RELIABILITY: Consistent exit codes for scripting and automation
//
// Every command funnels its terminal error through GetExitCode so that
// shell scripts can distinguish "bad flags" from "bad key" from "network
// down" without parsing stderr.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frostbitlabs/clause/internal/anthropic"
	"github.com/frostbitlabs/clause/internal/commands"
	"github.com/frostbitlabs/clause/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

// Exit codes returned by the clause binary.
const (
	// ExitSuccess indicates successful completion
	ExitSuccess = 0

	// ExitError indicates a general, uncategorized failure
	ExitError = 1

	// ExitUsageError indicates invalid arguments or flags
	ExitUsageError = 2

	// ExitConfigError indicates a configuration problem
	ExitConfigError = 3

	// ExitAuthError indicates a missing or rejected API key
	ExitAuthError = 4

	// ExitRateLimitError indicates the API refused the request for load
	ExitRateLimitError = 5

	// ExitNetworkError indicates a network-level failure
	ExitNetworkError = 6

	// ExitTimeoutError indicates a request deadline expired
	ExitTimeoutError = 7

	// ExitInterrupted indicates the user cancelled the operation
	ExitInterrupted = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is an error with an explicit exit code attached. Commands
// return it when they already know how the failure should be categorized.
type CommandError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CommandError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// NewCommandError creates a CommandError with the given code and message.
func NewCommandError(code int, message string) *CommandError {
	return &CommandError{Code: code, Message: message}
}

// UsageError creates an error that maps to ExitUsageError.
func UsageError(format string, args ...interface{}) *CommandError {
	return &CommandError{Code: ExitUsageError, Message: fmt.Sprintf(format, args...)}
}

// ConfigError wraps a configuration failure.
func ConfigError(message string, cause error) *CommandError {
	return &CommandError{Code: ExitConfigError, Message: message, Cause: cause}
}

// ErrMissingArgument reports a required argument that was not provided.
func ErrMissingArgument(name string) *CommandError {
	return UsageError("missing required argument: %s", name)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode maps an error to the exit code the process should return.
// Typed errors are checked first; the message-substring fallbacks at the
// bottom catch errors that arrive as plain strings from lower layers.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}

	var valErr *commands.ValidationError
	if errors.As(err, &valErr) {
		return ExitUsageError
	}

	switch {
	case errors.Is(err, config.ErrNoAPIKey):
		return ExitAuthError
	case anthropic.IsAuthError(err):
		return ExitAuthError
	case anthropic.IsRateLimited(err) || anthropic.IsOverloaded(err):
		return ExitRateLimitError
	case anthropic.IsTimeout(err):
		return ExitTimeoutError
	case anthropic.IsConnectionError(err):
		return ExitNetworkError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	}

	var valErrs config.ValidateErrors
	if errors.As(err, &valErrs) {
		return ExitConfigError
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return ExitAuthError
	case strings.Contains(msg, "config"):
		return ExitConfigError
	case strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout"):
		return ExitTimeoutError
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host"):
		return ExitNetworkError
	case strings.Contains(msg, "usage:") || strings.Contains(msg, "unknown flag"):
		return ExitUsageError
	}

	return ExitError
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError prints an error to stderr with a hint when one applies.
func DisplayError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err.Error())

	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Hint: "+hint))
	}
}

// errorHint returns a one-line recovery suggestion for common failures.
func errorHint(err error) string {
	switch GetExitCode(err) {
	case ExitAuthError:
		return "set ANTHROPIC_API_KEY, run 'clause setup', or use /setkey in chat"
	case ExitRateLimitError:
		return "the API is busy; wait a moment and try again"
	case ExitNetworkError:
		return "check your network connection"
	case ExitConfigError:
		return "run 'clause config list' to inspect the current configuration"
	case ExitUsageError:
		return "run 'clause help' for usage"
	}
	return ""
}

// HandleErrorAndExit prints the error and exits with its mapped code.
func HandleErrorAndExit(err error) {
	if err == nil {
		os.Exit(ExitSuccess)
	}
	DisplayError(err)
	os.Exit(GetExitCode(err))
}
