// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all CLI commands in onnxbench.
//
// Command handlers always return errors; display and exit-code selection
// happen in one place here.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/history"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the server could not be reached
	ExitNetworkError = 5
	// ExitServerError indicates the server rejected the request
	ExitServerError = 6
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError represents invalid command usage (missing argument, bad flag).
type UsageError struct {
	Message string
	Hint    string
}

func (e *UsageError) Error() string {
	if e.Hint != "" {
		return e.Message + "\nHint: " + e.Hint
	}
	return e.Message
}

// NewUsageError creates a usage error with an optional hint.
func NewUsageError(message, hint string) error {
	return &UsageError{Message: message, Hint: hint}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError displays an error in a consistent format.
// In JSON mode, outputs structured JSON; otherwise a styled message.
func DisplayError(err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		output := map[string]any{
			"success": false,
			"error":   err.Error(),
		}
		var clientErr *client.ClientError
		if errors.As(err, &clientErr) {
			output["error_kind"] = clientErr.Kind.String()
			if clientErr.Status != 0 {
				output["http_status"] = clientErr.Status
			}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(output)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	if errors.Is(err, client.ErrTimeout) {
		return ExitTimeoutError
	}
	if client.IsTransport(err) {
		return ExitNetworkError
	}
	if errors.Is(err, history.ErrNotFound) {
		return ExitNotFoundError
	}

	var clientErr *client.ClientError
	if errors.As(err, &clientErr) && clientErr.Kind == client.KindServer {
		if clientErr.Status == 404 {
			return ExitNotFoundError
		}
		return ExitServerError
	}

	return ExitGeneralError
}
