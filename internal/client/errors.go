// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client provides the HTTP client for communicating with the ONNX
// inference server API.
package client

import (
	"errors"

	"github.com/jeranaias/onnxbench/internal/tensor"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the inference client.
type ClientError struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status code for server errors, 0 otherwise.
	Status int
	// Code is the server-reported error code from the error envelope.
	Code int
	Cause error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorKind categorizes client errors for handling.
//
// Transport means no response was obtained at all (connection refused, DNS
// failure, deadline exceeded). Protocol means a response arrived but its body
// was structurally invalid; tensor codec failures fall in this bucket.
// Server means the server answered with a non-success status and a
// well-formed error payload.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindProtocol
	KindServer
)

// String returns a stable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Kind: KindTransport, Message: "inference server unreachable"}
	ErrTimeout     = &ClientError{Kind: KindTransport, Message: "request timed out"}
)

// IsTransport reports whether err is a transport-level failure, meaning the
// server could not be reached at all. Callers use this to distinguish
// "server down" from "server rejected the request".
func IsTransport(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind == KindTransport
	}
	return false
}

// IsProtocol reports whether err indicates a structurally invalid response,
// including tensor encoding/decoding failures.
func IsProtocol(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind == KindProtocol
	}
	var encErr *tensor.EncodingError
	var decErr *tensor.DecodingError
	return errors.As(err, &encErr) || errors.As(err, &decErr)
}

// IsServer reports whether err is a structured error response from the
// server (non-success status with an error payload).
func IsServer(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind == KindServer
	}
	return false
}
