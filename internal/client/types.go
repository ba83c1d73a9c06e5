// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"encoding/json"

	"github.com/jeranaias/onnxbench/internal/tensor"
)

// =============================================================================
// SERVER RESPONSES
// =============================================================================

// ServerInfo is the response from GET /.
type ServerInfo struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	UptimeSeconds   int64    `json:"uptime_seconds"`
	ModelsLoaded    int      `json:"models_loaded"`
	BatchingEnabled bool     `json:"batching_enabled"`
	Providers       []string `json:"providers"`
}

// ModelSummary is one entry of the GET /v1/models listing.
type ModelSummary struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Path        string   `json:"path"`
	LoadedAt    string   `json:"loaded_at"`
	InputNames  []string `json:"input_names"`
	OutputNames []string `json:"output_names"`
}

// listModelsResponse wraps the model listing.
type listModelsResponse struct {
	Models []ModelSummary `json:"models"`
}

// TensorSpec describes one declared model input or output. Shape entries may
// be -1 to denote a dynamic dimension; callers substitute a concrete value
// before building a request tensor (see tensor.ConcretizeShape).
type TensorSpec struct {
	Name  string  `json:"name"`
	Shape []int64 `json:"shape"`
	DType string  `json:"dtype"`
}

// ModelDescriptor is the response from GET /v1/models/{name}. It is a
// read-only snapshot of the server's view of the model.
type ModelDescriptor struct {
	Name     string       `json:"name"`
	Version  string       `json:"version"`
	Path     string       `json:"path"`
	LoadedAt string       `json:"loaded_at"`
	Inputs   []TensorSpec `json:"inputs"`
	Outputs  []TensorSpec `json:"outputs"`
}

// ReloadResult is the response from POST /v1/models/{name}/reload.
type ReloadResult struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// Timing carries optional server-reported execution times for an inference.
type Timing struct {
	InferenceMS float64 `json:"inference_ms"`
	QueueMS     float64 `json:"queue_ms"`
}

// InferenceResponse holds the decoded outputs of one inference call. Timing
// is nil when the server does not report it.
type InferenceResponse struct {
	ModelName string
	Outputs   map[string]tensor.Tensor
	Timing    *Timing
}

// =============================================================================
// WIRE ENVELOPES
// =============================================================================

// inferRequest is the body of POST /v1/models/{name}/infer.
type inferRequest struct {
	Inputs map[string]tensor.Wire `json:"inputs"`
}

// inferResponse is the raw body of a successful inference.
type inferResponse struct {
	ModelName string                 `json:"model_name"`
	Outputs   map[string]tensor.Wire `json:"outputs"`
	Timing    *Timing                `json:"timing"`
}

// errorEnvelope is the server's structured error payload:
// {"error": {"code": 404, "message": "...", "detail": "..."}}.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}

// decodeBody decodes a JSON response body into out, preserving numeric
// precision for tensor payloads.
func decodeBody(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
