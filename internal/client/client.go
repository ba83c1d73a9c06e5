// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/onnxbench/internal/tensor"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the inference client.
type Config struct {
	// BaseURL is the inference server base URL (default: http://127.0.0.1:8080)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for each request (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://127.0.0.1:8080",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the ONNX inference server. One HTTP
// session is acquired per Client and reused across calls; each operation
// performs exactly one round trip with no hidden retries. Retry policy, if
// wanted, belongs to the caller.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	c := client.New()
//	info, err := c.Info(ctx)
//	if client.IsTransport(err) {
//	    log.Fatal("server not reachable:", err)
//	}
type Client struct {
	config     *Config
	httpClient *http.Client
}

// New creates a client with default configuration.
func New() *Client {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a client with custom configuration.
func NewWithConfig(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8080"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// WithHTTPClient substitutes the underlying HTTP client. Used by tests to
// inject a transport without a live server.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Close releases the client's idle connections. The client must not be used
// after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// =============================================================================
// HEALTH AND STATUS
// =============================================================================

// Health checks server liveness via GET /health. A transport failure is
// surfaced distinctly (IsTransport) so callers can detect an unreachable
// server.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	body, status, err := c.get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "health check failed")
	}

	var result map[string]any
	if err := decodeBody(body, &result); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode health response", Cause: err}
	}
	return result, nil
}

// Ready checks server readiness via GET /ready. The server answers 503 while
// no models are loaded; any status is tolerated and whatever body is present
// is returned alongside the readiness flag.
func (c *Client) Ready(ctx context.Context) (map[string]any, bool, error) {
	body, status, err := c.get(ctx, "/ready")
	if err != nil {
		return nil, false, err
	}

	result := map[string]any{}
	// A malformed /ready body is not an error; readiness comes from the
	// status code.
	_ = decodeBody(body, &result)

	return result, status == http.StatusOK, nil
}

// Info returns server metadata via GET /.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	body, status, err := c.get(ctx, "/")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "info request failed")
	}

	var info ServerInfo
	if err := decodeBody(body, &info); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode server info", Cause: err}
	}
	return &info, nil
}

// Metrics returns the raw Prometheus exposition text from GET /metrics.
// The blob is returned unparsed.
func (c *Client) Metrics(ctx context.Context) (string, error) {
	body, status, err := c.get(ctx, "/metrics")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", c.serverError(status, body, "metrics request failed")
	}
	return string(body), nil
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves all loaded models via GET /v1/models. An empty list
// is a valid result, not an error.
func (c *Client) ListModels(ctx context.Context) ([]ModelSummary, error) {
	body, status, err := c.get(ctx, "/v1/models")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "failed to list models")
	}

	var result listModelsResponse
	if err := decodeBody(body, &result); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode model list", Cause: err}
	}
	if result.Models == nil {
		result.Models = []ModelSummary{}
	}
	return result.Models, nil
}

// GetModel retrieves a model's descriptor via GET /v1/models/{name}. An
// unknown model surfaces the server's 404 error payload (IsServer), never a
// default descriptor.
func (c *Client) GetModel(ctx context.Context, name string) (*ModelDescriptor, error) {
	body, status, err := c.get(ctx, "/v1/models/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "failed to get model "+name)
	}

	var desc ModelDescriptor
	if err := decodeBody(body, &desc); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode model descriptor", Cause: err}
	}
	if desc.Name == "" {
		desc.Name = name
	}
	return &desc, nil
}

// ReloadModel hot-reloads a model via POST /v1/models/{name}/reload. Exactly
// one request is issued regardless of how long the server-side reload takes.
func (c *Client) ReloadModel(ctx context.Context, name string) (*ReloadResult, error) {
	body, status, err := c.post(ctx, "/v1/models/"+url.PathEscape(name)+"/reload", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "failed to reload model "+name)
	}

	var result ReloadResult
	if err := decodeBody(body, &result); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode reload result", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// INFERENCE
// =============================================================================

// Infer runs one inference via POST /v1/models/{name}/infer. Every input
// tensor is encoded through the wire codec; every returned output is decoded
// back, including zero-length tensors. The full set of output names is
// preserved.
func (c *Client) Infer(ctx context.Context, name string, inputs map[string]tensor.Tensor) (*InferenceResponse, error) {
	req := inferRequest{Inputs: make(map[string]tensor.Wire, len(inputs))}
	for inputName, t := range inputs {
		wire, err := tensor.Encode(t)
		if err != nil {
			return nil, &ClientError{
				Kind:    KindProtocol,
				Message: fmt.Sprintf("failed to encode input %q", inputName),
				Cause:   err,
			}
		}
		req.Inputs[inputName] = wire
	}

	body, status, err := c.post(ctx, "/v1/models/"+url.PathEscape(name)+"/infer", req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.serverError(status, body, "inference failed for model "+name)
	}

	var raw inferResponse
	if err := decodeBody(body, &raw); err != nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "failed to decode inference response", Cause: err}
	}
	if raw.Outputs == nil {
		return nil, &ClientError{Kind: KindProtocol, Message: "inference response missing outputs"}
	}

	resp := &InferenceResponse{
		ModelName: raw.ModelName,
		Outputs:   make(map[string]tensor.Tensor, len(raw.Outputs)),
		Timing:    raw.Timing,
	}
	if resp.ModelName == "" {
		resp.ModelName = name
	}

	for outputName, wire := range raw.Outputs {
		// Older servers omit dtype on output tensors; they emit float data
		// by default.
		if wire.DType == "" {
			wire.DType = tensor.Float32.String()
		}
		t, err := tensor.Decode(wire)
		if err != nil {
			return nil, &ClientError{
				Kind:    KindProtocol,
				Message: fmt.Sprintf("failed to decode output %q", outputName),
				Cause:   err,
			}
		}
		resp.Outputs[outputName] = t
	}

	return resp, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// get performs one GET round trip and returns the body and status code.
// Transport-level failures come back as ClientError with KindTransport.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// post performs one POST round trip with an optional JSON body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, &ClientError{Kind: KindProtocol, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, 0, &ClientError{Kind: KindTransport, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, 0, &ClientError{Kind: KindTransport, Message: "request cancelled", Cause: err}
		}
		// Sentinel returned directly so errors.Is works, like ErrTimeout.
		return nil, 0, ErrUnreachable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &ClientError{Kind: KindTransport, Message: "failed to read response body", Cause: err}
	}

	return data, resp.StatusCode, nil
}

// serverError builds a ClientError from a non-success response. The server's
// structured error envelope is used when present; otherwise the raw status
// line is reported as a protocol error.
func (c *Client) serverError(status int, body []byte, fallback string) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg := envelope.Error.Message
		if envelope.Error.Detail != "" {
			msg += ": " + envelope.Error.Detail
		}
		return &ClientError{
			Kind:    KindServer,
			Message: msg,
			Status:  status,
			Code:    envelope.Error.Code,
		}
	}
	return &ClientError{
		Kind:    KindProtocol,
		Message: fmt.Sprintf("%s: unexpected status %d", fallback, status),
		Status:  status,
	}
}
