// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for onnxbench command handlers.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/config"
	"github.com/jeranaias/onnxbench/internal/tensor"
)

// newClient builds an inference client from config with CLI overrides applied.
func newClient(args Args, cfg *config.Config) *client.Client {
	clientCfg := &client.Config{
		BaseURL: cfg.Server.URL,
		Timeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
	}
	if args.Server != "" {
		clientCfg.BaseURL = args.Server
	}
	if args.Timeout > 0 {
		clientCfg.Timeout = time.Duration(args.Timeout) * time.Second
	}
	return client.NewWithConfig(clientCfg)
}

// commandContext returns a context bounded by the effective request timeout,
// with headroom for multi-request commands.
func commandContext(args Args, cfg *config.Config) (context.Context, context.CancelFunc) {
	secs := cfg.Server.TimeoutSecs
	if args.Timeout > 0 {
		secs = args.Timeout
	}
	return context.WithTimeout(context.Background(), time.Duration(secs)*time.Second)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM, so a
// long benchmark run can be interrupted and still report partial results
// upstream as a cancellation.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// modelName resolves the target model from args or config.
func modelName(args Args, cfg *config.Config) (string, error) {
	if args.Model != "" {
		return args.Model, nil
	}
	if cfg.DefaultModel != "" {
		return cfg.DefaultModel, nil
	}
	return "", NewUsageError(
		"model name is required",
		"pass it as an argument (onnxbench bench resnet50) or set default_model in the config",
	)
}

// parseShapeOverrides parses repeated --shape NAME=DIMS flags, where DIMS is
// an "x"-separated dimension list, e.g. input=1x3x224x224.
func parseShapeOverrides(specs []string) (map[string][]int64, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	overrides := make(map[string][]int64, len(specs))
	for _, spec := range specs {
		name, dims, ok := strings.Cut(spec, "=")
		if !ok || name == "" || dims == "" {
			return nil, NewUsageError(
				fmt.Sprintf("invalid shape %q", spec),
				"expected NAME=DIMS, e.g. --shape input=1x3x224x224",
			)
		}
		shape, err := parseDims(dims)
		if err != nil {
			return nil, NewUsageError(
				fmt.Sprintf("invalid shape %q: %v", spec, err),
				"dimensions are positive integers separated by 'x'",
			)
		}
		overrides[name] = shape
	}
	return overrides, nil
}

func parseDims(dims string) ([]int64, error) {
	parts := strings.Split(strings.ToLower(dims), "x")
	shape := make([]int64, 0, len(parts))
	for _, part := range parts {
		var dim int64
		if _, err := fmt.Sscanf(part, "%d", &dim); err != nil {
			return nil, fmt.Errorf("bad dimension %q", part)
		}
		if dim < 1 {
			return nil, fmt.Errorf("dimension %d must be positive", dim)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}

// buildInputs resolves the input tensors for a model: random values for
// every declared input, with shape overrides taking precedence over the
// model's signature and dynamic dimensions concretized to 1.
func buildInputs(desc *client.ModelDescriptor, overrides map[string][]int64) (map[string]tensor.Tensor, error) {
	inputs := make(map[string]tensor.Tensor, len(desc.Inputs))
	for _, spec := range desc.Inputs {
		shape, ok := overrides[spec.Name]
		if !ok {
			shape = tensor.ConcretizeShape(spec.Shape)
		}
		dtype, err := tensor.ParseDType(spec.DType)
		if err != nil {
			// Unknown dtype in the signature: fall back to float32 inputs
			dtype = tensor.Float32
		}
		t, err := tensor.RandomOfType(shape, dtype)
		if err != nil {
			return nil, fmt.Errorf("failed to build input %q: %w", spec.Name, err)
		}
		inputs[spec.Name] = t
	}
	for name := range overrides {
		if _, ok := inputs[name]; !ok {
			return nil, NewUsageError(
				fmt.Sprintf("model has no input named %q", name),
				"check the input names with: onnxbench model "+desc.Name,
			)
		}
	}
	return inputs, nil
}

// summarizeShape renders a shape like [1 3 224 224] as 1x3x224x224, with
// dynamic dimensions shown as "?".
func summarizeShape(shape []int64) string {
	if len(shape) == 0 {
		return "scalar"
	}
	parts := make([]string, len(shape))
	for i, dim := range shape {
		if dim < 0 {
			parts[i] = "?"
		} else {
			parts[i] = fmt.Sprintf("%d", dim)
		}
	}
	return strings.Join(parts, "x")
}
