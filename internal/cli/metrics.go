// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// metrics.go - Server metrics command for onnxbench.
//
// Command: metrics
// Short:   Dump the server's Prometheus metrics exposition
//
// The metrics body is an opaque text blob as far as the client is
// concerned; it is passed through verbatim so it can be piped into
// promtool or grep.
//
// Examples:
//   onnxbench metrics
//   onnxbench metrics --json
//   onnxbench metrics | grep inference_latency
package cli

import (
	"fmt"

	"github.com/jeranaias/onnxbench/internal/config"
)

// HandleMetrics handles the "metrics" command.
func HandleMetrics(args Args, cfg *config.Config) error {
	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	body, err := c.Metrics(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("metrics", map[string]string{"metrics": body}).Print()
	}

	fmt.Print(body)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
