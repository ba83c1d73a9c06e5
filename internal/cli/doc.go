// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for onnxbench.
//
// This package implements all CLI commands for the onnxbench tool,
// covering server inspection, single-shot inference, and benchmark runs
// against an ONNX inference server.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - JSONResponse: Machine-readable output envelope for the --json flag
//
// # Usage
//
// Parse and execute commands:
//
//	args := cli.Parse()
//	switch args.Cmd {
//	case cli.CmdStatus:
//	    return cli.HandleStatus(args, cfg)
//	case cli.CmdBench:
//	    return cli.HandleBench(args, cfg)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Server commands:
//   - status: Health, readiness, and server info
//   - models: List loaded models
//   - model: Describe one model's inputs and outputs
//   - reload: Reload a model from disk
//   - metrics: Dump the Prometheus metrics exposition
//
// Workload commands:
//   - infer: Run a single inference with synthetic inputs
//   - bench: Run a latency/throughput benchmark
//   - history: Browse recorded benchmark runs
//
// All commands support --json for scripting and machine consumption.
package cli
