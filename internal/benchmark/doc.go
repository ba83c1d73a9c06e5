// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package benchmark provides repeatable load generation for onnxbench.
//
// This package drives a fixed number of inference requests against one
// model and aggregates per-request latencies into summary statistics:
// mean, p50/p95/p99 percentiles, and overall throughput.
//
// # Key Types
//
//   - Inferer: The single-method interface the runner drives
//   - Options: Run parameters (requests, concurrency, warmup, rate)
//   - Runner: Executes a run and collects outcomes
//   - Result: Aggregated statistics with raw latency samples
//   - Storage: JSON result files under ~/.onnxbench/benchmarks/
//
// # Usage
//
// Run a benchmark:
//
//	runner := benchmark.NewRunner(client)
//	result, err := runner.Run(ctx, benchmark.Options{
//	    Model:    "resnet50",
//	    Requests: 500,
//	    Concurrency: 8,
//	    Inputs:   inputs,
//	})
//
// Percentiles use the index method on the sorted samples, so repeated
// runs over identical samples produce identical statistics.
//
// # Measurement Rules
//
//   - Warmup requests are issued first and never counted
//   - Failed requests are counted and reported, never sampled
//   - Throughput is successful requests over the summed in-call latency,
//     so it reflects server service rate rather than client pacing
package benchmark
