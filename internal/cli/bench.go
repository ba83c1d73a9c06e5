// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// bench.go - Benchmark command for onnxbench.
//
// Command: bench
// Short:   Run a latency/throughput benchmark against one model
//
// The run issues warmup calls first (unmeasured), then the measured
// requests, optionally across parallel workers and under a rate cap.
// Every completed run is recorded in the history database; --save also
// writes the result JSON under ~/.onnxbench/benchmarks/.
//
// Examples:
//   onnxbench bench resnet50
//   onnxbench bench resnet50 -n 500 -c 8 --warmup 10
//   onnxbench bench resnet50 --rate 50 --save
//   onnxbench bench resnet50 --shape input=4x3x224x224 --json
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/onnxbench/internal/benchmark"
	"github.com/jeranaias/onnxbench/internal/config"
	"github.com/jeranaias/onnxbench/internal/history"
)

// HandleBench handles the "bench" command.
func HandleBench(args Args, cfg *config.Config) error {
	name, err := modelName(args, cfg)
	if err != nil {
		return err
	}
	overrides, err := parseShapeOverrides(args.Shapes)
	if err != nil {
		return err
	}

	opts := benchmark.Options{
		Model:       name,
		Requests:    cfg.Bench.Requests,
		Concurrency: cfg.Bench.Concurrency,
		Warmup:      cfg.Bench.Warmup,
		Rate:        cfg.Bench.Rate,
	}
	if args.Requests > 0 {
		opts.Requests = args.Requests
	}
	if args.Concurrency > 0 {
		opts.Concurrency = args.Concurrency
	}
	if args.Warmup > 0 {
		opts.Warmup = args.Warmup
	}
	if args.Rate > 0 {
		opts.Rate = args.Rate
	}

	c := newClient(args, cfg)
	defer c.Close()

	// The benchmark issues many requests; the per-request timeout applies
	// inside the client, so the run itself is not deadline-bounded here.
	ctx, cancel := signalContext()
	defer cancel()

	desc, err := c.GetModel(ctx, name)
	if err != nil {
		return err
	}
	inputs, err := buildInputs(desc, overrides)
	if err != nil {
		return err
	}
	opts.Inputs = inputs

	if !args.Quiet && !args.JSON {
		fmt.Println(RenderTitle("Benchmark: " + name))
		fmt.Println()
		fmt.Println(RenderKV("Server", c.BaseURL()))
		fmt.Println(RenderKV("Requests", fmt.Sprintf("%d", opts.Requests)))
		fmt.Println(RenderKV("Concurrency", fmt.Sprintf("%d", opts.Concurrency)))
		fmt.Println(RenderKV("Warmup", fmt.Sprintf("%d", opts.Warmup)))
		if opts.Rate > 0 {
			fmt.Println(RenderKV("Rate limit", fmt.Sprintf("%.1f req/s", opts.Rate)))
		}
		fmt.Println()
		fmt.Println(DimStyle.Render("Running..."))
	}

	runner := benchmark.NewRunner(c)
	result, err := runner.Run(ctx, opts)
	if err != nil {
		return err
	}

	// Record the run; a history failure must not discard the result.
	if err := recordRun(result); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run in history: %v\n", err)
	}

	var savedPath string
	if args.Save {
		storage, err := benchmark.NewStorage()
		if err == nil {
			savedPath, err = storage.Save(result)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save result: %v\n", err)
		}
	}

	if args.JSON {
		return NewJSONResponse("bench", result).Print()
	}

	printBenchResult(result, savedPath)
	return nil
}

// recordRun appends the run to the history database.
func recordRun(result *benchmark.Result) error {
	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(result)
}

func printBenchResult(result *benchmark.Result, savedPath string) {
	fmt.Println()
	fmt.Println(SectionStyle.Render("Results"))
	fmt.Println(RenderKV("Run ID", result.ID))
	fmt.Println(RenderKV("Duration", benchmark.FormatDuration(result.Duration)))
	fmt.Println(RenderKV("Requests", fmt.Sprintf("%d total, %d ok, %d failed",
		result.TotalRequests, result.SuccessfulRequests, result.FailedRequests)))

	if !result.HasStats() {
		fmt.Println()
		fmt.Println(ErrorStyle.Render("Every request failed; no statistics."))
		printRunErrors(result)
		return
	}

	fmt.Println(RenderKV("Throughput", HighlightStyle.Render(benchmark.FormatThroughput(result.ThroughputRPS))))
	fmt.Println(RenderKV("Avg latency", benchmark.FormatLatency(result.MeanMS)))
	fmt.Println(RenderKV("P50 latency", benchmark.FormatLatency(result.P50MS)))
	fmt.Println(RenderKV("P95 latency", benchmark.FormatLatency(result.P95MS)))
	fmt.Println(RenderKV("P99 latency", benchmark.FormatLatency(result.P99MS)))

	if result.FailedRequests > 0 {
		fmt.Println()
		fmt.Println(WarningStyle.Render(fmt.Sprintf("%d request(s) failed.", result.FailedRequests)))
		printRunErrors(result)
	}
	if savedPath != "" {
		fmt.Println()
		fmt.Println(DimStyle.Render("Saved to " + savedPath))
	}
	fmt.Println()
}

func printRunErrors(result *benchmark.Result) {
	for _, msg := range result.Errors {
		fmt.Println(DimStyle.Render("  " + msg))
	}
}
