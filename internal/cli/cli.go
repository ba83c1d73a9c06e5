// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for onnxbench.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdStatus Command = iota
	CmdModels
	CmdModel
	CmdReload
	CmdInfer
	CmdBench
	CmdHistory
	CmdMetrics
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // --server URL override
	Timeout int    // --timeout seconds override
	Quiet   bool
	JSON    bool // Output in JSON format

	// Command-specific
	Model      string // Positional model name or --model
	Subcommand string

	// Bench flags
	Requests    int
	Concurrency int
	Warmup      int
	Rate        float64
	Shapes      []string // --shape name=1x3x224x224 (repeatable)
	Save        bool     // --save persists the result to disk

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options
	Options map[string]string
}

const usageText = `onnxbench - benchmarking client for ONNX inference servers

Onnxbench talks to an ONNX model-serving HTTP API. It inspects the server,
runs single inferences with synthetic inputs, and drives repeatable latency
and throughput benchmarks.

Usage:
  onnxbench status                 Show server health, readiness and info
  onnxbench models                 List loaded models
  onnxbench model <name>           Show one model's input/output signature
  onnxbench reload <name>          Reload a model from disk
  onnxbench infer <name>           Run one inference with random inputs
  onnxbench bench <name>           Run a benchmark against a model
  onnxbench history [subcommand]   Browse recorded benchmark runs
  onnxbench metrics                Dump the server's raw metrics
  onnxbench config [show|init]     Configuration
  onnxbench version                Show version information
  onnxbench help                   Show this help

Global Flags:
  --server URL          Inference server base URL (default from config)
  --timeout SECS        Per-request timeout in seconds
  --model NAME          Model name (alternative to positional argument)
  --json                Output in JSON format
  -q, --quiet           Suppress decorative output

Infer Flags:
  --shape NAME=DIMS     Override an input shape, e.g. --shape input=1x3x224x224
                        (repeatable; dynamic dims default to 1)
  --input FILE          Read input tensors from a JSON file instead of
                        generating random ones

Bench Flags:
  -n, --requests N      Measured requests (default 100)
  -c, --concurrency N   Parallel workers (default 1)
  --warmup N            Unmeasured warmup requests (default 5)
  --rate R              Request rate limit in req/s (default unlimited)
  --shape NAME=DIMS     Override an input shape (repeatable)
  --save                Also write the result JSON to ~/.onnxbench/benchmarks/

History Commands:
  onnxbench history                 List recent runs (default 20)
  onnxbench history list --limit N  List last N runs
  onnxbench history show <id>       Show one run in full
  onnxbench history delete <id>     Delete one run
  onnxbench history clear --confirm Delete all runs

Examples:
  onnxbench status
  onnxbench model resnet50
  onnxbench infer resnet50 --shape input=1x3x224x224
  onnxbench bench resnet50 -n 500 -c 8 --warmup 10 --save
  onnxbench bench resnet50 --rate 50 --json
  onnxbench history show 3f8a... --json

Environment:
  ONNXBENCH_SERVER      Server URL override
  ONNXBENCH_TIMEOUT     Timeout override (seconds)
  ONNXBENCH_MODEL       Default model
  NO_COLOR              Disable colored output

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("onnxbench version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for tests.
func ParseArgs(args []string) (Command, Args) {
	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, show status
	if len(remaining) == 0 {
		return CmdStatus, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "status", "s":
		return CmdStatus, parsedArgs

	case "models", "list":
		return CmdModels, parsedArgs

	case "model", "describe":
		if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
			parsedArgs.Model = remaining[0]
		}
		return CmdModel, parsedArgs

	case "reload":
		if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
			parsedArgs.Model = remaining[0]
		}
		return CmdReload, parsedArgs

	case "infer":
		parseInferArgs(&parsedArgs, remaining)
		return CmdInfer, parsedArgs

	case "bench", "benchmark":
		parseBenchArgs(&parsedArgs, remaining)
		return CmdBench, parsedArgs

	case "history", "runs":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "metrics":
		return CmdMetrics, parsedArgs

	case "config":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsedArgs.Server = args[i]
			}
		case "--timeout":
			if i+1 < len(args) {
				i++
				if n, err := strconv.Atoi(args[i]); err == nil && n > 0 {
					parsedArgs.Timeout = n
				}
			}
		case "--model", "-m":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--server="):
				parsedArgs.Server = strings.TrimPrefix(arg, "--server=")
			case strings.HasPrefix(arg, "--timeout="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--timeout=")); err == nil && n > 0 {
					parsedArgs.Timeout = n
				}
			case strings.HasPrefix(arg, "--model="):
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseInferArgs parses infer command specific arguments.
func parseInferArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "--shape":
			if i+1 < len(remaining) {
				i++
				args.Shapes = append(args.Shapes, remaining[i])
			}
		case "--input":
			if i+1 < len(remaining) {
				i++
				args.Options["input"] = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--shape="):
				args.Shapes = append(args.Shapes, strings.TrimPrefix(arg, "--shape="))
			case strings.HasPrefix(arg, "--input="):
				args.Options["input"] = strings.TrimPrefix(arg, "--input=")
			case !strings.HasPrefix(arg, "-") && args.Model == "":
				args.Model = arg
			}
		}
	}
}

// parseBenchArgs parses bench command specific arguments.
func parseBenchArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-n", "--requests":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Requests = n
				}
			}
		case "-c", "--concurrency":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Concurrency = n
				}
			}
		case "--warmup":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n >= 0 {
					args.Warmup = n
				}
			}
		case "--rate":
			if i+1 < len(remaining) {
				i++
				if r, err := strconv.ParseFloat(remaining[i], 64); err == nil && r > 0 {
					args.Rate = r
				}
			}
		case "--shape":
			if i+1 < len(remaining) {
				i++
				args.Shapes = append(args.Shapes, remaining[i])
			}
		case "--save":
			args.Save = true
		default:
			switch {
			case strings.HasPrefix(arg, "--requests="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--requests=")); err == nil && n > 0 {
					args.Requests = n
				}
			case strings.HasPrefix(arg, "--concurrency="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--concurrency=")); err == nil && n > 0 {
					args.Concurrency = n
				}
			case strings.HasPrefix(arg, "--warmup="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--warmup=")); err == nil && n >= 0 {
					args.Warmup = n
				}
			case strings.HasPrefix(arg, "--rate="):
				if r, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--rate="), 64); err == nil && r > 0 {
					args.Rate = r
				}
			case strings.HasPrefix(arg, "--shape="):
				args.Shapes = append(args.Shapes, strings.TrimPrefix(arg, "--shape="))
			case !strings.HasPrefix(arg, "-") && args.Model == "":
				args.Model = arg
			}
		}
	}
}

// parseHistoryArgs parses history command specific arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "--limit":
			if i+1 < len(remaining) {
				i++
				args.Options["limit"] = remaining[i]
			}
		case "--confirm":
			args.Options["confirm"] = "true"
		default:
			switch {
			case strings.HasPrefix(arg, "--limit="):
				args.Options["limit"] = strings.TrimPrefix(arg, "--limit=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case arg == "--model" && i+1 < len(remaining):
				i++
				args.Model = remaining[i]
			case !strings.HasPrefix(arg, "-"):
				if args.Subcommand == "" {
					args.Subcommand = arg
				} else {
					// ID argument for show/delete
					args.Options["id"] = arg
				}
			}
		}
	}

	if args.Subcommand == "" {
		args.Subcommand = "list"
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
