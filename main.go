// onnxbench - A benchmarking client for ONNX inference servers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/onnxbench/internal/cli"
	"github.com/jeranaias/onnxbench/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Version and help need no configuration
	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion(args)
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	cfg, loadErr := config.Load()
	if loadErr != nil && !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "Warning: using default config: %v\n", loadErr)
	}
	cli.SetColorEnabled(cfg.Output.Color)

	var err error
	switch cmd {
	case cli.CmdStatus:
		err = cli.HandleStatus(args, cfg)
	case cli.CmdModels:
		err = cli.HandleModels(args, cfg)
	case cli.CmdModel:
		err = cli.HandleModel(args, cfg)
	case cli.CmdReload:
		err = cli.HandleReload(args, cfg)
	case cli.CmdInfer:
		err = cli.HandleInfer(args, cfg)
	case cli.CmdBench:
		err = cli.HandleBench(args, cfg)
	case cli.CmdHistory:
		err = cli.HandleHistory(args, cfg)
	case cli.CmdMetrics:
		err = cli.HandleMetrics(args, cfg)
	case cli.CmdConfig:
		err = cli.HandleConfig(args, cfg)
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}

	if err != nil {
		cli.DisplayError(err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}
