// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command for onnxbench.
//
// Command: config
// Short:   Show or initialize ~/.onnxbench/config.toml
//
// Subcommands:
//   show (default)    Print the effective configuration
//   path              Print the config file path
//   init              Write a default config file
//
// Examples:
//   onnxbench config
//   onnxbench config path
//   onnxbench config init
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/onnxbench/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args, cfg *config.Config) error {
	switch args.Subcommand {
	case "show", "":
		return configShow(args, cfg)
	case "path":
		return configPath(args)
	case "init":
		return configInit(args)
	default:
		return NewUsageError(
			fmt.Sprintf("unknown config subcommand %q", args.Subcommand),
			"valid subcommands: show, path, init",
		)
	}
}

func configShow(args Args, cfg *config.Config) error {
	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	path, _ := config.ConfigPath()
	fmt.Println(RenderTitle("Configuration"))
	fmt.Println()
	fmt.Println(SectionStyle.Render("Server"))
	fmt.Println(RenderKV("URL", cfg.Server.URL))
	fmt.Println(RenderKV("Timeout", fmt.Sprintf("%ds", cfg.Server.TimeoutSecs)))
	fmt.Println()
	fmt.Println(SectionStyle.Render("Benchmark defaults"))
	fmt.Println(RenderKV("Requests", fmt.Sprintf("%d", cfg.Bench.Requests)))
	fmt.Println(RenderKV("Concurrency", fmt.Sprintf("%d", cfg.Bench.Concurrency)))
	fmt.Println(RenderKV("Warmup", fmt.Sprintf("%d", cfg.Bench.Warmup)))
	if cfg.Bench.Rate > 0 {
		fmt.Println(RenderKV("Rate", fmt.Sprintf("%.1f req/s", cfg.Bench.Rate)))
	} else {
		fmt.Println(RenderKV("Rate", "unlimited"))
	}
	fmt.Println()
	fmt.Println(SectionStyle.Render("Output"))
	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = DimStyle.Render("(none)")
	}
	fmt.Println(RenderKV("Default model", defaultModel))
	fmt.Println(RenderKV("Color", fmt.Sprintf("%t", cfg.Output.Color)))
	fmt.Println()
	fmt.Println(DimStyle.Render("File: " + path))
	return nil
}

func configPath(args Args) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Print()
	}
	fmt.Println(path)
	return nil
}

func configInit(args Args) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return NewUsageError(
			fmt.Sprintf("config file already exists at %s", path),
			"edit it directly, or delete it first to regenerate defaults",
		)
	}

	if err := config.Save(config.Default()); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"created": path}).Print()
	}
	fmt.Printf("%s wrote default config to %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}
