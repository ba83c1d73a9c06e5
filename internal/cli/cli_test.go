// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing, shape override parsing, and
// error-to-exit-code mapping. These are the surfaces scripts depend on.
package cli

import (
	"errors"
	"testing"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/history"
)

// =============================================================================
// ARG PARSER TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"no args defaults to status", []string{}, CmdStatus},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"models", []string{"models"}, CmdModels},
		{"models alias", []string{"list"}, CmdModels},
		{"model", []string{"model", "resnet50"}, CmdModel},
		{"model alias", []string{"describe", "resnet50"}, CmdModel},
		{"reload", []string{"reload", "resnet50"}, CmdReload},
		{"infer", []string{"infer", "resnet50"}, CmdInfer},
		{"bench", []string{"bench", "resnet50"}, CmdBench},
		{"bench alias", []string{"benchmark", "resnet50"}, CmdBench},
		{"history", []string{"history"}, CmdHistory},
		{"history alias", []string{"runs"}, CmdHistory},
		{"metrics", []string{"metrics"}, CmdMetrics},
		{"config", []string{"config"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.args)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, cmd, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{
		"--server", "http://gpu-box:9000",
		"--timeout=120",
		"--json",
		"-q",
		"models",
	})

	if cmd != CmdModels {
		t.Fatalf("cmd = %v, want CmdModels", cmd)
	}
	if args.Server != "http://gpu-box:9000" {
		t.Errorf("Server = %q, want %q", args.Server, "http://gpu-box:9000")
	}
	if args.Timeout != 120 {
		t.Errorf("Timeout = %d, want 120", args.Timeout)
	}
	if !args.JSON {
		t.Error("JSON should be true")
	}
	if !args.Quiet {
		t.Error("Quiet should be true")
	}
}

func TestParseArgs_GlobalFlagsAfterCommand(t *testing.T) {
	// Global flags are recognized regardless of position
	cmd, args := ParseArgs([]string{"model", "resnet50", "--json"})
	if cmd != CmdModel {
		t.Fatalf("cmd = %v, want CmdModel", cmd)
	}
	if args.Model != "resnet50" {
		t.Errorf("Model = %q, want %q", args.Model, "resnet50")
	}
	if !args.JSON {
		t.Error("JSON should be true")
	}
}

func TestParseArgs_InvalidTimeoutIgnored(t *testing.T) {
	_, args := ParseArgs([]string{"--timeout", "abc", "status"})
	if args.Timeout != 0 {
		t.Errorf("Timeout = %d, want 0 for invalid input", args.Timeout)
	}

	_, args = ParseArgs([]string{"--timeout", "-5", "status"})
	if args.Timeout != 0 {
		t.Errorf("Timeout = %d, want 0 for negative input", args.Timeout)
	}
}

func TestParseArgs_InferShapes(t *testing.T) {
	_, args := ParseArgs([]string{
		"infer", "resnet50",
		"--shape", "input=1x3x224x224",
		"--shape=mask=1x224x224",
	})

	if args.Model != "resnet50" {
		t.Errorf("Model = %q, want %q", args.Model, "resnet50")
	}
	if len(args.Shapes) != 2 {
		t.Fatalf("len(Shapes) = %d, want 2", len(args.Shapes))
	}
	if args.Shapes[0] != "input=1x3x224x224" {
		t.Errorf("Shapes[0] = %q", args.Shapes[0])
	}
	if args.Shapes[1] != "mask=1x224x224" {
		t.Errorf("Shapes[1] = %q", args.Shapes[1])
	}
}

func TestParseArgs_InferInputFile(t *testing.T) {
	_, args := ParseArgs([]string{"infer", "resnet50", "--input", "request.json"})
	if args.Options["input"] != "request.json" {
		t.Errorf("Options[input] = %q, want %q", args.Options["input"], "request.json")
	}

	_, args = ParseArgs([]string{"infer", "resnet50", "--input=request.json"})
	if args.Options["input"] != "request.json" {
		t.Errorf("Options[input] = %q, want %q", args.Options["input"], "request.json")
	}
}

func TestParseArgs_BenchFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Args
	}{
		{
			name: "short flags",
			args: []string{"bench", "resnet50", "-n", "500", "-c", "8"},
			want: Args{Model: "resnet50", Requests: 500, Concurrency: 8},
		},
		{
			name: "long flags",
			args: []string{"bench", "resnet50", "--requests", "200", "--concurrency", "4", "--warmup", "10"},
			want: Args{Model: "resnet50", Requests: 200, Concurrency: 4, Warmup: 10},
		},
		{
			name: "equals forms",
			args: []string{"bench", "resnet50", "--requests=300", "--warmup=0", "--rate=25.5"},
			want: Args{Model: "resnet50", Requests: 300, Rate: 25.5},
		},
		{
			name: "save flag",
			args: []string{"bench", "resnet50", "--save"},
			want: Args{Model: "resnet50", Save: true},
		},
		{
			name: "invalid counts ignored",
			args: []string{"bench", "resnet50", "-n", "0", "-c", "nope"},
			want: Args{Model: "resnet50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			if cmd != CmdBench {
				t.Fatalf("cmd = %v, want CmdBench", cmd)
			}
			if args.Model != tt.want.Model {
				t.Errorf("Model = %q, want %q", args.Model, tt.want.Model)
			}
			if args.Requests != tt.want.Requests {
				t.Errorf("Requests = %d, want %d", args.Requests, tt.want.Requests)
			}
			if args.Concurrency != tt.want.Concurrency {
				t.Errorf("Concurrency = %d, want %d", args.Concurrency, tt.want.Concurrency)
			}
			if args.Warmup != tt.want.Warmup {
				t.Errorf("Warmup = %d, want %d", args.Warmup, tt.want.Warmup)
			}
			if args.Rate != tt.want.Rate {
				t.Errorf("Rate = %v, want %v", args.Rate, tt.want.Rate)
			}
			if args.Save != tt.want.Save {
				t.Errorf("Save = %v, want %v", args.Save, tt.want.Save)
			}
		})
	}
}

func TestParseArgs_History(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantSub     string
		wantID      string
		wantLimit   string
		wantConfirm string
	}{
		{
			name:    "bare history defaults to list",
			args:    []string{"history"},
			wantSub: "list",
		},
		{
			name:      "list with limit",
			args:      []string{"history", "list", "--limit", "5"},
			wantSub:   "list",
			wantLimit: "5",
		},
		{
			name:    "show with id",
			args:    []string{"history", "show", "3f8a1c2d"},
			wantSub: "show",
			wantID:  "3f8a1c2d",
		},
		{
			name:    "delete with id",
			args:    []string{"history", "delete", "3f8a1c2d"},
			wantSub: "delete",
			wantID:  "3f8a1c2d",
		},
		{
			name:        "clear with confirm",
			args:        []string{"history", "clear", "--confirm"},
			wantSub:     "clear",
			wantConfirm: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			if cmd != CmdHistory {
				t.Fatalf("cmd = %v, want CmdHistory", cmd)
			}
			if args.Subcommand != tt.wantSub {
				t.Errorf("Subcommand = %q, want %q", args.Subcommand, tt.wantSub)
			}
			if args.Options["id"] != tt.wantID {
				t.Errorf("Options[id] = %q, want %q", args.Options["id"], tt.wantID)
			}
			if args.Options["limit"] != tt.wantLimit {
				t.Errorf("Options[limit] = %q, want %q", args.Options["limit"], tt.wantLimit)
			}
			if args.Options["confirm"] != tt.wantConfirm {
				t.Errorf("Options[confirm] = %q, want %q", args.Options["confirm"], tt.wantConfirm)
			}
		})
	}
}

func TestParseArgs_ConfigSubcommand(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "init"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "init" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "init")
	}
}

// =============================================================================
// SHAPE OVERRIDE TESTS (helpers.go)
// =============================================================================

func TestParseShapeOverrides(t *testing.T) {
	overrides, err := parseShapeOverrides([]string{
		"input=1x3x224x224",
		"mask=1x224",
	})
	if err != nil {
		t.Fatalf("parseShapeOverrides() error = %v", err)
	}

	want := map[string][]int64{
		"input": {1, 3, 224, 224},
		"mask":  {1, 224},
	}
	for name, dims := range want {
		got, ok := overrides[name]
		if !ok {
			t.Fatalf("missing override for %q", name)
		}
		if len(got) != len(dims) {
			t.Fatalf("override %q = %v, want %v", name, got, dims)
		}
		for i := range dims {
			if got[i] != dims[i] {
				t.Errorf("override %q = %v, want %v", name, got, dims)
			}
		}
	}
}

func TestParseShapeOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing equals", "1x3x224x224"},
		{"empty name", "=1x3"},
		{"empty dims", "input="},
		{"non-numeric dim", "input=1xthreex224"},
		{"zero dim", "input=1x0x224"},
		{"negative dim", "input=1x-3x224"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseShapeOverrides([]string{tt.spec}); err == nil {
				t.Errorf("parseShapeOverrides(%q) should fail", tt.spec)
			}
		})
	}
}

func TestSummarizeShape(t *testing.T) {
	tests := []struct {
		name  string
		shape []int64
		want  string
	}{
		{"static", []int64{1, 3, 224, 224}, "1x3x224x224"},
		{"dynamic batch", []int64{-1, 3, 224, 224}, "?x3x224x224"},
		{"scalar", []int64{}, "scalar"},
		{"vector", []int64{10}, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizeShape(tt.shape); got != tt.want {
				t.Errorf("summarizeShape(%v) = %q, want %q", tt.shape, got, tt.want)
			}
		})
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage error", NewUsageError("bad flag", ""), ExitUsageError},
		{"timeout", client.ErrTimeout, ExitTimeoutError},
		{"unreachable", client.ErrUnreachable, ExitNetworkError},
		{"run not found", history.ErrNotFound, ExitNotFoundError},
		{
			"server 404",
			&client.ClientError{Kind: client.KindServer, Status: 404, Message: "model not found"},
			ExitNotFoundError,
		},
		{
			"server 500",
			&client.ClientError{Kind: client.KindServer, Status: 500, Message: "inference failed"},
			ExitServerError,
		},
		{"generic", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("3f8a1c2d-9b7e-4f10-a2d3-5c6e7f8a9b0c"); got != "3f8a1c2d" {
		t.Errorf("shortID() = %q, want %q", got, "3f8a1c2d")
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q, want %q", got, "abc")
	}
}
