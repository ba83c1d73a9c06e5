// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for onnxbench.
//
// Command: status
// Short:   Display server health, readiness and info
// Aliases: s
//
// Examples:
//   onnxbench status               Show server status
//   onnxbench status --json        Status in JSON format
//   onnxbench --server http://gpu-box:8080 status
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/config"
)

// statusData is the JSON payload for the status command.
type statusData struct {
	Server          string   `json:"server"`
	Healthy         bool     `json:"healthy"`
	Ready           bool     `json:"ready"`
	Name            string   `json:"name,omitempty"`
	Version         string   `json:"version,omitempty"`
	UptimeSeconds   int64    `json:"uptime_seconds,omitempty"`
	ModelsLoaded    int      `json:"models_loaded"`
	BatchingEnabled bool     `json:"batching_enabled"`
	Providers       []string `json:"providers,omitempty"`
}

// HandleStatus handles the "status" command. Health and readiness are
// probed separately so a booting server shows "up but not ready" rather
// than an error.
func HandleStatus(args Args, cfg *config.Config) error {
	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	data := statusData{Server: c.BaseURL()}

	if _, err := c.Health(ctx); err != nil {
		if args.JSON {
			resp := NewJSONResponse("status", data)
			resp.Success = false
			return resp.Print()
		}
		fmt.Println(RenderTitle("onnxbench Status"))
		fmt.Println(RenderKV("Server", data.Server))
		fmt.Println(RenderKV("Health", RenderStatus(false, "up", "unreachable")))
		return err
	}
	data.Healthy = true

	_, ready, err := c.Ready(ctx)
	if err != nil {
		return err
	}
	data.Ready = ready

	info, err := c.Info(ctx)
	if err != nil {
		return err
	}
	data.Name = info.Name
	data.Version = info.Version
	data.UptimeSeconds = info.UptimeSeconds
	data.ModelsLoaded = info.ModelsLoaded
	data.BatchingEnabled = info.BatchingEnabled
	data.Providers = info.Providers

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	printStatus(data, info)
	return nil
}

func printStatus(data statusData, info *client.ServerInfo) {
	fmt.Println(RenderTitle("onnxbench Status"))
	fmt.Println()

	fmt.Println(SectionStyle.Render("Server"))
	fmt.Println(RenderKV("URL", data.Server))
	fmt.Println(RenderKV("Health", RenderStatus(true, "up", "down")))
	fmt.Println(RenderKV("Ready", RenderStatus(data.Ready, "yes", "no (models still loading)")))
	if info.Name != "" {
		fmt.Println(RenderKV("Name", info.Name))
	}
	if info.Version != "" {
		fmt.Println(RenderKV("Version", info.Version))
	}
	fmt.Println(RenderKV("Uptime", formatUptime(data.UptimeSeconds)))

	fmt.Println(SectionStyle.Render("Models"))
	fmt.Println(RenderKV("Loaded", fmt.Sprintf("%d", data.ModelsLoaded)))
	fmt.Println(RenderKV("Batching", RenderStatus(data.BatchingEnabled, "enabled", "disabled")))
	if len(data.Providers) > 0 {
		fmt.Println(RenderKV("Providers", strings.Join(data.Providers, ", ")))
	}
	fmt.Println()
}

// formatUptime renders seconds as a compact "2d 3h 4m" string.
func formatUptime(secs int64) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	return strings.Join(parts, " ")
}
