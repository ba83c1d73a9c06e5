// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Benchmark history command for onnxbench.
//
// Command: history
// Short:   Browse benchmark runs recorded in ~/.onnxbench/history.db
//
// Subcommands:
//   list (default)    List recent runs
//     --limit N       Number of runs to show (default 20)
//     --model NAME    Only runs for one model
//   show <id>         Show one run in full
//   delete <id>       Delete one run
//   clear --confirm   Delete all runs
//
// Examples:
//   onnxbench history
//   onnxbench history list --model resnet50 --limit 5
//   onnxbench history show 3f8a1c... --json
//   onnxbench history clear --confirm
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/onnxbench/internal/benchmark"
	"github.com/jeranaias/onnxbench/internal/config"
	"github.com/jeranaias/onnxbench/internal/history"
	"github.com/jeranaias/onnxbench/internal/util"
)

// defaultHistoryLimit bounds "history list" output.
const defaultHistoryLimit = 20

// HandleHistory handles the "history" command.
func HandleHistory(args Args, cfg *config.Config) error {
	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	switch args.Subcommand {
	case "list", "":
		return historyList(args, store)
	case "show":
		return historyShow(args, store)
	case "delete":
		return historyDelete(args, store)
	case "clear":
		return historyClear(args, store)
	default:
		return NewUsageError(
			fmt.Sprintf("unknown history subcommand %q", args.Subcommand),
			"valid subcommands: list, show, delete, clear",
		)
	}
}

func historyList(args Args, store *history.Store) error {
	limit := defaultHistoryLimit
	if raw, ok := args.Options["limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return NewUsageError(fmt.Sprintf("invalid limit %q", raw), "--limit takes a positive integer")
		}
		limit = n
	}

	var (
		runs []*benchmark.Result
		err  error
	)
	if args.Model != "" {
		runs, err = store.ForModel(args.Model, limit)
	} else {
		runs, err = store.List(limit)
	}
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", runs).Print()
	}

	fmt.Println(RenderTitle("Benchmark History"))
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println(DimStyle.Render("No recorded runs."))
		return nil
	}
	for _, r := range runs {
		printRunLine(r)
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("Use 'onnxbench history show <id>' for details."))
	return nil
}

func printRunLine(r *benchmark.Result) {
	stats := DimStyle.Render("no stats")
	if r.HasStats() {
		stats = fmt.Sprintf("p50 %s  p99 %s  %s",
			benchmark.FormatLatency(r.P50MS),
			benchmark.FormatLatency(r.P99MS),
			benchmark.FormatThroughput(r.ThroughputRPS))
	}
	fmt.Printf("%s  %s  %s  %s\n",
		DimStyle.Render(r.StartTime.Format("2006-01-02 15:04:05")),
		HighlightStyle.Render(shortID(r.ID)),
		ValueStyle.Render(util.TruncateRunes(r.Model, 24)),
		stats)
}

// shortID renders the first UUID segment, enough to disambiguate runs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func historyShow(args Args, store *history.Store) error {
	id := args.Options["id"]
	if id == "" {
		return NewUsageError("run ID is required", "onnxbench history show <id>")
	}

	run, err := findRun(store, id)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", run).Print()
	}

	fmt.Println(RenderTitle("Run " + shortID(run.ID)))
	fmt.Println()
	fmt.Println(RenderKV("Started", run.StartTime.Format("2006-01-02 15:04:05")))
	fmt.Println(RenderKV("Concurrency", fmt.Sprintf("%d", run.Concurrency)))
	fmt.Println()
	fmt.Println(run.Summary())
	return nil
}

// findRun resolves a possibly-abbreviated run ID.
func findRun(store *history.Store, id string) (*benchmark.Result, error) {
	run, err := store.Get(id)
	if err == nil {
		return run, nil
	}

	// Fall back to prefix matching over all runs
	runs, listErr := store.List(0)
	if listErr != nil {
		return nil, err
	}
	var match *benchmark.Result
	for _, r := range runs {
		if len(id) >= 4 && len(r.ID) >= len(id) && r.ID[:len(id)] == id {
			if match != nil {
				return nil, NewUsageError(
					fmt.Sprintf("run ID %q is ambiguous", id),
					"use more characters of the ID",
				)
			}
			match = r
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func historyDelete(args Args, store *history.Store) error {
	id := args.Options["id"]
	if id == "" {
		return NewUsageError("run ID is required", "onnxbench history delete <id>")
	}

	run, err := findRun(store, id)
	if err != nil {
		return err
	}
	if err := store.Delete(run.ID); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", map[string]string{"deleted": run.ID}).Print()
	}
	fmt.Printf("%s deleted run %s\n", SuccessStyle.Render("[OK]"), shortID(run.ID))
	return nil
}

func historyClear(args Args, store *history.Store) error {
	if args.Options["confirm"] != "true" {
		return NewUsageError(
			"clearing history requires confirmation",
			"onnxbench history clear --confirm",
		)
	}
	if err := store.Clear(); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", map[string]string{"cleared": "all"}).Print()
	}
	fmt.Printf("%s history cleared\n", SuccessStyle.Render("[OK]"))
	return nil
}
