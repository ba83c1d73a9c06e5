// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package benchmark drives repeated inference calls against one model and
// aggregates latency and throughput statistics.
package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/onnxbench/internal/util"
)

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result contains the aggregate outcome of one benchmark run. It is created
// fresh per run and never mutated afterwards.
//
// Latencies are milliseconds; throughput is requests per second. Statistics
// are computed only over successful samples.
type Result struct {
	ID          string        `json:"id"`
	Model       string        `json:"model"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
	Concurrency int           `json:"concurrency"`

	TotalRequests      int `json:"total_requests"`
	SuccessfulRequests int `json:"successful_requests"`
	FailedRequests     int `json:"failed_requests"`

	MeanMS        float64 `json:"avg_latency_ms"`
	P50MS         float64 `json:"p50_latency_ms"`
	P95MS         float64 `json:"p95_latency_ms"`
	P99MS         float64 `json:"p99_latency_ms"`
	ThroughputRPS float64 `json:"throughput_rps"`

	// Samples holds the successful per-call latencies in completion order.
	Samples []float64 `json:"samples,omitempty"`

	// Errors holds per-iteration failure diagnostics, capped at errorCap.
	Errors []string `json:"errors,omitempty"`
}

// errorCap bounds the retained per-iteration error strings so a long run
// against a dead server doesn't accumulate thousands of identical messages.
const errorCap = 20

// HasStats reports whether the run produced any usable samples. A run where
// every call failed has counts but no statistics.
func (r *Result) HasStats() bool {
	return r.SuccessfulRequests > 0
}

// Summary returns a text summary of the benchmark result.
func (r *Result) Summary() string {
	if !r.HasStats() {
		return fmt.Sprintf(
			"Model: %s\nRequests: %d attempted, 0 succeeded\nNo usable samples.",
			r.Model, r.TotalRequests,
		)
	}
	return fmt.Sprintf(
		"Model: %s\n"+
			"Requests: %d attempted, %d succeeded, %d failed\n"+
			"Throughput: %s\n"+
			"Avg latency: %s\n"+
			"P50 latency: %s\n"+
			"P95 latency: %s\n"+
			"P99 latency: %s",
		r.Model,
		r.TotalRequests,
		r.SuccessfulRequests,
		r.FailedRequests,
		FormatThroughput(r.ThroughputRPS),
		FormatLatency(r.MeanMS),
		FormatLatency(r.P50MS),
		FormatLatency(r.P95MS),
		FormatLatency(r.P99MS),
	)
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// FormatLatency formats a millisecond latency for display.
func FormatLatency(ms float64) string {
	if ms == 0 {
		return "N/A"
	}
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

// FormatThroughput formats a requests/second value for display.
func FormatThroughput(rps float64) string {
	if rps == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f req/s", rps)
}

// FormatDuration formats a wall-clock duration for display.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "N/A"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// =============================================================================
// RESULT STORAGE
// =============================================================================

// Storage saves and loads benchmark results as JSON files.
type Storage struct {
	dir string
}

// NewStorage creates a storage instance rooted at ~/.onnxbench/benchmarks/.
func NewStorage() (*Storage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewStorageWithDir(filepath.Join(homeDir, ".onnxbench", "benchmarks"))
}

// NewStorageWithDir creates a storage instance with a custom directory.
func NewStorageWithDir(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes a benchmark result to disk. The filename carries the model
// name and a timestamp so repeated runs never collide.
func (s *Storage) Save(result *Result) (string, error) {
	timestamp := result.StartTime
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	filename := fmt.Sprintf("%s_%s.json", sanitizeFilename(result.Model), timestamp.Format("20060102-150405.000"))
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}

	return path, nil
}

// Load reads a benchmark result from disk.
func (s *Storage) Load(filename string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// List returns all benchmark result files, newest first.
func (s *Storage) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			files = append(files, entry.Name())
		}
	}

	sort.Slice(files, func(i, j int) bool {
		infoI, errI := os.Stat(filepath.Join(s.dir, files[i]))
		infoJ, errJ := os.Stat(filepath.Join(s.dir, files[j]))
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return files, nil
}

// LatestForModel returns the most recent saved result for a model.
func (s *Storage) LatestForModel(model string) (*Result, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}

	sanitized := sanitizeFilename(model)
	for _, file := range files {
		if strings.HasPrefix(file, sanitized+"_") {
			return s.Load(file)
		}
	}

	return nil, fmt.Errorf("no results found for model: %s", model)
}

// sanitizeFilename replaces characters that aren't safe for filenames.
func sanitizeFilename(name string) string {
	replacements := map[rune]rune{
		':': '_', '/': '_', '\\': '_', ' ': '_', '*': '_',
		'?': '_', '<': '_', '>': '_', '|': '_', '"': '_',
	}

	result := make([]rune, 0, len(name))
	for _, r := range name {
		if replacement, ok := replacements[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}
	return string(result)
}
