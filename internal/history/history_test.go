// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/onnxbench/internal/benchmark"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(id, model string, start time.Time) *benchmark.Result {
	return &benchmark.Result{
		ID:                 id,
		Model:              model,
		StartTime:          start,
		EndTime:            start.Add(2 * time.Second),
		Duration:           2 * time.Second,
		Concurrency:        4,
		TotalRequests:      100,
		SuccessfulRequests: 98,
		FailedRequests:     2,
		MeanMS:             12.5,
		P50MS:              11.0,
		P95MS:              22.0,
		P99MS:              35.5,
		ThroughputRPS:      49.0,
		Samples:            []float64{10.5, 11.0, 12.0},
		Errors:             []string{"request 7: connection reset", "request 31: connection reset"},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := testStore(t)

	original := testResult("run-1", "resnet50", time.Now().Truncate(time.Second))
	if err := s.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get("run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Model != "resnet50" {
		t.Errorf("Model = '%s', want 'resnet50'", got.Model)
	}
	if got.TotalRequests != 100 || got.SuccessfulRequests != 98 || got.FailedRequests != 2 {
		t.Errorf("Counts = %d/%d/%d, want 100/98/2",
			got.TotalRequests, got.SuccessfulRequests, got.FailedRequests)
	}
	if got.P99MS != 35.5 {
		t.Errorf("P99MS = %v, want 35.5", got.P99MS)
	}
	if got.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", got.Duration)
	}
	if !got.StartTime.Equal(original.StartTime) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, original.StartTime)
	}
	if len(got.Samples) != 3 || got.Samples[0] != 10.5 {
		t.Errorf("Samples = %v, want [10.5 11 12]", got.Samples)
	}
	if len(got.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", got.Errors)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get("no-such-run")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get for missing run = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveDuplicateID(t *testing.T) {
	s := testStore(t)

	r := testResult("dup", "resnet50", time.Now())
	if err := s.Save(r); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := s.Save(r); err == nil {
		t.Error("Second save with same ID should fail")
	}
}

func TestStore_SaveValidation(t *testing.T) {
	s := testStore(t)

	if err := s.Save(nil); err == nil {
		t.Error("Save(nil) should fail")
	}
	if err := s.Save(&benchmark.Result{}); err == nil {
		t.Error("Save with empty ID should fail")
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Now().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		r := testResult(id, "resnet50", base.Add(time.Duration(i)*time.Minute))
		if err := s.Save(r); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(runs))
	}
	if runs[0].ID != "new" || runs[2].ID != "old" {
		t.Errorf("List order = [%s %s %s], want newest first",
			runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := s.List(2)
	if err != nil {
		t.Fatalf("List(2) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "new" {
		t.Errorf("List(2) = %d runs starting with '%s', want 2 starting with 'new'",
			len(limited), limited[0].ID)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	s := testStore(t)

	runs, err := s.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if runs == nil {
		t.Error("List should return an empty slice, not nil")
	}
	if len(runs) != 0 {
		t.Errorf("List returned %d runs, want 0", len(runs))
	}
}

func TestStore_ForModel(t *testing.T) {
	s := testStore(t)

	base := time.Now().Truncate(time.Second)
	if err := s.Save(testResult("a", "resnet50", base)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(testResult("b", "bert-base", base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(testResult("c", "resnet50", base.Add(2*time.Minute))); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ForModel("resnet50", 0)
	if err != nil {
		t.Fatalf("ForModel failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ForModel returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "a" {
		t.Errorf("ForModel order = [%s %s], want [c a]", runs[0].ID, runs[1].ID)
	}

	none, err := s.ForModel("missing-model", 0)
	if err != nil {
		t.Fatalf("ForModel failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ForModel for unknown model returned %d runs, want 0", len(none))
	}
}

func TestStore_Delete(t *testing.T) {
	s := testStore(t)

	if err := s.Save(testResult("gone", "resnet50", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete of missing run = %v, want ErrNotFound", err)
	}
}

func TestStore_Clear(t *testing.T) {
	s := testStore(t)

	for _, id := range []string{"x", "y", "z"} {
		if err := s.Save(testResult(id, "resnet50", time.Now())); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	runs, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("List after Clear returned %d runs, want 0", len(runs))
	}
}

func TestStore_ZeroSuccessRun(t *testing.T) {
	s := testStore(t)

	r := &benchmark.Result{
		ID:             "dead-server",
		Model:          "resnet50",
		StartTime:      time.Now().Truncate(time.Second),
		EndTime:        time.Now().Truncate(time.Second),
		Concurrency:    1,
		TotalRequests:  10,
		FailedRequests: 10,
		Errors:         []string{"request 0: inference server unreachable"},
	}
	if err := s.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get("dead-server")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HasStats() {
		t.Error("Zero-success run should have no stats")
	}
	if len(got.Samples) != 0 {
		t.Errorf("Samples = %v, want empty", got.Samples)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	if err := s.Save(testResult("persist", "resnet50", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Get("persist"); err != nil {
		t.Errorf("Run should survive reopen, got %v", err)
	}
}
