// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import "sort"

// =============================================================================
// STATISTICS
// =============================================================================

// percentile returns the index-based percentile of sorted ascending samples:
// the sample at floor(f * count), clamped to count-1 at the upper boundary.
// Deterministic and order-preserving; no interpolation.
func percentile(sorted []float64, f float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(f * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// computeStats fills the aggregate fields of a Result from its recorded
// samples. Statistics cover successful samples only; with zero successes the
// stats fields stay zero and HasStats reports false.
func (r *Result) computeStats() {
	r.SuccessfulRequests = len(r.Samples)
	r.FailedRequests = r.TotalRequests - r.SuccessfulRequests
	if len(r.Samples) == 0 {
		return
	}

	sorted := append([]float64(nil), r.Samples...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}

	r.MeanMS = sum / float64(len(sorted))
	r.P50MS = percentile(sorted, 0.50)
	r.P95MS = percentile(sorted, 0.95)
	r.P99MS = percentile(sorted, 0.99)

	// Requests per second over the time actually spent inside calls.
	if sum > 0 {
		r.ThroughputRPS = float64(len(sorted)) / (sum / 1000.0)
	}
}
