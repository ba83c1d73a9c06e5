// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/tensor"
)

// =============================================================================
// BENCHMARK RUNNER
// =============================================================================

// Inferer is the slice of the inference client the runner needs. Satisfied
// by *client.Client; tests substitute a fake.
type Inferer interface {
	Infer(ctx context.Context, model string, inputs map[string]tensor.Tensor) (*client.InferenceResponse, error)
}

// Options configures one benchmark run.
type Options struct {
	// Model is the target model name.
	Model string

	// Requests is the number of measured inference calls (minimum 1).
	Requests int

	// Concurrency is the number of workers issuing calls over the shared
	// session. Zero or one means sequential execution.
	Concurrency int

	// Warmup is the number of unmeasured calls issued before the run.
	Warmup int

	// Rate caps issued requests per second across all workers. Zero means
	// unlimited.
	Rate float64

	// Inputs is the fixed input set sent on every call. Ignored when
	// InputFunc is set.
	Inputs map[string]tensor.Tensor

	// InputFunc, when set, generates fresh inputs for each call.
	InputFunc func() map[string]tensor.Tensor
}

func (o *Options) validate() error {
	if o.Model == "" {
		return errors.New("benchmark: model name is required")
	}
	if o.Requests < 1 {
		return errors.New("benchmark: at least one request is required")
	}
	if o.Inputs == nil && o.InputFunc == nil {
		return errors.New("benchmark: inputs are required")
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Warmup < 0 {
		o.Warmup = 0
	}
	return nil
}

func (o *Options) inputs() map[string]tensor.Tensor {
	if o.InputFunc != nil {
		return o.InputFunc()
	}
	return o.Inputs
}

// Runner executes benchmark runs against one inference client. The client's
// session is shared by all workers; per-run state lives in the Result, so a
// Runner may be reused across runs.
type Runner struct {
	client Inferer
}

// NewRunner creates a benchmark runner.
func NewRunner(c Inferer) *Runner {
	return &Runner{client: c}
}

// outcome is the record of one attempted call. Failed calls carry no
// latency sample.
type outcome struct {
	latencyMS float64
	err       error
}

// Run executes a benchmark. Individual call failures are recorded and never
// abort the run; a cancelled context stops the run before the next call
// without corrupting already-recorded samples. A run where every call fails
// returns a Result with zero successes, not an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	// Warmup calls are issued sequentially and discarded.
	for i := 0; i < opts.Warmup; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := r.wait(ctx, limiter); err != nil {
			break
		}
		_, _ = r.client.Infer(ctx, opts.Model, opts.inputs())
	}

	result := &Result{
		ID:          uuid.NewString(),
		Model:       opts.Model,
		StartTime:   time.Now(),
		Concurrency: opts.Concurrency,
	}

	var outcomes []outcome
	if opts.Concurrency <= 1 {
		outcomes = r.runSequential(ctx, opts, limiter)
	} else {
		outcomes = r.runConcurrent(ctx, opts, limiter)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	// Fold the outcomes into the immutable result.
	result.TotalRequests = len(outcomes)
	for _, o := range outcomes {
		if o.err != nil {
			if len(result.Errors) < errorCap {
				result.Errors = append(result.Errors, o.err.Error())
			}
			continue
		}
		result.Samples = append(result.Samples, o.latencyMS)
	}
	result.computeStats()

	return result, nil
}

// runSequential issues calls one at a time; each call fully completes or
// fails before the next begins.
func (r *Runner) runSequential(ctx context.Context, opts Options, limiter *rate.Limiter) []outcome {
	outcomes := make([]outcome, 0, opts.Requests)
	for i := 0; i < opts.Requests; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := r.wait(ctx, limiter); err != nil {
			break
		}
		outcomes = append(outcomes, r.call(ctx, opts))
	}
	return outcomes
}

// runConcurrent fans iterations out to Concurrency workers sharing the
// client session. Each sample is timed entirely within its own call, and
// outcomes are merged only after all workers finish.
func (r *Runner) runConcurrent(ctx context.Context, opts Options, limiter *rate.Limiter) []outcome {
	iterations := make(chan struct{})
	results := make(chan outcome, opts.Requests)

	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				if err := r.wait(ctx, limiter); err != nil {
					return
				}
				results <- r.call(ctx, opts)
			}
		}()
	}

feed:
	for i := 0; i < opts.Requests; i++ {
		select {
		case iterations <- struct{}{}:
		case <-ctx.Done():
			break feed
		}
	}
	close(iterations)

	wg.Wait()
	close(results)

	outcomes := make([]outcome, 0, opts.Requests)
	for o := range results {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// call performs one timed inference. The elapsed time covers exactly this
// call, regardless of what other workers are doing.
func (r *Runner) call(ctx context.Context, opts Options) outcome {
	start := time.Now()
	_, err := r.client.Infer(ctx, opts.Model, opts.inputs())
	if err != nil {
		return outcome{err: err}
	}
	return outcome{latencyMS: float64(time.Since(start)) / float64(time.Millisecond)}
}

func (r *Runner) wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// RandomInputs builds a float32 input set matching a model descriptor,
// substituting 1 for dynamic dimensions. Convenient for benchmarking a model
// without real data.
func RandomInputs(desc *client.ModelDescriptor) (map[string]tensor.Tensor, error) {
	inputs := make(map[string]tensor.Tensor, len(desc.Inputs))
	for _, spec := range desc.Inputs {
		t, err := tensor.Random(tensor.ConcretizeShape(spec.Shape))
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", spec.Name, err)
		}
		inputs[spec.Name] = t
	}
	return inputs, nil
}
