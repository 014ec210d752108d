// Package runner executes schemas: it gathers and filters items, groups
// them into batches, and dispatches one worker per batch while enforcing a
// wall-clock budget for the whole run.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/filter"
	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/schema"
	"github.com/fxchen/autotransform/pkg/randid"
)

// Outcome classifies how one batch ended.
type Outcome string

// Batch outcomes. Noop covers batches whose transformation produced no
// edits and batches skipped once the submission cap was reached.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeNoop    Outcome = "noop"
	OutcomeFailed  Outcome = "failed"
	OutcomeKilled  Outcome = "killed"
)

// Result is the terminal state of one batch.
type Result struct {
	Batch   batcher.Batch
	Outcome Outcome
	// Change is set when the batch was submitted.
	Change *change.Change
	Err    error
}

// RunResult aggregates per-batch results for one schema run.
type RunResult struct {
	// ID is a short random identifier for this run, carried through event
	// fields so one run's diagnostics can be correlated.
	ID      string
	Schema  string
	Results []Result
}

// Count returns how many batches ended with the given outcome.
func (r RunResult) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any batch failed or was killed.
func (r RunResult) Failed() bool {
	return r.Count(OutcomeFailed) > 0 || r.Count(OutcomeKilled) > 0
}

// WorkerFactory builds the worker that executes one batch. The runner never
// inspects what kind of worker it gets back.
type WorkerFactory func(sch *schema.Schema, b batcher.Batch) Worker

// Runner drives schema runs. Workers for all batches are dispatched up
// front and polled collectively; each worker operates on its own isolated
// working tree, so batches never observe each other's edits. A submission
// cap bounds how many workers may be in flight at once, since any of them
// might submit.
type Runner struct {
	rt           pipeline.Runtime
	newWorker    WorkerFactory
	pollInterval time.Duration
	timeout      time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithPollInterval overrides how often the runner checks worker completion.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) { r.pollInterval = d }
}

// WithTimeout overrides the wall-clock budget for a whole run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// New creates a runner with a 1s poll interval and a 6h run budget unless
// overridden.
func New(rt pipeline.Runtime, newWorker WorkerFactory, opts ...Option) *Runner {
	r := &Runner{
		rt:           rt,
		newWorker:    newWorker,
		pollInterval: time.Second,
		timeout:      6 * time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the schema end to end. The returned RunResult carries one
// entry per batch; a batch failure never aborts its siblings. The error
// return covers pipeline-level failures only (input, filtering, batching).
func (r *Runner) Run(ctx context.Context, sch *schema.Schema) (RunResult, error) {
	result := RunResult{ID: randid.Generate(8), Schema: sch.Name}

	if err := sch.Validate(); err != nil {
		return result, err
	}

	batches, err := r.assemble(ctx, sch)
	if err != nil {
		return result, err
	}

	events.Verbose(r.rt.Handler(), "assembled batches", map[string]any{
		"run":     result.ID,
		"schema":  sch.Name,
		"batches": len(batches),
	})

	result.Results = r.dispatch(ctx, sch, batches)
	return result, nil
}

// dispatch starts a worker per batch and polls them collectively until every
// batch has a terminal result. With a submission cap, at most cap workers
// run at once (any in-flight worker might submit); once the cap is reached,
// batches that never started are recorded as no-ops. On context cancellation
// or deadline expiry, in-flight workers are killed and unfinished batches
// are recorded as killed.
func (r *Runner) dispatch(ctx context.Context, sch *schema.Schema, batches []batcher.Batch) []Result {
	results := make([]Result, len(batches))
	workers := make([]Worker, len(batches))
	started := make([]bool, len(batches))
	done := make([]bool, len(batches))

	deadline := time.Now().Add(r.timeout)
	limit := sch.Config.MaxSubmissions
	submitted, inflight, remaining := 0, 0, len(batches)

	start := func() {
		for i, b := range batches {
			if started[i] || done[i] {
				continue
			}
			if limit > 0 {
				if submitted >= limit {
					events.Debug(r.rt.Handler(), "submission cap reached, skipping batch", map[string]any{
						"batch": b.Metadata.Title,
						"cap":   limit,
					})
					results[i] = Result{Batch: b, Outcome: OutcomeNoop}
					done[i] = true
					remaining--
					continue
				}
				if submitted+inflight >= limit {
					// Room may open up when an in-flight batch no-ops.
					continue
				}
			}
			workers[i] = r.newWorker(sch, b)
			workers[i].Start(ctx)
			started[i] = true
			inflight++
		}
	}

	collect := func() {
		for i := range batches {
			if !started[i] || done[i] || !workers[i].IsFinished() {
				continue
			}
			results[i] = workers[i].Result()
			done[i] = true
			inflight--
			remaining--
			if results[i].Change != nil {
				submitted++
			}
		}
	}

	killAll := func(cause error) {
		for i, b := range batches {
			if done[i] {
				continue
			}
			if started[i] {
				workers[i].Kill()
			}
			results[i] = Result{Batch: b, Outcome: OutcomeKilled, Err: cause}
			done[i] = true
			remaining--
		}
	}

	start()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-ctx.Done():
			killAll(ctx.Err())
		case <-ticker.C:
			if time.Now().After(deadline) {
				killAll(fmt.Errorf("run timed out"))
				continue
			}
			collect()
			start()
		}
	}

	return results
}

// assemble runs the gathering half of the pipeline: input, filters, batcher.
func (r *Runner) assemble(ctx context.Context, sch *schema.Schema) ([]batcher.Batch, error) {
	items, err := sch.Input.Items(ctx, r.rt)
	if err != nil {
		return nil, fmt.Errorf("schema %q input: %w", sch.Name, err)
	}

	kept := make([]item.Item, 0, len(items))
	for _, it := range items {
		ok, err := filter.Keep(sch.Filters, it)
		if err != nil {
			return nil, fmt.Errorf("schema %q filter: %w", sch.Name, err)
		}
		if ok {
			kept = append(kept, it)
		}
	}

	events.Debug(r.rt.Handler(), "filtered items", map[string]any{
		"schema": sch.Name,
		"total":  len(items),
		"kept":   len(kept),
	})

	batches, err := sch.Batcher.Batch(kept)
	if err != nil {
		return nil, fmt.Errorf("schema %q batcher: %w", sch.Name, err)
	}
	return batches, nil
}
