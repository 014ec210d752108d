package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/repo"
	"github.com/fxchen/autotransform/internal/core/schema"
)

// Worker executes one batch to completion. Start returns immediately; the
// runner observes progress through IsFinished and collects the terminal
// state through Result once finished.
type Worker interface {
	Start(ctx context.Context)
	IsFinished() bool
	// Kill aborts the batch. The worker finishes promptly afterwards.
	Kill()
	// Result is valid only after IsFinished reports true.
	Result() Result
}

// Submitter turns a pushed branch into a tracked change on the hosting
// system.
type Submitter interface {
	Submit(ctx context.Context, sch *schema.Schema, b batcher.Batch, branch string) (change.Change, error)
}

// LocalWorker runs a batch in-process: transform, post-commands, then
// branch, commit, push, and submit. With a repo, the batch runs in its own
// isolated worktree, so concurrently running batches never share mutable
// state. A nil submitter makes the run a dry run that stops after the
// commands. A nil repo edits the runtime's work dir in place and requires a
// nil submitter; there is no tree to branch and push from.
type LocalWorker struct {
	sch       *schema.Schema
	batch     batcher.Batch
	rt        pipeline.Runtime
	repo      *repo.Repo
	submitter Submitter

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result Result
}

// NewLocalWorker creates a worker for one batch.
func NewLocalWorker(sch *schema.Schema, b batcher.Batch, rt pipeline.Runtime, r *repo.Repo, submitter Submitter) *LocalWorker {
	return &LocalWorker{
		sch:       sch,
		batch:     b,
		rt:        rt,
		repo:      r,
		submitter: submitter,
		done:      make(chan struct{}),
	}
}

// Start launches the batch in a goroutine.
func (w *LocalWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go func() {
		defer close(w.done)
		w.setResult(w.run(ctx))
	}()
}

// IsFinished reports whether the batch has reached a terminal state.
func (w *LocalWorker) IsFinished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Kill cancels the batch's context. In-flight git and script processes
// terminate with it.
func (w *LocalWorker) Kill() {
	if w.cancel != nil {
		w.cancel()
	}
}

// Result returns the terminal state recorded by the worker goroutine.
func (w *LocalWorker) Result() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *LocalWorker) setResult(res Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = res
}

func (w *LocalWorker) run(ctx context.Context) Result {
	res := Result{Batch: w.batch}
	fail := func(err error) Result {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	if w.repo == nil && w.submitter != nil {
		return fail(fmt.Errorf("batch %q: cannot submit without a repository", w.batch.Metadata.Title))
	}

	// Each batch gets a pristine private tree so concurrently running
	// siblings never leak edits into each other. The runtime's work dir
	// follows the tree: items carry tree-relative paths.
	rt := w.rt
	tree := w.repo
	if w.repo != nil {
		iso, cleanup, err := w.repo.Isolate(ctx)
		if err != nil {
			return fail(err)
		}
		defer cleanup()
		tree = iso
		rt.WorkDir = iso.Dir()
	}

	tr, err := w.sch.Transformer.Transform(ctx, rt, w.batch)
	if err != nil {
		return fail(err)
	}

	// The working tree is the source of truth for whether anything changed.
	// Script transformers always report Changed; an untouched tree still
	// ends the batch as a no-op.
	clean := !tr.Changed
	if tree != nil {
		clean, err = tree.IsClean(ctx)
		if err != nil {
			return fail(err)
		}
	}
	if clean || !tr.Changed {
		events.Debug(rt.Handler(), "batch produced no edits", map[string]any{
			"schema": w.sch.Name,
			"batch":  w.batch.Metadata.Title,
		})
		res.Outcome = OutcomeNoop
		return res
	}

	for _, cmd := range w.sch.Commands {
		if err := cmd.Run(ctx, rt, w.batch); err != nil {
			return fail(err)
		}
	}

	if w.submitter == nil {
		res.Outcome = OutcomeSuccess
		return res
	}

	branch := repo.BranchName(w.sch.Name, w.batch.Metadata.Title)
	if err := tree.CreateBranch(ctx, branch); err != nil {
		return fail(err)
	}
	if err := tree.Commit(ctx, w.batch.Metadata.Title); err != nil {
		return fail(err)
	}
	if err := tree.Push(ctx, branch); err != nil {
		return fail(err)
	}

	ch, err := w.submitter.Submit(ctx, w.sch, w.batch, branch)
	if err != nil {
		return fail(err)
	}

	events.Verbose(rt.Handler(), "submitted change", map[string]any{
		"schema": w.sch.Name,
		"branch": branch,
		"change": ch.ID,
	})

	res.Outcome = OutcomeSuccess
	res.Change = &ch
	return res
}
