// Package transformer provides the components that apply a mutation to the
// items of a single batch.
package transformer

import (
	"context"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered transformer variant names.
const (
	NameRegex  = "regex"
	NameScript = "script"
)

// Result reports what a transformation did to the working tree.
type Result struct {
	// Changed is false when the transformation ran cleanly but modified
	// nothing; the runner skips submission for such batches.
	Changed bool
	// ChangedFiles counts modified files when the transformer can tell,
	// zero otherwise.
	ChangedFiles int
}

// Transformer mutates the working tree for one batch. Re-invoking on a
// clean checkout must not compound prior mutations; callers reset state
// between attempts.
type Transformer interface {
	registry.Component
	Transform(ctx context.Context, rt pipeline.Runtime, b batcher.Batch) (Result, error)
}
