package transformer

import (
	"context"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/pipeline"
)

// ScriptTransformer hands the batch to an external process. The script sees
// the item keys and batch title through template placeholders. Because the
// script's effect on the tree is opaque, the result always reports Changed;
// submission layers that sit on a version-control boundary detect empty
// diffs there instead.
type ScriptTransformer struct {
	pipeline.Script
}

// Name returns the registered variant name.
func (t *ScriptTransformer) Name() string { return NameScript }

// Transform runs the script against the batch.
func (t *ScriptTransformer) Transform(ctx context.Context, rt pipeline.Runtime, b batcher.Batch) (Result, error) {
	_, err := t.Run(ctx, rt, pipeline.ScriptData{
		WorkDir: rt.WorkDir,
		Items:   b.Keys(),
		Title:   b.Metadata.Title,
	})
	if err != nil {
		return Result{}, fmt.Errorf("script transformer: %w", err)
	}
	return Result{Changed: true}, nil
}
