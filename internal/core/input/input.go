// Package input provides the components that discover candidate work items.
package input

import (
	"context"

	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered input variant names.
const (
	NameDirectory = "directory"
	NameScript    = "script"
)

// Input produces the sequence of candidate items for a run. Implementations
// must be deterministic for a fixed underlying source and must not mutate
// that source. Item order is stable across the rest of the pipeline.
type Input interface {
	registry.Component
	Items(ctx context.Context, rt pipeline.Runtime) ([]item.Item, error)
}
