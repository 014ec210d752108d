// Package command provides post-transform validation and side-effect steps
// run against a batch, such as formatters or test suites.
package command

import (
	"context"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/batcher"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered command variant names.
const NameScript = "script"

// Command runs after a batch's transformation. A failing command fails the
// batch, not the run.
type Command interface {
	registry.Component
	Run(ctx context.Context, rt pipeline.Runtime, b batcher.Batch) error
}

// ScriptCommand invokes an external process against the transformed batch.
type ScriptCommand struct {
	pipeline.Script
}

// Name returns the registered variant name.
func (c *ScriptCommand) Name() string { return NameScript }

// Run executes the script with the batch's item keys and title available as
// template placeholders.
func (c *ScriptCommand) Run(ctx context.Context, rt pipeline.Runtime, b batcher.Batch) error {
	_, err := c.Script.Run(ctx, rt, pipeline.ScriptData{
		WorkDir: rt.WorkDir,
		Items:   b.Keys(),
		Title:   b.Metadata.Title,
	})
	if err != nil {
		return fmt.Errorf("script command: %w", err)
	}
	return nil
}
