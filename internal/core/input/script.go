package input

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/item"
	"github.com/fxchen/autotransform/internal/core/pipeline"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// ScriptInput invokes an external process to discover items. The process
// writes a JSON array of item bundles to stdout, or to the designated
// result file when its command line references {{.ResultFile}}. A nonzero
// exit or timeout is a failure, never a silent empty result.
type ScriptInput struct {
	pipeline.Script
}

// Name returns the registered variant name.
func (s *ScriptInput) Name() string { return NameScript }

// Items runs the script and decodes its payload into items.
func (s *ScriptInput) Items(ctx context.Context, rt pipeline.Runtime) ([]item.Item, error) {
	payload, err := s.Run(ctx, rt, pipeline.ScriptData{WorkDir: rt.WorkDir})
	if err != nil {
		return nil, fmt.Errorf("script input: %w", err)
	}

	var bundles []registry.Bundle
	if err := json.Unmarshal(payload, &bundles); err != nil {
		return nil, fmt.Errorf("script input: decode item bundles: %w", err)
	}

	items := make([]item.Item, 0, len(bundles))
	for i, b := range bundles {
		it, err := item.Factory.Get(b)
		if err != nil {
			return nil, fmt.Errorf("script input: item %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}
