package transformer

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom transformer variant.
var Names = []string{NameRegex, NameScript}

// Factory reconstructs transformers from serialized bundles.
var Factory = registry.New[Transformer]("transformer")

func init() {
	Factory.Register(NameRegex, func(params json.RawMessage) (Transformer, error) {
		var t RegexTransformer
		if err := registry.DecodeStrict(params, &t); err != nil {
			return nil, err
		}
		if t.Pattern == "" {
			return nil, fmt.Errorf("regex transformer pattern is required")
		}
		return NewRegexTransformer(t.Pattern, t.Replacement)
	})

	Factory.Register(NameScript, func(params json.RawMessage) (Transformer, error) {
		var t ScriptTransformer
		if err := registry.DecodeStrict(params, &t); err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return &t, nil
	})
}
