package input

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom input variant.
var Names = []string{NameDirectory, NameScript}

// Factory reconstructs inputs from serialized bundles.
var Factory = registry.New[Input]("input")

func init() {
	Factory.Register(NameDirectory, func(params json.RawMessage) (Input, error) {
		var d DirectoryInput
		if err := registry.DecodeStrict(params, &d); err != nil {
			return nil, err
		}
		if d.Path == "" {
			return nil, fmt.Errorf("directory input path is required")
		}
		return &d, nil
	})

	Factory.Register(NameScript, func(params json.RawMessage) (Input, error) {
		var s ScriptInput
		if err := registry.DecodeStrict(params, &s); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return &s, nil
	})
}
