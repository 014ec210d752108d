package command

import (
	"encoding/json"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom command variant.
var Names = []string{NameScript}

// Factory reconstructs commands from serialized bundles.
var Factory = registry.New[Command]("command")

func init() {
	Factory.Register(NameScript, func(params json.RawMessage) (Command, error) {
		var c ScriptCommand
		if err := registry.DecodeStrict(params, &c); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return &c, nil
	})
}
