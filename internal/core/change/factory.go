package change

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// NameGithub is the registered name for GitHub-backed changes.
const NameGithub = "github"

// Names lists every non-custom change variant.
var Names = []string{NameGithub}

// Factory reconstructs changes from serialized bundles.
var Factory = registry.New[Change]("change")

func init() {
	Factory.Register(NameGithub, func(params json.RawMessage) (Change, error) {
		var c Change
		if err := registry.DecodeStrict(params, &c); err != nil {
			return Change{}, err
		}
		if c.State == "" {
			c.State = StateUnknown
		}
		if !c.State.Valid() {
			return Change{}, fmt.Errorf("invalid change state %q", c.State)
		}
		return c, nil
	})
}
