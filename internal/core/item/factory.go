package item

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom item variant. Kept in sync with the factory
// registrations below; Factory.Validate(Names) enforces the pairing.
var Names = []string{NameFile, NameGeneric}

// Factory reconstructs items from serialized bundles.
var Factory = registry.New[Item]("item")

func init() {
	Factory.Register(NameGeneric, decodeAs(NameGeneric))
	Factory.Register(NameFile, decodeAs(NameFile))
}

func decodeAs(name string) registry.DecodeFunc[Item] {
	return func(params json.RawMessage) (Item, error) {
		var p struct {
			Key       string         `json:"key"`
			ExtraData map[string]any `json:"extra_data"`
		}
		if err := registry.DecodeStrict(params, &p); err != nil {
			return Item{}, err
		}
		if p.Key == "" {
			return Item{}, fmt.Errorf("item key is required")
		}
		return Item{Key: p.Key, ExtraData: p.ExtraData, name: name}, nil
	}
}
