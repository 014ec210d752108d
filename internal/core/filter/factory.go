package filter

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom filter variant.
var Names = []string{NameExtension, NameFileContentRegex, NameKeyHashShard, NameRegex}

// Factory reconstructs filters from serialized bundles.
var Factory = registry.New[Filter]("filter")

func init() {
	Factory.Register(NameExtension, func(params json.RawMessage) (Filter, error) {
		var f ExtensionFilter
		if err := registry.DecodeStrict(params, &f); err != nil {
			return nil, err
		}
		if len(f.Extensions) == 0 {
			return nil, fmt.Errorf("extension filter requires at least one extension")
		}
		return &f, nil
	})

	Factory.Register(NameRegex, func(params json.RawMessage) (Filter, error) {
		var f RegexFilter
		if err := registry.DecodeStrict(params, &f); err != nil {
			return nil, err
		}
		return NewRegexFilter(f.Pattern, f.Inverted)
	})

	Factory.Register(NameFileContentRegex, func(params json.RawMessage) (Filter, error) {
		var f FileContentRegexFilter
		if err := registry.DecodeStrict(params, &f); err != nil {
			return nil, err
		}
		return NewFileContentRegexFilter(f.Pattern, f.Inverted)
	})

	Factory.Register(NameKeyHashShard, func(params json.RawMessage) (Filter, error) {
		var f KeyHashShardFilter
		if err := registry.DecodeStrict(params, &f); err != nil {
			return nil, err
		}
		return NewKeyHashShardFilter(f.NumShards, f.ValidShard, f.Inverted)
	})
}
