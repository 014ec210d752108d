package condition

import (
	"encoding/json"

	"github.com/fxchen/autotransform/internal/core/registry"
)

// Names lists every non-custom condition variant.
var Names = []string{NameAggregate, NameChangeState, NameCreatedAgo, NameSchemaName, NameUpdatedAgo}

// Factory reconstructs conditions from serialized bundles.
var Factory = registry.New[Condition]("condition")

func init() {
	Factory.Register(NameAggregate, decodeAggregate)

	Factory.Register(NameChangeState, func(params json.RawMessage) (Condition, error) {
		var c ChangeStateCondition
		if err := registry.DecodeStrict(params, &c); err != nil {
			return nil, err
		}
		return NewChangeStateCondition(c.Comparison, c.Value)
	})

	Factory.Register(NameSchemaName, func(params json.RawMessage) (Condition, error) {
		var c SchemaNameCondition
		if err := registry.DecodeStrict(params, &c); err != nil {
			return nil, err
		}
		return NewSchemaNameCondition(c.Comparison, c.Value)
	})

	Factory.Register(NameCreatedAgo, func(params json.RawMessage) (Condition, error) {
		var c CreatedAgoCondition
		if err := registry.DecodeStrict(params, &c); err != nil {
			return nil, err
		}
		return NewCreatedAgoCondition(c.Comparison, c.Value)
	})

	Factory.Register(NameUpdatedAgo, func(params json.RawMessage) (Condition, error) {
		var c UpdatedAgoCondition
		if err := registry.DecodeStrict(params, &c); err != nil {
			return nil, err
		}
		return NewUpdatedAgoCondition(c.Comparison, c.Value)
	})
}
