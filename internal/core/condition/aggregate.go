package condition

import (
	"encoding/json"
	"fmt"

	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Aggregation selects how an aggregate condition combines its children.
// The mode is always explicit, never inferred.
type Aggregation string

// Aggregation modes.
const (
	AggregationAll Aggregation = "all"
	AggregationAny Aggregation = "any"
)

// Valid reports whether a is a known aggregation mode.
func (a Aggregation) Valid() bool {
	return a == AggregationAll || a == AggregationAny
}

// AggregateCondition combines child conditions with ALL or ANY semantics.
type AggregateCondition struct {
	Aggregation Aggregation
	Conditions  []Condition
}

// NewAggregateCondition validates the mode and children at construction.
func NewAggregateCondition(mode Aggregation, children []Condition) (*AggregateCondition, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid aggregation %q", mode)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("aggregate condition requires at least one child")
	}
	return &AggregateCondition{Aggregation: mode, Conditions: children}, nil
}

// Name returns the registered variant name.
func (c *AggregateCondition) Name() string { return NameAggregate }

// Check evaluates the children under the configured aggregation mode.
func (c *AggregateCondition) Check(ch change.Change) bool {
	for _, child := range c.Conditions {
		passed := child.Check(ch)
		if c.Aggregation == AggregationAll && !passed {
			return false
		}
		if c.Aggregation == AggregationAny && passed {
			return true
		}
	}
	return c.Aggregation == AggregationAll
}

// aggregateParams is the serialized form: children as bundles.
type aggregateParams struct {
	Aggregation Aggregation       `json:"aggregation"`
	Conditions  []registry.Bundle `json:"conditions"`
}

// MarshalJSON encodes the children through the condition factory so the
// bundle round-trips.
func (c *AggregateCondition) MarshalJSON() ([]byte, error) {
	bundles := make([]registry.Bundle, len(c.Conditions))
	for i, child := range c.Conditions {
		b, err := registry.Encode(child)
		if err != nil {
			return nil, err
		}
		bundles[i] = b
	}
	return json.Marshal(aggregateParams{Aggregation: c.Aggregation, Conditions: bundles})
}

func decodeAggregate(params json.RawMessage) (Condition, error) {
	var p aggregateParams
	if err := registry.DecodeStrict(params, &p); err != nil {
		return nil, err
	}

	children := make([]Condition, len(p.Conditions))
	for i, b := range p.Conditions {
		child, err := Factory.Get(b)
		if err != nil {
			return nil, fmt.Errorf("aggregate child %d: %w", i, err)
		}
		children[i] = child
	}
	return NewAggregateCondition(p.Aggregation, children)
}
