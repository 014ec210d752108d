// Package condition provides the predicates the change-management engine
// evaluates against outstanding changes.
package condition

import (
	"errors"
	"time"

	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/registry"
)

// Registered condition variant names.
const (
	NameAggregate   = "aggregate"
	NameChangeState = "change_state"
	NameCreatedAgo  = "created_ago"
	NameSchemaName  = "schema_name"
	NameUpdatedAgo  = "updated_ago"
)

// ErrInvalidComparison marks a comparison operator a condition variant does
// not support. Always raised at construction, never at evaluation.
var ErrInvalidComparison = errors.New("invalid comparison")

// timeNow is swapped in tests to evaluate age conditions deterministically.
var timeNow = time.Now

// Condition is a stateless predicate over a change.
type Condition interface {
	registry.Component
	Check(ch change.Change) bool
}

// ChangeStateCondition compares a change's state against a constant.
// Supports equality comparisons only.
type ChangeStateCondition struct {
	Comparison Comparison   `json:"comparison"`
	Value      change.State `json:"value"`
}

// NewChangeStateCondition validates the operator and value at construction.
func NewChangeStateCondition(c Comparison, value change.State) (*ChangeStateCondition, error) {
	if err := validateComparison(c, equalityComparisons); err != nil {
		return nil, err
	}
	return &ChangeStateCondition{Comparison: c, Value: value}, nil
}

// Name returns the registered variant name.
func (c *ChangeStateCondition) Name() string { return NameChangeState }

// Check compares the change's state against the configured value.
func (c *ChangeStateCondition) Check(ch change.Change) bool {
	return compareEq(ch.State, c.Value, c.Comparison)
}

// SchemaNameCondition compares the name of the schema that produced a
// change against a constant. Supports equality comparisons only.
type SchemaNameCondition struct {
	Comparison Comparison `json:"comparison"`
	Value      string     `json:"value"`
}

// NewSchemaNameCondition validates the operator at construction.
func NewSchemaNameCondition(c Comparison, value string) (*SchemaNameCondition, error) {
	if err := validateComparison(c, equalityComparisons); err != nil {
		return nil, err
	}
	return &SchemaNameCondition{Comparison: c, Value: value}, nil
}

// Name returns the registered variant name.
func (c *SchemaNameCondition) Name() string { return NameSchemaName }

// Check compares the change's schema name against the configured value.
func (c *SchemaNameCondition) Check(ch change.Change) bool {
	return compareEq(ch.SchemaName, c.Value, c.Comparison)
}

// CreatedAgoCondition compares how long ago a change was created, in
// seconds, against a constant. Supports the full ordered operator set.
type CreatedAgoCondition struct {
	Comparison Comparison `json:"comparison"`
	Value      int64      `json:"value"`
}

// NewCreatedAgoCondition validates the operator at construction.
func NewCreatedAgoCondition(c Comparison, seconds int64) (*CreatedAgoCondition, error) {
	if err := validateComparison(c, sortableComparisons); err != nil {
		return nil, err
	}
	return &CreatedAgoCondition{Comparison: c, Value: seconds}, nil
}

// Name returns the registered variant name.
func (c *CreatedAgoCondition) Name() string { return NameCreatedAgo }

// Check compares the change's age against the configured number of seconds.
func (c *CreatedAgoCondition) Check(ch change.Change) bool {
	return compareOrdered(ch.CreatedAgo(timeNow()), c.Value, c.Comparison)
}

// UpdatedAgoCondition compares how long ago a change was last updated, in
// seconds, against a constant. Supports the full ordered operator set.
type UpdatedAgoCondition struct {
	Comparison Comparison `json:"comparison"`
	Value      int64      `json:"value"`
}

// NewUpdatedAgoCondition validates the operator at construction.
func NewUpdatedAgoCondition(c Comparison, seconds int64) (*UpdatedAgoCondition, error) {
	if err := validateComparison(c, sortableComparisons); err != nil {
		return nil, err
	}
	return &UpdatedAgoCondition{Comparison: c, Value: seconds}, nil
}

// Name returns the registered variant name.
func (c *UpdatedAgoCondition) Name() string { return NameUpdatedAgo }

// Check compares seconds since the change's last update against the
// configured value.
func (c *UpdatedAgoCondition) Check(ch change.Change) bool {
	return compareOrdered(ch.UpdatedAgo(timeNow()), c.Value, c.Comparison)
}
