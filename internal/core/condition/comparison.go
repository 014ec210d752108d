package condition

import (
	"cmp"
	"fmt"
	"slices"
)

// Comparison is the operator a comparison condition applies between the
// value extracted from a change and its configured constant.
type Comparison string

// Comparison operators.
const (
	ComparisonEqual              Comparison = "equal"
	ComparisonNotEqual           Comparison = "not_equal"
	ComparisonGreaterThan        Comparison = "greater_than"
	ComparisonGreaterThanOrEqual Comparison = "greater_than_or_equal"
	ComparisonLessThan           Comparison = "less_than"
	ComparisonLessThanOrEqual    Comparison = "less_than_or_equal"
)

// equalityComparisons is the operator set for values that only support
// equality, such as states and names.
var equalityComparisons = []Comparison{
	ComparisonEqual,
	ComparisonNotEqual,
}

// sortableComparisons is the full operator set for ordered values such as
// ages.
var sortableComparisons = []Comparison{
	ComparisonEqual,
	ComparisonNotEqual,
	ComparisonGreaterThan,
	ComparisonGreaterThanOrEqual,
	ComparisonLessThan,
	ComparisonLessThanOrEqual,
}

// validateComparison rejects operators outside the condition's declared
// set. Called at construction/decode time so an unsupported operator never
// reaches evaluation.
func validateComparison(c Comparison, allowed []Comparison) error {
	if !slices.Contains(allowed, c) {
		return fmt.Errorf("%w: %q (allowed: %v)", ErrInvalidComparison, c, allowed)
	}
	return nil
}

// compareEq applies an equality-only comparison.
func compareEq[T comparable](actual, expected T, c Comparison) bool {
	switch c {
	case ComparisonEqual:
		return actual == expected
	case ComparisonNotEqual:
		return actual != expected
	default:
		return false
	}
}

// compareOrdered applies any comparison operator over an ordered type.
func compareOrdered[T cmp.Ordered](actual, expected T, c Comparison) bool {
	switch c {
	case ComparisonEqual:
		return actual == expected
	case ComparisonNotEqual:
		return actual != expected
	case ComparisonGreaterThan:
		return actual > expected
	case ComparisonGreaterThanOrEqual:
		return actual >= expected
	case ComparisonLessThan:
		return actual < expected
	case ComparisonLessThanOrEqual:
		return actual <= expected
	default:
		return false
	}
}
