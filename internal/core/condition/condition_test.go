package condition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/change"
	"github.com/fxchen/autotransform/internal/core/registry"
)

func frozenNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func TestChangeStateCondition(t *testing.T) {
	t.Run("equality only", func(t *testing.T) {
		_, err := NewChangeStateCondition(ComparisonGreaterThan, change.StateOpen)
		require.ErrorIs(t, err, ErrInvalidComparison)
	})

	t.Run("equal and not equal", func(t *testing.T) {
		eq, err := NewChangeStateCondition(ComparisonEqual, change.StateOpen)
		require.NoError(t, err)
		ne, err := NewChangeStateCondition(ComparisonNotEqual, change.StateOpen)
		require.NoError(t, err)

		open := change.Change{State: change.StateOpen}
		merged := change.Change{State: change.StateMerged}

		assert.True(t, eq.Check(open))
		assert.False(t, eq.Check(merged))
		assert.False(t, ne.Check(open))
		assert.True(t, ne.Check(merged))
	})
}

func TestSchemaNameCondition(t *testing.T) {
	cond, err := NewSchemaNameCondition(ComparisonEqual, "cleanup")
	require.NoError(t, err)

	assert.True(t, cond.Check(change.Change{SchemaName: "cleanup"}))
	assert.False(t, cond.Check(change.Change{SchemaName: "other"}))

	_, err = NewSchemaNameCondition(ComparisonLessThan, "cleanup")
	require.ErrorIs(t, err, ErrInvalidComparison)
}

func TestAgeConditions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	frozenNow(t, now)

	ch := change.Change{
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-10 * time.Minute),
	}

	tests := []struct {
		name       string
		comparison Comparison
		value      int64
		created    bool
		want       bool
	}{
		{"created greater than 30m", ComparisonGreaterThan, 1800, true, true},
		{"created less than 30m", ComparisonLessThan, 1800, true, false},
		{"created equal exact", ComparisonEqual, 3600, true, true},
		{"created gte exact", ComparisonGreaterThanOrEqual, 3600, true, true},
		{"updated less than 30m", ComparisonLessThan, 1800, false, true},
		{"updated not equal", ComparisonNotEqual, 600, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cond Condition
			var err error
			if tt.created {
				cond, err = NewCreatedAgoCondition(tt.comparison, tt.value)
			} else {
				cond, err = NewUpdatedAgoCondition(tt.comparison, tt.value)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cond.Check(ch))
		})
	}

	t.Run("age conditions accept the full ordered set", func(t *testing.T) {
		for _, c := range sortableComparisons {
			_, err := NewCreatedAgoCondition(c, 1)
			assert.NoError(t, err, "comparison %s", c)
		}
	})

	t.Run("unknown comparison rejected", func(t *testing.T) {
		_, err := NewCreatedAgoCondition(Comparison("between"), 1)
		require.ErrorIs(t, err, ErrInvalidComparison)
	})
}

func TestAggregateCondition(t *testing.T) {
	open, err := NewChangeStateCondition(ComparisonEqual, change.StateOpen)
	require.NoError(t, err)
	named, err := NewSchemaNameCondition(ComparisonEqual, "cleanup")
	require.NoError(t, err)

	matching := change.Change{State: change.StateOpen, SchemaName: "cleanup"}
	partial := change.Change{State: change.StateOpen, SchemaName: "other"}
	neither := change.Change{State: change.StateMerged, SchemaName: "other"}

	t.Run("all", func(t *testing.T) {
		cond, err := NewAggregateCondition(AggregationAll, []Condition{open, named})
		require.NoError(t, err)

		assert.True(t, cond.Check(matching))
		assert.False(t, cond.Check(partial))
		assert.False(t, cond.Check(neither))
	})

	t.Run("any", func(t *testing.T) {
		cond, err := NewAggregateCondition(AggregationAny, []Condition{open, named})
		require.NoError(t, err)

		assert.True(t, cond.Check(matching))
		assert.True(t, cond.Check(partial))
		assert.False(t, cond.Check(neither))
	})

	t.Run("mode is explicit", func(t *testing.T) {
		_, err := NewAggregateCondition(Aggregation(""), []Condition{open})
		require.Error(t, err)
	})

	t.Run("requires at least one child", func(t *testing.T) {
		_, err := NewAggregateCondition(AggregationAll, nil)
		require.Error(t, err)
	})
}

func TestFactory_RoundTrip(t *testing.T) {
	state, err := NewChangeStateCondition(ComparisonNotEqual, change.StateMerged)
	require.NoError(t, err)
	name, err := NewSchemaNameCondition(ComparisonEqual, "cleanup")
	require.NoError(t, err)
	created, err := NewCreatedAgoCondition(ComparisonGreaterThanOrEqual, 86400)
	require.NoError(t, err)
	updated, err := NewUpdatedAgoCondition(ComparisonLessThan, 3600)
	require.NoError(t, err)
	nested, err := NewAggregateCondition(AggregationAny, []Condition{state, created})
	require.NoError(t, err)
	aggregate, err := NewAggregateCondition(AggregationAll, []Condition{name, nested})
	require.NoError(t, err)

	tests := []struct {
		name string
		cond Condition
	}{
		{"change state", state},
		{"schema name", name},
		{"created ago", created},
		{"updated ago", updated},
		{"nested aggregate", aggregate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := registry.Encode(tt.cond)
			require.NoError(t, err)

			decoded, err := Factory.Get(b)
			require.NoError(t, err)
			assert.Equal(t, tt.cond, decoded)
		})
	}
}

func TestFactory_RejectsInvalidComparison(t *testing.T) {
	_, err := Factory.Get(registry.Bundle{
		Name:   NameChangeState,
		Params: []byte(`{"comparison":"greater_than","value":"open"}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidComparison)
}

func TestFactory_Complete(t *testing.T) {
	assert.NoError(t, Factory.Validate(Names))
}
