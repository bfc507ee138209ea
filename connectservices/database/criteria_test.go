package database

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestCriteriaStableMerge(t *testing.T) {
	criteria := NewCriteria().
		WheresEqual(NewColumns().Set("a", 1).Set("b", 2)).
		WheresEqual(NewColumns().Set("a", 9).Set("c", 3))

	result := criteria.assembleWhere(&driverMySQL{})
	assert.Equal(t, "`a` = :w_a AND `b` = :w_b AND `c` = :w_c", result.Fragment)
	assert.DeepEqual(t, map[string]any{"w_a": 9, "w_b": 2, "w_c": 3}, result.Values)
}

func TestCriteriaDoesNotAliasColumns(t *testing.T) {
	filters := NewColumns().Set("a", 1)
	criteria := CriteriaFromColumns(filters)
	filters.Set("b", 2)

	assert.Equal(t, "`a` = :w_a", criteria.assembleWhere(&driverMySQL{}).Fragment)
}

func TestCriteriaModesAreExclusive(t *testing.T) {
	equalityThenRaw := NewCriteria().
		WhereEqual("status", 1).
		WhereRaw("id > :id", map[string]any{"id": 3})

	result := equalityThenRaw.assembleWhere(&driverMySQL{})
	assert.Equal(t, " id > :id ", result.Fragment)
	assert.DeepEqual(t, map[string]any{"id": 3}, result.Values)

	rawThenEquality := NewCriteria().
		WhereRaw("id > :id", map[string]any{"id": 3}).
		WhereEqual("status", 1)

	result = rawThenEquality.assembleWhere(&driverMySQL{})
	assert.Equal(t, "`status` = :w_status", result.Fragment)
	assert.DeepEqual(t, map[string]any{"w_status": 1}, result.Values)

	positionalThenNamed := NewCriteria().
		WhereRawArgs("id = ? OR id = ?", 1, 2).
		WhereRaw("id = :id", map[string]any{"id": 1})

	result = positionalThenNamed.assembleWhere(&driverMySQL{})
	assert.Equal(t, 0, len(result.Args))
}

func TestCriteriaRawPositional(t *testing.T) {
	result := NewCriteria().WhereRawArgs("id = ? OR id = ?", 1, 2).assembleWhere(&driverPostgres{})
	assert.Equal(t, " id = ? OR id = ? ", result.Fragment)
	assert.DeepEqual(t, []any{1, 2}, result.Args)

	empty := NewCriteria().WhereRawArgs("", 1).assembleWhere(&driverPostgres{})
	assert.Assert(t, empty.IsEmpty())
	assert.Equal(t, 0, len(empty.Args))
}

func TestCriteriaPagination(t *testing.T) {
	criteria := NewCriteria().Limit(5).Offset(10)
	assert.Equal(t, 5, *criteria.limit)
	assert.Equal(t, 10, *criteria.offset)

	criteria.Limit(-1).Offset(-1)
	assert.Assert(t, criteria.limit == nil)
	assert.Assert(t, criteria.offset == nil)
}

func TestCriteriaNil(t *testing.T) {
	var criteria *Criteria
	assert.Assert(t, criteria.assembleWhere(&driverMySQL{}).IsEmpty())
	assert.Assert(t, NewCriteria().assembleWhere(&driverMySQL{}).IsEmpty())
}
