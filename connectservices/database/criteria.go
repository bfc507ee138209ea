package database

import "maps"

// Criteria describes which rows of a single table to read, in which order and
// which page of them. It holds either equality filters or a raw predicate,
// never both: switching modes discards the previous filter.
type Criteria struct {
	where   wherePredicate
	orderBy string
	limit   *int
	offset  *int
}

type wherePredicate interface {
	assemble(driver Driver) AssembleResult
}

type equalityPredicate struct {
	columns *Columns
}

func (p equalityPredicate) assemble(driver Driver) AssembleResult {
	return assembleEqualityWhere(driver, p.columns)
}

type rawPredicate struct {
	text   string
	values map[string]any
	args   []any
}

func (p rawPredicate) assemble(driver Driver) AssembleResult {
	result := assembleRawWhere(p.text, p.values)
	if result.Fragment != "" && len(p.args) > 0 {
		result.Args = append([]any{}, p.args...)
	}

	return result
}

func NewCriteria() *Criteria {
	return &Criteria{}
}

// CriteriaFromColumns starts a Criteria in equality mode.
func CriteriaFromColumns(where *Columns) *Criteria {
	return NewCriteria().WheresEqual(where)
}

// WhereEqual adds (or replaces) a single column = value filter.
func (criteria *Criteria) WhereEqual(column string, value any) *Criteria {
	return criteria.WheresEqual(NewColumns().Set(column, value))
}

// WheresEqual merges filters into the current equality filters. Columns
// already present keep their position and take the new value.
func (criteria *Criteria) WheresEqual(filters *Columns) *Criteria {
	current, ok := criteria.where.(equalityPredicate)
	if !ok {
		current = equalityPredicate{columns: NewColumns()}
	}

	criteria.where = equalityPredicate{
		columns: current.columns.clone().Merge(filters),
	}

	return criteria
}

// WhereRaw replaces the filter with a caller written predicate using :named
// placeholders. The text is not validated.
func (criteria *Criteria) WhereRaw(predicate string, values map[string]any) *Criteria {
	criteria.where = rawPredicate{
		text:   predicate,
		values: maps.Clone(values),
	}

	return criteria
}

// WhereRawArgs replaces the filter with a caller written predicate using ?
// placeholders bound in order. A ? inside a single quoted literal is text.
func (criteria *Criteria) WhereRawArgs(predicate string, args ...any) *Criteria {
	criteria.where = rawPredicate{
		text: predicate,
		args: append([]any{}, args...),
	}

	return criteria
}

// OrderBy sets the ORDER BY body, e.g. "`id` DESC". It is not validated.
func (criteria *Criteria) OrderBy(orderBy string) *Criteria {
	criteria.orderBy = orderBy

	return criteria
}

// Limit sets the page size. Negative values clear it.
func (criteria *Criteria) Limit(limit int) *Criteria {
	criteria.limit = nonNegative(limit)

	return criteria
}

// Offset sets the page start. It only takes effect together with a limit.
func (criteria *Criteria) Offset(offset int) *Criteria {
	criteria.offset = nonNegative(offset)

	return criteria
}

func (criteria *Criteria) assembleWhere(driver Driver) AssembleResult {
	if criteria == nil || criteria.where == nil {
		return newAssembleResult()
	}

	return criteria.where.assemble(driver)
}

func nonNegative(value int) *int {
	if value < 0 {
		return nil
	}

	return &value
}
