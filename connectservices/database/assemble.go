package database

import (
	"fmt"
	"maps"
	"strings"

	"github.com/lunagic/connect/connecttools"
)

// Placeholder prefixes per fragment kind. An UPDATE binds SET and WHERE
// values derived from the same column names, so each kind gets its own.
const (
	prefixWhere  = "w_"
	prefixUpdate = "u_"
	prefixInsert = "i_"
)

// AssembleResult is a SQL fragment and the values bound to its placeholders.
// Values are keyed by placeholder name without the leading colon. Args holds
// positional values for fragments written with ? placeholders.
type AssembleResult struct {
	Fragment string
	Values   map[string]any
	Args     []any
}

func newAssembleResult() AssembleResult {
	return AssembleResult{
		Values: map[string]any{},
	}
}

func (result AssembleResult) IsEmpty() bool {
	return result.Fragment == ""
}

// quoteIdentifier wraps name in quote, doubling any quote inside it. Any
// string is accepted, the empty string becomes an empty quoted identifier.
func quoteIdentifier(quote string, name string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// placeholderNames derives one placeholder per column. Characters that cannot
// appear in a placeholder become underscores and clashes get a numeric suffix.
func placeholderNames(prefix string, columns []Column) []string {
	used := map[string]bool{}
	names := make([]string, 0, len(columns))

	for _, column := range columns {
		base := prefix + strings.Map(func(r rune) rune {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}

			return '_'
		}, column.Name)

		name := base
		for suffix := 2; used[name]; suffix++ {
			name = fmt.Sprintf("%s_%d", base, suffix)
		}

		used[name] = true
		names = append(names, name)
	}

	return names
}

func assembleEqualityWhere(driver Driver, filters *Columns) AssembleResult {
	result := newAssembleResult()

	columns := filters.All()
	if len(columns) == 0 {
		return result
	}

	names := placeholderNames(prefixWhere, columns)
	parts := make([]string, 0, len(columns))
	for i, column := range columns {
		parts = append(parts, driver.quoteIdentifier(column.Name)+" = :"+names[i])
		result.Values[names[i]] = column.Value
	}

	result.Fragment = strings.Join(parts, " AND ")

	return result
}

// assembleRawWhere passes the caller's values through untouched. Empty
// predicates bind nothing.
func assembleRawWhere(predicate string, values map[string]any) AssembleResult {
	result := newAssembleResult()

	predicate = strings.TrimSpace(predicate)
	if predicate == "" {
		return result
	}

	result.Fragment = " " + predicate + " "
	for key, value := range values {
		result.Values[strings.TrimPrefix(key, ":")] = value
	}

	return result
}

func assembleInsert(driver Driver, values *Columns) AssembleResult {
	result := newAssembleResult()

	columns := values.All()
	names := placeholderNames(prefixInsert, columns)
	for i, column := range columns {
		result.Values[names[i]] = column.Value
	}

	result.Fragment = fmt.Sprintf(
		"(%s) VALUES (%s)",
		strings.Join(connecttools.Map(columns, func(column Column) string {
			return driver.quoteIdentifier(column.Name)
		}), ","),
		strings.Join(connecttools.Map(names, func(name string) string {
			return ":" + name
		}), ","),
	)

	return result
}

func assembleUpdateSet(driver Driver, values *Columns) AssembleResult {
	result := newAssembleResult()

	columns := values.All()
	if len(columns) == 0 {
		return result
	}

	names := placeholderNames(prefixUpdate, columns)
	parts := make([]string, 0, len(columns))
	for i, column := range columns {
		parts = append(parts, driver.quoteIdentifier(column.Name)+" = :"+names[i])
		result.Values[names[i]] = column.Value
	}

	result.Fragment = strings.Join(parts, ", ")

	return result
}

func assembleOrderBy(orderBy string) string {
	if strings.TrimSpace(orderBy) == "" {
		return ""
	}

	return " ORDER BY " + orderBy
}

// assembleLimit renders the MySQL/SQLite form. An offset without a limit is
// dropped.
func assembleLimit(limit *int, offset *int) string {
	if limit == nil || *limit < 0 {
		return ""
	}

	if offset != nil && *offset >= 0 {
		return fmt.Sprintf(" LIMIT %d,%d", *offset, *limit)
	}

	return fmt.Sprintf(" LIMIT %d", *limit)
}

// assembleLimitOffset renders the Postgres form with the same presence rules
// as assembleLimit.
func assembleLimitOffset(limit *int, offset *int) string {
	if limit == nil || *limit < 0 {
		return ""
	}

	if offset != nil && *offset >= 0 {
		return fmt.Sprintf(" LIMIT %d OFFSET %d", *limit, *offset)
	}

	return fmt.Sprintf(" LIMIT %d", *limit)
}

func mergeValues(results ...AssembleResult) map[string]any {
	values := map[string]any{}
	for _, result := range results {
		maps.Copy(values, result.Values)
	}

	return values
}
