package database

import "sort"

type Column struct {
	Name  string
	Value any
}

// Columns is an ordered column to value mapping. Setting an existing column
// replaces its value but keeps its original position.
type Columns struct {
	columns []Column
}

func NewColumns() *Columns {
	return &Columns{}
}

// ColumnsFromMap builds Columns from a map, ordered by column name.
func ColumnsFromMap(values map[string]any) *Columns {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := NewColumns()
	for _, name := range names {
		columns.Set(name, values[name])
	}

	return columns
}

func (columns *Columns) Set(name string, value any) *Columns {
	for i, column := range columns.columns {
		if column.Name == name {
			columns.columns[i].Value = value
			return columns
		}
	}

	columns.columns = append(columns.columns, Column{Name: name, Value: value})

	return columns
}

// Merge copies every column of other into columns, overwriting values of
// columns that already exist in place.
func (columns *Columns) Merge(other *Columns) *Columns {
	for _, column := range other.All() {
		columns.Set(column.Name, column.Value)
	}

	return columns
}

func (columns *Columns) Get(name string) (any, bool) {
	for _, column := range columns.All() {
		if column.Name == name {
			return column.Value, true
		}
	}

	return nil, false
}

func (columns *Columns) Len() int {
	if columns == nil {
		return 0
	}

	return len(columns.columns)
}

func (columns *Columns) All() []Column {
	if columns == nil {
		return nil
	}

	return append([]Column{}, columns.columns...)
}

func (columns *Columns) Names() []string {
	names := []string{}
	for _, column := range columns.All() {
		names = append(names, column.Name)
	}

	return names
}

func (columns *Columns) clone() *Columns {
	return NewColumns().Merge(columns)
}
