package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/lunagic/connect/connectservices/database/internal/utils"
	"github.com/spf13/cast"
)

// Row is one result row keyed by column name. A zero length Row is what the
// single row reads return when nothing matched.
type Row map[string]any

func (row Row) Empty() bool {
	return len(row) == 0
}

func (row Row) Int64(column string) int64 {
	return cast.ToInt64(row[column])
}

func (row Row) String(column string) string {
	return cast.ToString(row[column])
}

func (row Row) Float64(column string) float64 {
	return cast.ToFloat64(row[column])
}

func (row Row) Bool(column string) bool {
	return cast.ToBool(row[column])
}

func (row Row) Time(column string) time.Time {
	return cast.ToTime(row[column])
}

func scanRow(rows *sql.Rows, columns []string) (Row, error) {
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, column := range columns {
		// Text protocol results arrive as raw bytes owned by the driver.
		if raw, ok := values[i].([]byte); ok {
			row[column] = string(raw)
			continue
		}

		row[column] = values[i]
	}

	return row, nil
}

// Hydrate copies a row onto a struct using its db tags. Columns without a
// matching field are ignored, fields without a matching column keep their
// zero value.
func Hydrate[T any](row Row) (T, error) {
	target := *new(T)

	if err := utils.LoopOverTaggedFields(reflect.ValueOf(&target), func(tag utils.DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error {
		value, found := row[tag.Column]
		if !found {
			return nil
		}

		if err := setField(fieldValue, value, tag.JSON || shouldBeJSON(fieldDefinition.Type)); err != nil {
			return fmt.Errorf("column %s: %w", tag.Column, err)
		}

		return nil
	}); err != nil {
		return *new(T), connectFailure("hydrate "+reflect.TypeFor[T]().String(), err)
	}

	return target, nil
}

func HydrateAll[T any](rows []Row) ([]T, error) {
	targets := make([]T, 0, len(rows))
	for _, row := range rows {
		target, err := Hydrate[T](row)
		if err != nil {
			return nil, err
		}

		targets = append(targets, target)
	}

	return targets, nil
}

// ColumnsFromStruct turns a tagged struct into insert or update columns.
// readOnly and autoIncrement fields are left out.
func ColumnsFromStruct(value any) (*Columns, error) {
	columns := NewColumns()

	if err := utils.LoopOverTaggedFields(reflect.ValueOf(value), func(tag utils.DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error {
		if tag.ReadOnly || tag.AutoIncrement {
			return nil
		}

		if tag.JSON || shouldBeJSON(fieldDefinition.Type) {
			fieldBytes, err := json.Marshal(fieldValue.Interface())
			if err != nil {
				return fmt.Errorf("column %s: %w", tag.Column, err)
			}

			columns.Set(tag.Column, string(fieldBytes))
			return nil
		}

		columns.Set(tag.Column, fieldValue.Interface())

		return nil
	}); err != nil {
		return nil, connectFailure("columns from struct", err)
	}

	return columns, nil
}

func setField(field reflect.Value, value any, asJSON bool) error {
	if value == nil {
		field.SetZero()
		return nil
	}

	if asJSON {
		return json.Unmarshal([]byte(cast.ToString(value)), field.Addr().Interface())
	}

	if field.Kind() == reflect.Pointer {
		target := reflect.New(field.Type().Elem())
		if err := setField(target.Elem(), value, false); err != nil {
			return err
		}

		field.Set(target)
		return nil
	}

	if field.Type() == reflect.TypeFor[time.Time]() {
		converted, err := cast.ToTimeE(value)
		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(converted))
		return nil
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		converted, err := cast.ToInt64E(value)
		if err != nil {
			return err
		}
		field.SetInt(converted)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		converted, err := cast.ToUint64E(value)
		if err != nil {
			return err
		}
		field.SetUint(converted)
	case reflect.Float32, reflect.Float64:
		converted, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		field.SetFloat(converted)
	case reflect.Bool:
		converted, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		field.SetBool(converted)
	case reflect.String:
		converted, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		field.SetString(converted)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		field.SetBytes([]byte(cast.ToString(value)))
	default:
		converted := reflect.ValueOf(value)
		if !converted.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("cannot assign %T to %s", value, field.Type())
		}
		field.Set(converted.Convert(field.Type()))
	}

	return nil
}

// shouldBeJSON reports whether a field is stored as a JSON document. Byte
// slices and time.Time are stored natively.
func shouldBeJSON(fieldType reflect.Type) bool {
	switch fieldType.Kind() {
	case reflect.Slice:
		return fieldType.Elem().Kind() != reflect.Uint8
	case reflect.Map:
		return true
	case reflect.Struct:
		return fieldType != reflect.TypeFor[time.Time]()
	}

	return false
}
