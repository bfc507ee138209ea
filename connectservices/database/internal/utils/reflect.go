package utils

import (
	"errors"
	"reflect"
)

var ErrNotStruct = errors.New("value is not a struct")

// LoopOverTaggedFields calls fieldHandler for every exported field carrying a
// db column tag. Pointers to structs are followed.
func LoopOverTaggedFields(
	value reflect.Value,
	fieldHandler func(tag DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error,
) error {
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return ErrNotStruct
	}

	for i := range value.NumField() {
		fieldDefinition := value.Type().Field(i)
		if !fieldDefinition.IsExported() {
			continue
		}

		tag := ParseTag(fieldDefinition.Tag)
		if tag.Column == "" {
			continue
		}

		if err := fieldHandler(tag, fieldDefinition, value.Field(i)); err != nil {
			return err
		}
	}

	return nil
}
