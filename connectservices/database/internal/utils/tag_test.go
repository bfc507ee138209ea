package utils_test

import (
	"reflect"
	"testing"

	"github.com/lunagic/connect/connectservices/database/internal/utils"
	"gotest.tools/v3/assert"
)

type taggedRole struct {
	ID       int64          `db:"id,primaryKey,autoIncrement"`
	Name     string         `db:"name"`
	Created  string         `db:"created_at,readOnly"`
	Settings map[string]any `db:"settings,json"`
	Ignored  string         `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestParseTag(t *testing.T) {
	field, _ := reflect.TypeFor[taggedRole]().FieldByName("ID")
	assert.DeepEqual(t, utils.DBTag{
		Column:        "id",
		PrimaryKey:    true,
		AutoIncrement: true,
	}, utils.ParseTag(field.Tag))

	field, _ = reflect.TypeFor[taggedRole]().FieldByName("Ignored")
	assert.Equal(t, "", utils.ParseTag(field.Tag).Column)
}

func TestLoopOverTaggedFields(t *testing.T) {
	columns := []string{}
	err := utils.LoopOverTaggedFields(reflect.ValueOf(&taggedRole{}), func(tag utils.DBTag, _ reflect.StructField, _ reflect.Value) error {
		columns = append(columns, tag.Column)
		return nil
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"id", "name", "created_at", "settings"}, columns)

	err = utils.LoopOverTaggedFields(reflect.ValueOf(42), nil)
	assert.ErrorIs(t, err, utils.ErrNotStruct)
}
