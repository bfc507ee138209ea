package connecttools_test

import (
	"testing"

	"github.com/lunagic/connect/connecttools"
	"gotest.tools/v3/assert"
)

func TestMap(t *testing.T) {
	assert.DeepEqual(
		t,
		[]string{
			"`name`",
			"`status`",
		},
		connecttools.Map(
			[]string{"name", "status"},
			func(column string) string {
				return "`" + column + "`"
			},
		),
	)
}

func TestMapEmpty(t *testing.T) {
	assert.DeepEqual(t, []int{}, connecttools.Map([]string(nil), func(string) int { return 1 }))
}
