package utils_test

import (
	"testing"

	"github.com/lunagic/connect/connectservices/database/internal/utils"
	"gotest.tools/v3/assert"
)

func TestPrepare(t *testing.T) {
	testCases := []struct {
		name           string
		statement      string
		parameters     map[string]any
		positional     []any
		numbered       bool
		expectedQuery  string
		expectedParams []any
	}{
		{
			name:           "named to question marks",
			statement:      "SELECT * FROM `role` WHERE `id` = :w_id AND `name` = :w_name",
			parameters:     map[string]any{"w_id": 1, "w_name": "admin"},
			expectedQuery:  "SELECT * FROM `role` WHERE `id` = ? AND `name` = ?",
			expectedParams: []any{1, "admin"},
		},
		{
			name:           "named to numbered",
			statement:      `UPDATE "role" SET "status" = :u_status WHERE "id" = :w_id`,
			parameters:     map[string]any{"w_id": 4, "u_status": 0},
			numbered:       true,
			expectedQuery:  `UPDATE "role" SET "status" = $1 WHERE "id" = $2`,
			expectedParams: []any{0, 4},
		},
		{
			name:           "keys with leading colon",
			statement:      "SELECT 1 WHERE a = :a",
			parameters:     map[string]any{":a": "x"},
			expectedQuery:  "SELECT 1 WHERE a = ?",
			expectedParams: []any{"x"},
		},
		{
			name:           "repeated placeholder binds twice",
			statement:      "SELECT 1 WHERE a = :v OR b = :v",
			parameters:     map[string]any{"v": 3},
			numbered:       true,
			expectedQuery:  "SELECT 1 WHERE a = $1 OR b = $2",
			expectedParams: []any{3, 3},
		},
		{
			name:           "slice expands",
			statement:      "SELECT * FROM role WHERE id IN (:ids)",
			parameters:     map[string]any{"ids": []int64{1, 2, 3}},
			numbered:       true,
			expectedQuery:  "SELECT * FROM role WHERE id IN ($1, $2, $3)",
			expectedParams: []any{int64(1), int64(2), int64(3)},
		},
		{
			name:           "bytes do not expand",
			statement:      "SELECT 1 WHERE a = :blob",
			parameters:     map[string]any{"blob": []byte("ab")},
			expectedQuery:  "SELECT 1 WHERE a = ?",
			expectedParams: []any{[]byte("ab")},
		},
		{
			name:           "nil value",
			statement:      "UPDATE t SET a = :a",
			parameters:     map[string]any{"a": nil},
			expectedQuery:  "UPDATE t SET a = ?",
			expectedParams: []any{nil},
		},
		{
			name:           "postgres cast untouched",
			statement:      "SELECT :value::text",
			parameters:     map[string]any{"value": "1", "text": "nope"},
			numbered:       true,
			expectedQuery:  "SELECT $1::text",
			expectedParams: []any{"1"},
		},
		{
			name:           "unbound placeholder untouched",
			statement:      "SELECT 1 WHERE a = :missing",
			expectedQuery:  "SELECT 1 WHERE a = :missing",
			expectedParams: []any{},
		},
		{
			name:           "positional",
			statement:      "SELECT * FROM role WHERE id = ? OR name = ?",
			positional:     []any{7, "admin"},
			numbered:       true,
			expectedQuery:  "SELECT * FROM role WHERE id = $1 OR name = $2",
			expectedParams: []any{7, "admin"},
		},
		{
			name:           "question marks without positional args",
			statement:      "SELECT '?'",
			expectedQuery:  "SELECT '?'",
			expectedParams: []any{},
		},
		{
			name:           "question mark inside literal with positional args",
			statement:      "SELECT * FROM role WHERE name = 'who?' OR id = ?",
			positional:     []any{5},
			expectedQuery:  "SELECT * FROM role WHERE name = 'who?' OR id = ?",
			expectedParams: []any{5},
		},
		{
			name:           "named placeholder inside literal",
			statement:      "SELECT * FROM role WHERE name = ':w_name' AND id = :w_id",
			parameters:     map[string]any{"w_name": "admin", "w_id": 2},
			numbered:       true,
			expectedQuery:  "SELECT * FROM role WHERE name = ':w_name' AND id = $1",
			expectedParams: []any{2},
		},
		{
			name:           "escaped quote inside literal",
			statement:      "SELECT * FROM role WHERE name = 'it''s ?' AND id = ?",
			positional:     []any{3},
			numbered:       true,
			expectedQuery:  "SELECT * FROM role WHERE name = 'it''s ?' AND id = $1",
			expectedParams: []any{3},
		},
		{
			name: "collapses indentation",
			statement: `
				SELECT *
				FROM role
				WHERE id = :id
			`,
			parameters:     map[string]any{"id": 1},
			expectedQuery:  "SELECT * FROM role WHERE id = ?",
			expectedParams: []any{1},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actualQuery, actualParams, err := utils.Prepare(
				testCase.statement,
				testCase.parameters,
				testCase.positional,
				testCase.numbered,
			)
			assert.NilError(t, err)
			assert.Equal(t, testCase.expectedQuery, actualQuery)
			assert.DeepEqual(t, testCase.expectedParams, actualParams)
		})
	}
}

func TestPreparePositionalMismatch(t *testing.T) {
	_, _, err := utils.Prepare("SELECT 1 WHERE a = ? AND b = ?", nil, []any{1}, false)
	assert.ErrorIs(t, err, utils.ErrPositionalMismatch)

	_, _, err = utils.Prepare("SELECT 1 WHERE a = ?", nil, []any{1, 2}, false)
	assert.ErrorIs(t, err, utils.ErrPositionalMismatch)
}
