package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/disaster-etl/internal/ir"
	"github.com/roach88/disaster-etl/internal/store"
)

func sampleTable() *ir.Table {
	t := ir.NewTable(
		ir.Column{Name: "id", Kind: ir.KindInt},
		ir.Column{Name: "message", Kind: ir.KindText},
		ir.Column{Name: "original", Kind: ir.KindText},
		ir.Column{Name: "related", Kind: ir.KindInt},
	)
	t.Rows = []ir.Row{
		{ir.Int(1), ir.String("help"), ir.Null{}, ir.Int(1)},
		{ir.Int(2), ir.String("food"), ir.String("nourriture"), ir.Int(0)},
		{ir.Int(3), ir.String("help"), ir.Null{}, ir.Int(1)},
	}
	return t
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.ReplaceTable(context.Background(), "disaster_msg", sampleTable())
	require.NoError(t, err)
	return st
}

func testContext(t *testing.T) *AssertionContext {
	return &AssertionContext{Ctx: context.Background(), Store: setupTestStore(t), Table: "disaster_msg"}
}

func TestAssertRowCount(t *testing.T) {
	assert.NoError(t, assertRowCount(sampleTable(), Assertion{Type: AssertRowCount, Count: 3}))

	err := assertRowCount(sampleTable(), Assertion{Type: AssertRowCount, Count: 0})
	require.Error(t, err)
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "0 rows", aerr.Expected)
	assert.Equal(t, "3 rows", aerr.Actual)
}

func TestAssertColumns(t *testing.T) {
	tbl := sampleTable()
	assert.NoError(t, assertColumns(tbl, Assertion{Columns: []string{"id", "message", "original", "related"}}))
	assert.Error(t, assertColumns(tbl, Assertion{Columns: []string{"id", "message", "related", "original"}}))
	assert.Error(t, assertColumns(tbl, Assertion{Columns: []string{"id", "message"}}))
}

func TestAssertUniqueRows(t *testing.T) {
	tbl := sampleTable()
	assert.NoError(t, assertUniqueRows(tbl))

	tbl.Rows = append(tbl.Rows, ir.Row{ir.Int(2), ir.String("food"), ir.String("nourriture"), ir.Int(0)})
	err := assertUniqueRows(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows 1 and 3 are identical")
}

func TestAssertContainsRow_Pass(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where:  map[string]interface{}{"id": 2},
		Expect: map[string]interface{}{"message": "food", "related": 0},
	})
	assert.NoError(t, err)
}

func TestAssertContainsRow_NullValue(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where:  map[string]interface{}{"id": 1},
		Expect: map[string]interface{}{"original": nil},
	})
	assert.NoError(t, err)
}

func TestAssertContainsRow_NotFound(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where: map[string]interface{}{"id": 99},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row not found")
}

func TestAssertContainsRow_Ambiguous(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where: map[string]interface{}{"message": "help"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 rows matched")
}

func TestAssertContainsRow_ValueMismatch(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where:  map[string]interface{}{"id": 2},
		Expect: map[string]interface{}{"related": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "related" = 1`)
}

func TestAssertContainsRow_MissingColumn(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where:  map[string]interface{}{"id": 2},
		Expect: map[string]interface{}{"genre": "news"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present in result columns")
}

func TestAssertContainsRow_InvalidTableName(t *testing.T) {
	actx := testContext(t)
	err := assertContainsRow(actx.Ctx, actx.Store, "disaster_msg; DROP TABLE x", Assertion{
		Where: map[string]interface{}{"id": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestAssertAbsent(t *testing.T) {
	actx := testContext(t)
	assert.NoError(t, assertAbsent(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where: map[string]interface{}{"related": 2},
	}))

	err := assertAbsent(actx.Ctx, actx.Store, actx.Table, Assertion{
		Where: map[string]interface{}{"related": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 rows matched")
}

func TestBuildWhereClause_Empty(t *testing.T) {
	sql, args, err := buildWhereClause(nil)
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestBuildWhereClause_SortedDeterministic(t *testing.T) {
	sql, args, err := buildWhereClause(map[string]interface{}{
		"related":  1,
		"id":       2,
		"original": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "id = ? AND original IS NULL AND related = ?", sql)
	assert.Equal(t, []interface{}{int64(2), int64(1)}, args)
}

func TestBuildWhereClause_InvalidColumnName(t *testing.T) {
	_, _, err := buildWhereClause(map[string]interface{}{"id = 1 OR 1": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")
}

func TestToSQLValue(t *testing.T) {
	assert.Equal(t, int64(3), toSQLValue(3))
	assert.Equal(t, "x", toSQLValue("x"))
	assert.Equal(t, int64(1), toSQLValue(true))
	assert.Equal(t, int64(0), toSQLValue(false))
	assert.Equal(t, int64(5), toSQLValue(ir.Int(5)))
	assert.Equal(t, "1.5", toSQLValue(1.5))
}

func TestFormatWhereClause(t *testing.T) {
	assert.Equal(t, "(no conditions)", formatWhereClause(nil))
	assert.Equal(t, "id=1 AND message=help", formatWhereClause(map[string]interface{}{"message": "help", "id": 1}))
}

func TestStateValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
		actual   interface{}
		want     bool
	}{
		{"strings", "help", "help", true},
		{"bytes as text", "help", []byte("help"), true},
		{"string mismatch", "help", "food", false},
		{"int vs int64", 1, int64(1), true},
		{"int mismatch", 1, int64(2), false},
		{"int vs text", 1, "1", false},
		{"int64", int64(7), int64(7), true},
		{"bool true", true, int64(1), true},
		{"bool false", false, int64(0), true},
		{"nil vs nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"value vs nil", "x", nil, false},
		{"float unsupported", 1.0, int64(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateValuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	result := NewResult()
	result.Table = sampleTable()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertRowCount, Count: 3},
		{Type: AssertUniqueRows},
		{Type: AssertContainsRow, Where: map[string]interface{}{"id": 1}},
		{Type: AssertAbsent, Where: map[string]interface{}{"id": 4}},
	}, testContext(t))
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_SomeFail(t *testing.T) {
	result := NewResult()
	result.Table = sampleTable()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertRowCount, Count: 3},
		{Type: AssertRowCount, Count: 5},
		{Type: AssertColumns, Columns: []string{"id"}},
	}, nil)
	assert.Len(t, errs, 2)
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	result := NewResult()
	result.Table = sampleTable()

	errs := EvaluateAssertions(result, []Assertion{{Type: "trace_count"}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "trace_count"`)
}

func TestEvaluateAssertions_RequiresContext(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertContainsRow, Where: map[string]interface{}{"id": 1}},
		{Type: AssertRowCount, Count: 0},
	}, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "requires database context")
	assert.Contains(t, errs[1], "requires a persisted table")
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{Type: AssertRowCount, Expected: "1 rows", Actual: "2 rows"}
	assert.Equal(t, "Assertion failed: row_count\n  Expected: 1 rows\n  Actual: 2 rows\n", err.Error())
}
