package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	t := NewTable(Column{Name: "id", Kind: KindInt}, Column{Name: "message", Kind: KindText})
	t.Rows = []Row{
		{Int(1), String("help")},
		{Int(2), String("food")},
	}
	return t
}

func TestTableIndex(t *testing.T) {
	tbl := testTable()
	assert.Equal(t, 0, tbl.Index("id"))
	assert.Equal(t, 1, tbl.Index("message"))
	assert.Equal(t, -1, tbl.Index("genre"))
	assert.True(t, tbl.HasColumn("message"))
	assert.False(t, tbl.HasColumn("genre"))
	assert.Equal(t, []string{"id", "message"}, tbl.ColumnNames())
}

func TestLabelSet(t *testing.T) {
	ls := LabelSet{"related", "request", "offer"}
	assert.Equal(t, 1, ls.Index("request"))
	assert.Equal(t, -1, ls.Index("missing"))

	cols := ls.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, Column{Name: "offer", Kind: KindInt}, cols[2])
}
