package testutil

import "github.com/roach88/disaster-etl/internal/ir"

// Cell returns the value of row i in the named column, or Null when the
// table has no such column.
func Cell(t *ir.Table, i int, name string) ir.Value {
	idx := t.Index(name)
	if idx < 0 {
		return ir.Null{}
	}
	return t.Rows[i][idx]
}

// CloneTable copies the table's columns and rows so a test can check that
// a call left its input untouched. Cells are immutable and shared.
func CloneTable(t *ir.Table) *ir.Table {
	out := ir.NewTable(t.Columns...)
	out.Rows = make([]ir.Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append(ir.Row(nil), r...)
	}
	return out
}
