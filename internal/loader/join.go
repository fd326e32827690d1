package loader

import (
	"fmt"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Suffixes applied to non-key columns present on both sides of a join.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// Join inner-joins left and right on the key column.
//
// The result has the key column once, then the remaining left columns, then
// the remaining right columns. Each matching (left row, right row) pair
// produces one result row, in left row order and then right row order. Rows
// whose key is Null or absent from the other side are dropped.
//
// Inputs are not modified.
func Join(left, right *ir.Table, key string) (*ir.Table, error) {
	li := left.Index(key)
	ri := right.Index(key)
	if li < 0 || ri < 0 {
		return nil, fmt.Errorf("%w: column %q must exist on both sides", ErrKeyMismatch, key)
	}
	if lk, rk := left.Columns[li].Kind, right.Columns[ri].Kind; lk != rk {
		return nil, fmt.Errorf("%w: column %q is %s on the left and %s on the right", ErrKeyMismatch, key, lk, rk)
	}

	cols, leftIdx, rightIdx := joinColumns(left, right, li, ri)

	index := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		k, ok := ir.JoinKey(row[ri])
		if !ok {
			continue
		}
		index[k] = append(index[k], i)
	}

	out := ir.NewTable(cols...)
	for _, lrow := range left.Rows {
		k, ok := ir.JoinKey(lrow[li])
		if !ok {
			continue
		}
		for _, r := range index[k] {
			rrow := right.Rows[r]
			row := make(ir.Row, 0, len(cols))
			row = append(row, lrow[li])
			for _, j := range leftIdx {
				row = append(row, lrow[j])
			}
			for _, j := range rightIdx {
				row = append(row, rrow[j])
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// joinColumns computes the result column layout and the source indexes of
// the non-key columns on each side.
func joinColumns(left, right *ir.Table, li, ri int) ([]ir.Column, []int, []int) {
	cols := []ir.Column{left.Columns[li]}
	var leftIdx, rightIdx []int

	for j, c := range left.Columns {
		if j == li {
			continue
		}
		if right.HasColumn(c.Name) {
			c.Name += LeftSuffix
		}
		cols = append(cols, c)
		leftIdx = append(leftIdx, j)
	}
	for j, c := range right.Columns {
		if j == ri {
			continue
		}
		if left.HasColumn(c.Name) {
			c.Name += RightSuffix
		}
		cols = append(cols, c)
		rightIdx = append(rightIdx, j)
	}
	return cols, leftIdx, rightIdx
}
