package cleaner

import (
	"fmt"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Deduplicate removes rows equal to an earlier row across every column.
// The first occurrence is kept and surviving rows keep their order.
// Returns the new table and the number of rows removed.
func Deduplicate(t *ir.Table) (*ir.Table, int, error) {
	out := ir.NewTable(t.Columns...)
	seen := make(map[string]struct{}, t.Len())
	for i, row := range t.Rows {
		key, err := ir.RowKey(row)
		if err != nil {
			return nil, 0, fmt.Errorf("deduplicate row %d: %w", i, err)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, t.Len() - out.Len(), nil
}
