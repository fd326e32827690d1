package store

import (
	"context"
	"fmt"

	"github.com/roach88/disaster-etl/internal/ir"
)

// ReplaceTable writes t as the table name, replacing any existing table of
// that name. Runs in one transaction: on error nothing changes.
//
// Returns the number of rows written.
func (s *Store) ReplaceTable(ctx context.Context, name string, t *ir.Table) (int, error) {
	create, err := createTableSQL(name, t.Columns)
	if err != nil {
		return 0, storageErr("replace table", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("replace table: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return 0, storageErr("replace table: drop", err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, storageErr("replace table: create", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(name, t.Columns))
	if err != nil {
		return 0, storageErr("replace table: prepare insert", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return 0, storageErr("replace table", fmt.Errorf("row %d has %d values, want %d", i, len(row), len(t.Columns)))
		}
		for j, v := range row {
			args[j] = ir.ToSQL(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, storageErr(fmt.Sprintf("replace table: insert row %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("replace table: commit", err)
	}
	return t.Len(), nil
}
