package store

import (
	"context"
	"fmt"

	"github.com/roach88/disaster-etl/internal/ir"
)

// TableNames returns the user tables in the database, sorted by name.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, storageErr("list tables", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("list tables: scan", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list tables: iterate", err)
	}
	return names, nil
}

// ReadTable reads a whole table back in insertion order.
// Column kinds come from the declared column types.
func (s *Store) ReadTable(ctx context.Context, name string) (*ir.Table, error) {
	cols, err := s.columns(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid ASC", quoteIdent(name)))
	if err != nil {
		return nil, storageErr("read table", err)
	}
	defer rows.Close()

	t := ir.NewTable(cols...)
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, storageErr("read table: scan", err)
		}
		row := make(ir.Row, len(cols))
		for i, src := range dest {
			v, err := ir.FromSQL(src)
			if err != nil {
				return nil, storageErr("read table", err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read table: iterate", err)
	}
	return t, nil
}

// columns reads the declared column layout of a table.
func (s *Store) columns(ctx context.Context, name string) ([]ir.Column, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return nil, storageErr("table info", err)
	}
	defer rows.Close()

	var cols []ir.Column
	for rows.Next() {
		var (
			cid       int
			colName   string
			decl      string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &colName, &decl, &notNull, &dfltValue, &pk); err != nil {
			return nil, storageErr("table info: scan", err)
		}
		cols = append(cols, ir.Column{Name: colName, Kind: kindFromDecl(decl)})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("table info: iterate", err)
	}
	if len(cols) == 0 {
		return nil, storageErr("read table", fmt.Errorf("table %q not found", name))
	}
	return cols, nil
}
