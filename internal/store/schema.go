package store

import (
	"fmt"
	"strings"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Declared SQLite column types per column kind.
const (
	declInt  = "BIGINT"
	declText = "TEXT"
)

// declType returns the declared column type for a kind.
func declType(k ir.Kind) string {
	if k == ir.KindInt {
		return declInt
	}
	return declText
}

// kindFromDecl maps a declared column type back to a kind.
// SQLite integer affinity is any declared type containing "INT".
func kindFromDecl(decl string) ir.Kind {
	if strings.Contains(strings.ToUpper(decl), "INT") {
		return ir.KindInt
	}
	return ir.KindText
}

// quoteIdent quotes a table or column name for SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// createTableSQL builds CREATE TABLE for the table's columns.
func createTableSQL(name string, cols []ir.Column) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("table %q has no columns", name)
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + declType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(name), strings.Join(defs, ",\n\t")), nil
}

// insertSQL builds a parameterized INSERT for the table's columns.
func insertSQL(name string, cols []ir.Column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(names, ", "), strings.Join(marks, ", "))
}
