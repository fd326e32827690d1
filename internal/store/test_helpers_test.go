package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/disaster-etl/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTable creates a cleaned-shaped table with two rows.
func createTestTable() *ir.Table {
	t := ir.NewTable(
		ir.Column{Name: "id", Kind: ir.KindInt},
		ir.Column{Name: "message", Kind: ir.KindText},
		ir.Column{Name: "original", Kind: ir.KindText},
		ir.Column{Name: "related", Kind: ir.KindInt},
		ir.Column{Name: "request", Kind: ir.KindInt},
	)
	t.Rows = []ir.Row{
		{ir.Int(1), ir.String("help"), ir.Null{}, ir.Int(1), ir.Int(0)},
		{ir.Int(3), ir.String("water"), ir.String("eau"), ir.Int(0), ir.Int(1)},
	}
	return t
}
