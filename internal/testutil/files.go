// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name inside dir and returns the full path.
// Fails the test on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteCSV writes header and rows as a CSV file inside dir and returns the
// full path. Fields are quoted as needed.
func WriteCSV(t *testing.T, dir, name string, header []string, rows ...[]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// Messages writes a messages.csv with the standard columns
// (id, message, original, genre) and returns its path.
func Messages(t *testing.T, dir string, rows ...[]string) string {
	t.Helper()
	return WriteCSV(t, dir, "messages.csv", []string{"id", "message", "original", "genre"}, rows...)
}

// Categories writes a categories.csv with columns (id, categories) and
// returns its path.
func Categories(t *testing.T, dir string, rows ...[]string) string {
	t.Helper()
	return WriteCSV(t, dir, "categories.csv", []string{"id", "categories"}, rows...)
}
