package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/roach88/disaster-etl/internal/ir"
)

// ReadCSV reads a comma-delimited file with a header row into a Table.
// Column kinds are inferred per column (see ir.InferKind).
func ReadCSV(path string) (*ir.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()

	return ParseCSV(f, path)
}

// ParseCSV parses CSV content from r. name is used in error messages.
//
// Input must be UTF-8: invalid byte sequences are a parse error, never
// replaced. A leading UTF-8 BOM is stripped. Blank lines are skipped. Rows
// shorter than the header are padded with Null cells; longer rows are
// rejected.
func ParseCSV(r io.Reader, name string) (*ir.Table, error) {
	// Validate before BOMOverride: its UTF-8 decoder replaces invalid bytes with U+FFFD
	dec := transform.Chain(encoding.UTF8Validator, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1

	// line of the last complete record, for errors raised mid-record
	line := 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, parseError(name, "missing header row")
	}
	if err != nil {
		return nil, csvError(name, line+1, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, parseError(name, "%v", err)
	}
	line, _ = cr.FieldPos(0)

	var raw [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, line+1, err)
		}
		line, _ = cr.FieldPos(0)
		if len(rec) > len(header) {
			return nil, parseError(name, "line %d: expected %d fields, got %d", line, len(header), len(rec))
		}
		raw = append(raw, rec)
	}

	return buildTable(header, raw), nil
}

// checkHeader rejects empty and duplicate column names.
func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			return fmt.Errorf("header column %d is empty", i+1)
		}
		if seen[h] {
			return fmt.Errorf("duplicate header column %q", h)
		}
		seen[h] = true
	}
	return nil
}

// buildTable infers one kind per column and converts raw fields to cells.
func buildTable(header []string, raw [][]string) *ir.Table {
	cols := make([]ir.Column, len(header))
	for j, h := range header {
		fields := make([]string, len(raw))
		for i, rec := range raw {
			if j < len(rec) {
				fields[i] = rec[j]
			}
		}
		cols[j] = ir.Column{Name: h, Kind: ir.InferKind(fields)}
	}

	t := ir.NewTable(cols...)
	t.Rows = make([]ir.Row, len(raw))
	for i, rec := range raw {
		row := make(ir.Row, len(cols))
		for j, c := range cols {
			if j < len(rec) {
				row[j] = ir.CellFromRaw(rec[j], c.Kind)
			} else {
				row[j] = ir.Null{}
			}
		}
		t.Rows[i] = row
	}
	return t
}

// csvError classifies a read failure. line is where the failing record
// starts when the csv reader cannot say.
func csvError(name string, line int, err error) *Error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return parseError(name, "line %d: %v", pe.Line, pe.Err)
	}
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return parseError(name, "line %d: invalid UTF-8", line)
	}
	return fileError(name, err)
}
