// Package cleaner turns the merged messages/categories table into the
// cleaned table: one integer column per category label, sentinel rows
// removed, exact duplicates removed.
package cleaner

import (
	"fmt"
	"strings"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Options controls cleaning.
type Options struct {
	// PackedColumn holds the ";"-joined "label-value" tokens.
	PackedColumn string

	// IDColumn identifies rows in error messages.
	IDColumn string

	// SentinelLabel and SentinelValue select rows to drop.
	SentinelLabel string
	SentinelValue int64
}

// DefaultOptions returns the options for the disaster message datasets.
func DefaultOptions() Options {
	return Options{
		PackedColumn:  "categories",
		IDColumn:      "id",
		SentinelLabel: "related",
		SentinelValue: 2,
	}
}

// Report summarizes one Clean call.
type Report struct {
	Labels            ir.LabelSet `json:"labels"`
	InputRows         int         `json:"input_rows"`
	SentinelDropped   int         `json:"sentinel_dropped"`
	DuplicatesDropped int         `json:"duplicates_dropped"`
	OutputRows        int         `json:"output_rows"`
}

// Clean decodes, filters, and deduplicates the merged table.
//
// Labels are fixed from the first row, then every row is decoded against
// them; a row that does not match fails the whole call. Decoded values stay
// attached to the row they came from. The input table is not modified.
func Clean(merged *ir.Table, opts Options) (*ir.Table, Report, error) {
	report := Report{InputRows: merged.Len()}

	packedIdx := merged.Index(opts.PackedColumn)
	if packedIdx < 0 {
		return nil, report, fmt.Errorf("%w: %q", ErrMissingColumn, opts.PackedColumn)
	}

	records, err := categoryRecords(merged, packedIdx, opts.IDColumn)
	if err != nil {
		return nil, report, err
	}

	var labels ir.LabelSet
	if len(records) > 0 {
		labels, err = DeriveLabels(records[0])
		if err != nil {
			return nil, report, err
		}
	}
	report.Labels = labels

	decoded, err := expand(merged, packedIdx, records, labels)
	if err != nil {
		return nil, report, err
	}

	filtered, dropped, err := dropSentinel(decoded, labels, opts.SentinelLabel, opts.SentinelValue)
	if err != nil {
		return nil, report, err
	}
	report.SentinelDropped = dropped

	out, dupes, err := Deduplicate(filtered)
	if err != nil {
		return nil, report, err
	}
	report.DuplicatesDropped = dupes
	report.OutputRows = out.Len()

	return out, report, nil
}

// categoryRecords extracts the typed category record of every row.
func categoryRecords(t *ir.Table, packedIdx int, idColumn string) ([]ir.Category, error) {
	idIdx := t.Index(idColumn)
	records := make([]ir.Category, len(t.Rows))
	for i, row := range t.Rows {
		var id ir.Value = ir.Int(int64(i))
		if idIdx >= 0 {
			id = row[idIdx]
		}
		v := row[packedIdx]
		if ir.IsNull(v) {
			return nil, fmt.Errorf("%w: id %s: no categories", ErrMalformedToken, ir.Format(id))
		}
		s, ok := v.(ir.String)
		if !ok {
			return nil, fmt.Errorf("%w: id %s: %q is not text", ErrMalformedToken, ir.Format(id), ir.Format(v))
		}
		records[i] = ir.Category{ID: id, Packed: string(s)}
	}
	return records, nil
}

// expand drops the packed column and appends one column per label.
// Row i of the result is built from row i and records[i] together.
func expand(t *ir.Table, packedIdx int, records []ir.Category, labels ir.LabelSet) (*ir.Table, error) {
	var cols []ir.Column
	for j, c := range t.Columns {
		if j == packedIdx {
			continue
		}
		if foldIndex(labels, c.Name) >= 0 {
			return nil, fmt.Errorf("%w: label %q collides with an existing column", ErrMalformedToken, c.Name)
		}
		cols = append(cols, c)
	}
	cols = append(cols, labels.Columns()...)

	out := ir.NewTable(cols...)
	out.Rows = make([]ir.Row, len(t.Rows))
	for i, row := range t.Rows {
		values, err := Decode(records[i], labels)
		if err != nil {
			return nil, err
		}

		nr := make(ir.Row, 0, len(cols))
		for j, v := range row {
			if j != packedIdx {
				nr = append(nr, v)
			}
		}
		for _, l := range labels {
			nr = append(nr, ir.Int(values[l]))
		}
		out.Rows[i] = nr
	}
	return out, nil
}

// dropSentinel removes rows whose label column equals value exactly.
// The label must be one of the decoded labels; a passthrough column of the
// same name does not count. A table with no rows passes through unchecked.
func dropSentinel(t *ir.Table, labels ir.LabelSet, label string, value int64) (*ir.Table, int, error) {
	if t.Len() == 0 {
		return t, 0, nil
	}
	if labels.Index(label) < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingLabel, label)
	}
	idx := t.Index(label)

	out := ir.NewTable(t.Columns...)
	dropped := 0
	for _, row := range t.Rows {
		if v, ok := row[idx].(ir.Int); ok && int64(v) == value {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, dropped, nil
}

// foldIndex finds name among labels ignoring case. SQLite column names are
// case-insensitive, so labels that differ only in case collide on save.
func foldIndex(labels ir.LabelSet, name string) int {
	for i, l := range labels {
		if strings.EqualFold(l, name) {
			return i
		}
	}
	return -1
}
