package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/disaster-etl/internal/ir"
)

// Snapshot renders a scenario result as deterministic text for golden
// comparison. Paths are left out since every run uses a fresh temp dir.
//
// Format:
//
//	scenario: <name>
//	run_id: <id>
//	failed_stage: <stage>        (failed runs only)
//	table: <table>
//	tables: <table>,<table>,...
//	merged_rows: <n>
//	labels: <label>,<label>,...
//	sentinel_dropped: <n>
//	duplicates_dropped: <n>
//	rows_written: <n>
//	columns:
//	  <name> <kind>
//	rows:
//	  <canonical JSON row>
func Snapshot(name string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)

	if result.Summary == nil {
		fmt.Fprintf(&buf, "failed_stage: %s\n", result.FailedStage)
		return buf.Bytes(), nil
	}

	s := result.Summary
	fmt.Fprintf(&buf, "run_id: %s\n", s.RunID)
	fmt.Fprintf(&buf, "table: %s\n", s.Table)
	fmt.Fprintf(&buf, "tables: %s\n", strings.Join(result.Tables, ","))
	fmt.Fprintf(&buf, "merged_rows: %d\n", s.MergedRows)
	fmt.Fprintf(&buf, "labels: %s\n", strings.Join(s.Labels, ","))
	fmt.Fprintf(&buf, "sentinel_dropped: %d\n", s.SentinelDropped)
	fmt.Fprintf(&buf, "duplicates_dropped: %d\n", s.DuplicatesDropped)
	fmt.Fprintf(&buf, "rows_written: %d\n", s.RowsWritten)

	if result.Table == nil {
		return buf.Bytes(), nil
	}
	buf.WriteString("columns:\n")
	for _, c := range result.Table.Columns {
		fmt.Fprintf(&buf, "  %s %s\n", c.Name, c.Kind)
	}
	buf.WriteString("rows:\n")
	for i, row := range result.Table.Rows {
		b, err := ir.MarshalCanonical(row)
		if err != nil {
			return nil, fmt.Errorf("rows[%d]: %w", i, err)
		}
		fmt.Fprintf(&buf, "  %s\n", b)
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)

	return nil
}
