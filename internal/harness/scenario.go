package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/disaster-etl/internal/pipeline"
)

// Scenario defines an end-to-end pipeline scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Messages is the messages CSV, header included.
	Messages string `yaml:"messages"`

	// Categories is the categories CSV, header included.
	Categories string `yaml:"categories"`

	// Table overrides the destination table name.
	Table string `yaml:"table,omitempty"`

	// ExpectError names the stage expected to fail: load, clean or save.
	// When set, assertions must be empty.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the persisted table.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is an optional fixed run id.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// Assertion validates the persisted table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "row_count": table has exactly Count rows
	// - "columns": table columns are exactly Columns, in order
	// - "contains_row": a row matching Where exists, with Expect values
	// - "absent": no row matches Where
	// - "unique_rows": no two rows are identical
	Type string `yaml:"type"`

	// Count is the expected number of rows (row_count).
	Count int `yaml:"count,omitempty"`

	// Columns is the expected column order (columns).
	Columns []string `yaml:"columns,omitempty"`

	// Where specifies query filters (contains_row, absent).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (contains_row).
	// Subset match: only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount    = "row_count"
	AssertColumns     = "columns"
	AssertContainsRow = "contains_row"
	AssertAbsent      = "absent"
	AssertUniqueRows  = "unique_rows"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Messages == "" {
		return fmt.Errorf("messages is required")
	}

	if s.Categories == "" {
		return fmt.Errorf("categories is required")
	}

	if s.ExpectError != "" {
		switch pipeline.Stage(s.ExpectError) {
		case pipeline.StageLoad, pipeline.StageClean, pipeline.StageSave:
		default:
			return fmt.Errorf("expect_error: unknown stage %q", s.ExpectError)
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions are not allowed with expect_error")
		}
		return nil
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertColumns:
		if len(a.Columns) == 0 {
			return fmt.Errorf("assertions[%d]: columns list is required for columns", index)
		}
	case AssertContainsRow, AssertAbsent:
		if len(a.Where) == 0 {
			return fmt.Errorf("assertions[%d]: where is required for %s", index, a.Type)
		}
	case AssertUniqueRows:
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}

	return nil
}
