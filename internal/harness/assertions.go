package harness

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/disaster-etl/internal/ir"
	"github.com/roach88/disaster-etl/internal/store"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// assertRowCount checks the table has exactly assertion.Count rows.
func assertRowCount(t *ir.Table, assertion Assertion) error {
	if t.Len() != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", assertion.Count),
			Actual:   fmt.Sprintf("%d rows", t.Len()),
		}
	}
	return nil
}

// assertColumns checks the exact column order.
func assertColumns(t *ir.Table, assertion Assertion) error {
	got := t.ColumnNames()
	if strings.Join(got, ",") != strings.Join(assertion.Columns, ",") || len(got) != len(assertion.Columns) {
		return &AssertionError{
			Type:     AssertColumns,
			Expected: strings.Join(assertion.Columns, ", "),
			Actual:   strings.Join(got, ", "),
		}
	}
	return nil
}

// assertUniqueRows checks no two rows are identical.
func assertUniqueRows(t *ir.Table) error {
	seen := make(map[string]int, t.Len())
	for i, row := range t.Rows {
		key, err := ir.RowKey(row)
		if err != nil {
			return err
		}
		if first, ok := seen[key]; ok {
			return &AssertionError{
				Type:     AssertUniqueRows,
				Expected: "no duplicate rows",
				Actual:   fmt.Sprintf("rows %d and %d are identical", first, i),
			}
		}
		seen[key] = i
	}
	return nil
}

// queryMatches runs a parameterized SELECT for the rows matching where.
// Returns the column names and every matching row.
func queryMatches(ctx context.Context, st *store.Store, table string, where map[string]interface{}) ([]string, [][]interface{}, error) {
	// Identifiers can't be parameterized
	if !validIdentifier.MatchString(table) {
		return nil, nil, fmt.Errorf("invalid table name %q: must match pattern %s", table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(where)
	if err != nil {
		return nil, nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := st.Query(ctx, query, whereArgs...)
	if err != nil {
		return nil, nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("get columns: %w", err)
	}

	var matches [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		matches = append(matches, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return columns, matches, nil
}

// assertContainsRow checks that exactly one persisted row matches
// assertion.Where and that it carries the expected values (subset semantics).
func assertContainsRow(ctx context.Context, st *store.Store, table string, assertion Assertion) error {
	columns, matches, err := queryMatches(ctx, st, table, assertion.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertContainsRow,
			Expected: fmt.Sprintf("query table %s", table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	whereDesc := formatWhereClause(assertion.Where)
	switch len(matches) {
	case 0:
		return &AssertionError{
			Type:     AssertContainsRow,
			Expected: fmt.Sprintf("row in %s where %s", table, whereDesc),
			Actual:   "row not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertContainsRow,
			Expected: fmt.Sprintf("exactly one row in %s where %s", table, whereDesc),
			Actual:   fmt.Sprintf("%d rows matched (assertion is ambiguous)", len(matches)),
		}
	}

	actualRow := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		actualRow[col] = matches[0][i]
	}

	for _, key := range sortedKeys(assertion.Expect) {
		expectedValue := assertion.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertContainsRow,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}
		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertContainsRow,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// assertAbsent checks that no persisted row matches assertion.Where.
func assertAbsent(ctx context.Context, st *store.Store, table string, assertion Assertion) error {
	_, matches, err := queryMatches(ctx, st, table, assertion.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("query table %s", table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	if len(matches) > 0 {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("no row in %s where %s", table, formatWhereClause(assertion.Where)),
			Actual:   fmt.Sprintf("%d rows matched", len(matches)),
		}
	}
	return nil
}

// buildWhereClause constructs parameterized WHERE clause from assertion.Where.
// Returns SQL fragment, arguments slice, and error. Keys are sorted for determinism.
// A nil value matches NULL cells.
func buildWhereClause(where map[string]interface{}) (string, []interface{}, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := sortedKeys(where)
	clauses := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		if !validIdentifier.MatchString(k) {
			return "", nil, fmt.Errorf("invalid column name %q: must match pattern %s", k, validIdentifier.String())
		}
		if where[k] == nil {
			clauses = append(clauses, k+" IS NULL")
			continue
		}
		clauses = append(clauses, k+" = ?")
		args = append(args, toSQLValue(where[k]))
	}

	return strings.Join(clauses, " AND "), args, nil
}

// toSQLValue converts a YAML scalar to a SQL-compatible value.
func toSQLValue(v interface{}) interface{} {
	switch val := v.(type) {
	case ir.Value:
		return ir.ToSQL(val)
	case int:
		return int64(val)
	case string, int64:
		return val
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stateValuesEqual compares an expected YAML value with a scanned SQLite value.
// SQLite returns int64 for integers and string or []byte for text.
func stateValuesEqual(expected, actual interface{}) bool {
	if b, ok := actual.([]byte); ok {
		actual = string(b)
	}

	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	switch exp := expected.(type) {
	case string:
		actualStr, ok := actual.(string)
		return ok && exp == actualStr
	case int:
		actualInt, ok := actual.(int64)
		return ok && int64(exp) == actualInt
	case int64:
		actualInt, ok := actual.(int64)
		return ok && exp == actualInt
	case bool:
		actualInt, ok := actual.(int64)
		return ok && exp == (actualInt != 0)
	}
	return false
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	Table string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for contains_row and absent.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRowCount, AssertColumns, AssertUniqueRows:
			if result.Table == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a persisted table", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertRowCount:
				err = assertRowCount(result.Table, assertion)
			case AssertColumns:
				err = assertColumns(result.Table, assertion)
			default:
				err = assertUniqueRows(result.Table)
			}
		case AssertContainsRow, AssertAbsent:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			} else if assertion.Type == AssertContainsRow {
				err = assertContainsRow(actx.Ctx, actx.Store, actx.Table, assertion)
			} else {
				err = assertAbsent(actx.Ctx, actx.Store, actx.Table, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
