package ir

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface representing a single table cell.
// Only Null, Int, and String implement this.
// NO Float - a cell that is not a base-10 integer is text.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an empty cell.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) value() {}

// Int represents an integer cell.
// Always int64, never float64.
type Int int64

func (Int) value() {}

// String represents a text cell.
type String string

func (String) value() {}

// Kind is the declared type of a column.
type Kind int

const (
	// KindInt columns hold only Int or Null cells.
	KindInt Kind = iota
	// KindText columns hold String or Null cells.
	KindText
)

// String returns the kind name used in logs and golden snapshots.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsNull reports whether v is an empty cell (including a nil interface).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// ParseInt parses raw as a base-10 int64 cell.
// Returns false when raw is not an integer.
func ParseInt(raw string) (Int, bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return Int(n), true
}

// CellFromRaw converts a raw CSV field into a cell of the given kind.
// Empty fields become Null regardless of kind.
func CellFromRaw(raw string, kind Kind) Value {
	if raw == "" {
		return Null{}
	}
	if kind == KindInt {
		if n, ok := ParseInt(raw); ok {
			return n
		}
	}
	return String(raw)
}

// InferKind returns KindInt when every non-empty raw field parses as an
// integer, otherwise KindText. A column with no non-empty fields is text.
func InferKind(raw []string) Kind {
	seen := false
	for _, r := range raw {
		if r == "" {
			continue
		}
		if _, ok := ParseInt(r); !ok {
			return KindText
		}
		seen = true
	}
	if !seen {
		return KindText
	}
	return KindInt
}

// Format renders a cell for human-readable output.
// Null renders as the empty string.
func Format(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return ""
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case String:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToSQL converts a cell to a database/sql argument.
func ToSQL(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case String:
		return string(val)
	default:
		return nil
	}
}

// FromSQL converts a scanned database/sql value into a cell.
func FromSQL(src any) (Value, error) {
	switch val := src.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	default:
		return nil, fmt.Errorf("unsupported column value type: %T", src)
	}
}
