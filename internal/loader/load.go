// Package loader reads the messages and categories sources and joins them
// into one table.
package loader

import (
	"github.com/roach88/disaster-etl/internal/ir"
)

// KeyColumn is the identifier column shared by both sources.
const KeyColumn = "id"

// Load reads both sources and inner-joins them on KeyColumn.
// Identifiers present in only one source never appear in the result.
func Load(messagesPath, categoriesPath string) (*ir.Table, error) {
	messages, err := ReadCSV(messagesPath)
	if err != nil {
		return nil, err
	}
	if !messages.HasColumn(KeyColumn) {
		return nil, parseError(messagesPath, "missing %q column", KeyColumn)
	}

	categories, err := ReadCSV(categoriesPath)
	if err != nil {
		return nil, err
	}
	if !categories.HasColumn(KeyColumn) {
		return nil, parseError(categoriesPath, "missing %q column", KeyColumn)
	}

	merged, err := Join(messages, categories, KeyColumn)
	if err != nil {
		return nil, &Error{Path: categoriesPath, Err: err}
	}
	return merged, nil
}
