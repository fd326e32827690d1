// Package store provides SQLite-backed persistence for cleaned tables.
//
// A table is always written whole: ReplaceTable drops any table of the same
// name, recreates it from the in-memory column layout, and inserts every row
// inside one transaction. A failed write rolls back and leaves the previous
// table in place.
//
// # Column Types
//
//   - ir.KindInt  -> BIGINT
//   - ir.KindText -> TEXT
//
// No primary key, index, or row-number column is created.
//
// # Database Configuration
//
//   - journal_mode=DELETE: the database is a single self-contained file after Close
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Every error returned by this package wraps ErrStorage.
package store
