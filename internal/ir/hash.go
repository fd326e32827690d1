package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRow is the domain prefix for row identity hashes.
// Version suffix enables future algorithm migration.
const DomainRow = "disaster-etl/row/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RowKey computes the identity of a row across every column.
// Two rows have the same key iff they are equal cell by cell, including
// cell types (Int(1) and String("1") differ).
func RowKey(row Row) (string, error) {
	canonical, err := MarshalCanonical(row)
	if err != nil {
		return "", fmt.Errorf("RowKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRow, canonical), nil
}

// JoinKey computes the identity of a single join key cell.
// Null keys return ok=false and never match.
func JoinKey(v Value) (key string, ok bool) {
	switch val := v.(type) {
	case Int:
		return "i:" + Format(val), true
	case String:
		return "s:" + string(val), true
	default:
		return "", false
	}
}
