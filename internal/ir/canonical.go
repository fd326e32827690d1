package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalCanonical produces the canonical JSON encoding of a row.
// This is the ONLY serialization used for row identity.
//
// Key differences from standard json.Marshal:
//  1. Int and String are distinct: Int(1) encodes as 1, String("1") as "1"
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NOT normalized: rows are duplicates only when byte-identical
//  4. Null cells encode as null
func MarshalCanonical(row Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range row {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonicalValue(v)
		if err != nil {
			return nil, fmt.Errorf("row[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case Int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case String:
		return marshalCanonicalString(string(val))
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// marshalCanonicalString produces a JSON string with HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
