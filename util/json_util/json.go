// Package json_util provides JSON utilities including a custom RawMessage type
// used for policy blobs stored as JSON columns.
package json_util

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// RawMessage is a custom JSON raw message type that marshals empty slices as "null".
type RawMessage []byte

// MarshalJSON customizes the JSON marshaling behavior for RawMessage.
// Empty RawMessage values are marshaled as "null" instead of "[]".
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of the JSON data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("json.RawMessage: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

// Value implements driver.Valuer so the blob persists as TEXT.
func (m RawMessage) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return string(m), nil
}

// Scan implements sql.Scanner, accepting both TEXT and BLOB storage.
func (m *RawMessage) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = nil
	case string:
		*m = append((*m)[0:0], v...)
	case []byte:
		*m = append((*m)[0:0], v...)
	default:
		return fmt.Errorf("json.RawMessage: cannot scan %T", value)
	}
	return nil
}
