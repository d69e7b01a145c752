// internal/models/base.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

type BaseModel struct {
	gorm.Model
}

// StringSlice is a JSONB column holding an ordered list of strings
// (e.g. the seasons a player has appeared in).
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the slice.
func (s *StringSlice) Scan(src interface{}) error {
	b, ok := normalizeJSONSource(src)
	if !ok {
		return fmt.Errorf("StringSlice: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(b, s)
}

// Contains reports whether v is present in the slice.
func (s StringSlice) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// AppendUnique adds v if it is not already present.
func (s StringSlice) AppendUnique(v string) StringSlice {
	if s.Contains(v) {
		return s
	}
	return append(s, v)
}

// RawJSON is a JSONB column stored and returned verbatim, for payloads whose
// shape the schema does not care about (archived rows, audit snapshots).
type RawJSON []byte

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *RawJSON) Scan(src interface{}) error {
	b, ok := normalizeJSONSource(src)
	if !ok {
		return fmt.Errorf("RawJSON: expected []byte or string, got %T", src)
	}
	*j = b
	return nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// normalizeJSONSource coerces the driver value of a JSON column to bytes.
// Postgres hands back []byte; the sqlite driver used in tests hands back string.
func normalizeJSONSource(src interface{}) ([]byte, bool) {
	switch v := src.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// JSONSourceBytes exposes normalizeJSONSource for JSONB column types declared
// in domain packages.
func JSONSourceBytes(src interface{}) ([]byte, bool) {
	return normalizeJSONSource(src)
}
