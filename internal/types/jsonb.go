package types

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Compile-time interface assertions. These ensure the JSONB types
// implement both sql.Scanner and driver.Valuer, catching method
// signature drift at compile time rather than at runtime.
var (
	_ sql.Scanner   = (*Settings)(nil)
	_ driver.Valuer = Settings(nil)
)

// Settings is the free-form per-widget settings blob stored as JSONB.
type Settings map[string]any

// scanJSONB scans a JSONB database value into a Go pointer. It handles
// nil values, []byte, and string representations from different drivers.
func scanJSONB(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("jsonb: unsupported scan type %T", value)
	}
	return json.Unmarshal(data, dest)
}

// Scan implements sql.Scanner for Settings.
func (s *Settings) Scan(value interface{}) error {
	return scanJSONB(s, value)
}

// Value implements driver.Valuer for Settings. A nil map is stored as
// an empty JSON object so consumers never read SQL NULL settings.
func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}
