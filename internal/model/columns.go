package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return marshalJSONColumn(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// JSONStringMap represents a JSON object field with string values
type JSONStringMap map[string]string

// Value implements driver.Valuer interface
func (j JSONStringMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return marshalJSONColumn(j)
}

// Scan implements sql.Scanner interface
func (j *JSONStringMap) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// scanJSON decodes a jsonb column delivered as []byte or string. NULL leaves
// the target at its zero value.
func scanJSON(value interface{}, target interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
}

// marshalJSONColumn encodes v as text so the driver binds it to jsonb rather
// than bytea.
func marshalJSONColumn(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
