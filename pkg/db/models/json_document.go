package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument stores an encoded JSON value. It is written as text so the same
// column works as jsonb on Postgres and as TEXT on SQLite.
type JSONDocument []byte

// NewJSONDocument encodes v into a JSONDocument.
func NewJSONDocument(v any) (JSONDocument, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json document: %w", err)
	}
	return JSONDocument(raw), nil
}

// Decode unmarshals the document into dest. An empty document leaves dest untouched.
func (d JSONDocument) Decode(dest any) error {
	if len(d) == 0 {
		return nil
	}
	if err := json.Unmarshal(d, dest); err != nil {
		return fmt.Errorf("decode json document: %w", err)
	}
	return nil
}

func (d *JSONDocument) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case string:
		*d = JSONDocument(v)
	case []byte:
		*d = append(JSONDocument(nil), v...)
	default:
		return fmt.Errorf("JSONDocument: unsupported Scan type %T", src)
	}
	return nil
}

func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// GormDataType keeps AutoMigrate on a text column.
func (JSONDocument) GormDataType() string {
	return "text"
}
