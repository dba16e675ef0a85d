package sqlutil

import (
	"database/sql"
	"encoding/json"

	"github.com/sqlc-dev/pqtype"
)

// ToSqlString converts an optional string to sql.NullString; empty means NULL.
func ToSqlString(val string) sql.NullString {
	if val == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: val, Valid: true}
}

// FromSqlString converts sql.NullString to Go string with default
func FromSqlString(val sql.NullString, defaultVal string) string {
	if !val.Valid {
		return defaultVal
	}
	return val.String
}

// ToNullRawMessage marshals v into a nullable JSON column value. A nil or empty
// slice becomes NULL.
func ToNullRawMessage(v any) (pqtype.NullRawMessage, error) {
	if v == nil {
		return pqtype.NullRawMessage{Valid: false}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	if string(raw) == "null" || string(raw) == "[]" {
		return pqtype.NullRawMessage{Valid: false}, nil
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

// FromNullRawMessage unmarshals a nullable JSON column into out. NULL leaves out untouched.
func FromNullRawMessage(val pqtype.NullRawMessage, out any) error {
	if !val.Valid || len(val.RawMessage) == 0 {
		return nil
	}
	return json.Unmarshal(val.RawMessage, out)
}
