// Package row defines the shared Row shape passed between every layer of
// the query pipeline: segment scanning, the linear and joining operators,
// and the caller-facing deserializer.
package row

import (
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
)

// Row is {id, fields}: an opaque id assigned by the client, plus the row's
// ordered column values.
type Row struct {
	ID     uuid.UUID
	Fields []field.Field
}

// Field returns the column at index i, or the zero Field and false if i is
// out of range.
func (r Row) Field(i int) (field.Field, bool) {
	if i < 0 || i >= len(r.Fields) {
		return field.Field{}, false
	}
	return r.Fields[i], true
}

// Combine concatenates l's fields followed by r's fields into a new Row,
// keeping l's id. This is the join operators' row-combination rule.
func Combine(l, r Row) Row {
	fields := make([]field.Field, 0, len(l.Fields)+len(r.Fields))
	fields = append(fields, l.Fields...)
	fields = append(fields, r.Fields...)
	return Row{ID: l.ID, Fields: fields}
}
