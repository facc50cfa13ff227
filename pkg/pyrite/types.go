package pyrite

import (
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

// Row is one record: a client-assigned id plus an ordered list of typed
// column values.
type Row = row.Row

// NewRow builds a Row from an id and its column values, in order.
func NewRow(id uuid.UUID, fields ...Field) Row {
	return Row{ID: id, Fields: fields}
}

// Field is a single typed column value: one of Bool, I32, I64, Decimal,
// Uuid, Bytes or String, built with the matching constructor below.
type Field = field.Field

func Bool(v bool) Field       { return field.Bool(v) }
func I32(v int32) Field       { return field.I32(v) }
func I64(v int64) Field       { return field.I64(v) }
func Decimal(v float64) Field { return field.Decimal(v) }
func Uuid(v uuid.UUID) Field  { return field.Uuid(v) }
func Bytes(v []byte) Field    { return field.Bytes(v) }
func String(v string) Field   { return field.String(v) }
