package errors

// QueryError is a specialized error type for failures surfaced while
// decoding rows into caller-supplied Go structs. It embeds baseError to
// inherit chaining/codes/details, then adds the column-level context that
// makes a deserialization failure actionable.
type QueryError struct {
	*baseError

	// field is the name of the destination struct field being populated
	// when the error occurred, empty if the failure isn't field-specific
	// (e.g. "not enough columns").
	field string

	// columnIndex is the zero-based row column that was being read.
	columnIndex int

	// rowID is the id of the row being deserialized, for correlating the
	// failure back to a specific record.
	rowID string
}

// NewQueryError creates a new query-specific error.
func NewQueryError(err error, code ErrorCode, msg string) *QueryError {
	return &QueryError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the QueryError type.
func (qe *QueryError) WithMessage(msg string) *QueryError {
	qe.baseError.WithMessage(msg)
	return qe
}

// WithCode sets the error code while preserving the QueryError type.
func (qe *QueryError) WithCode(code ErrorCode) *QueryError {
	qe.baseError.WithCode(code)
	return qe
}

// WithDetail adds contextual information while preserving the QueryError type.
func (qe *QueryError) WithDetail(key string, value any) *QueryError {
	qe.baseError.WithDetail(key, value)
	return qe
}

// WithField records which destination struct field was being populated.
func (qe *QueryError) WithField(field string) *QueryError {
	qe.field = field
	return qe
}

// WithColumnIndex records which row column was being read.
func (qe *QueryError) WithColumnIndex(index int) *QueryError {
	qe.columnIndex = index
	return qe
}

// WithRowID records the id of the row being deserialized.
func (qe *QueryError) WithRowID(id string) *QueryError {
	qe.rowID = id
	return qe
}

// Field returns the destination struct field name, if any.
func (qe *QueryError) Field() string { return qe.field }

// ColumnIndex returns the row column index being read when the error occurred.
func (qe *QueryError) ColumnIndex() int { return qe.columnIndex }

// RowID returns the id of the row being deserialized.
func (qe *QueryError) RowID() string { return qe.rowID }

// NewShortRowError builds the error for a row with fewer columns than the
// target struct has fields.
func NewShortRowError(rowID string, haveColumns, wantFields int) *QueryError {
	return NewQueryError(nil, ErrorCodeQueryShortRow, "row has fewer columns than the target struct has fields").
		WithRowID(rowID).
		WithDetail("columns", haveColumns).
		WithDetail("fields", wantFields)
}

// NewColumnTypeMismatchError builds the error for a column whose Field
// variant cannot be assigned to the destination struct field's Go type.
func NewColumnTypeMismatchError(rowID, field string, columnIndex int, have, want string) *QueryError {
	return NewQueryError(nil, ErrorCodeQueryTypeMismatch, "column type does not match destination field type").
		WithRowID(rowID).
		WithField(field).
		WithColumnIndex(columnIndex).
		WithDetail("haveType", have).
		WithDetail("wantType", want)
}
