package operators

import (
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

// sliceOperator is a fixed-source Operator used across this package's tests,
// in place of a real TableScan.
type sliceOperator struct {
	rows []row.Row
	pos  int
}

func newSliceOperator(rows ...row.Row) *sliceOperator {
	return &sliceOperator{rows: rows}
}

func (s *sliceOperator) Next() (row.Row, bool, error) {
	if s.pos >= len(s.rows) {
		return row.Row{}, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, true, nil
}

// Clone restarts a fresh sliceOperator over the same backing rows, so
// sliceOperator doubles as a Cloneable source for NestedLoop tests.
func (s *sliceOperator) Clone() Operator {
	return newSliceOperator(s.rows...)
}

func rowOf(vals ...field.Field) row.Row {
	return row.Row{ID: uuid.New(), Fields: vals}
}

func drainAll(t *testing.T, op Operator) []row.Row {
	t.Helper()
	var out []row.Row
	for {
		r, ok, err := op.Next()
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, r)
	}
}
