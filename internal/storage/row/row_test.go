package row

import (
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
)

func TestFieldInRangeAndOutOfRange(t *testing.T) {
	r := Row{ID: uuid.New(), Fields: []field.Field{field.I32(1), field.String("two")}}

	if f, ok := r.Field(0); !ok || !f.Equal(field.I32(1)) {
		t.Fatalf("Field(0) = (%v, %v), want (I32(1), true)", f, ok)
	}
	if _, ok := r.Field(2); ok {
		t.Fatal("Field(2) should report ok=false for a 2-column row")
	}
	if _, ok := r.Field(-1); ok {
		t.Fatal("Field(-1) should report ok=false")
	}
}

func TestCombineKeepsLeftIDAndConcatenatesFields(t *testing.T) {
	left := Row{ID: uuid.New(), Fields: []field.Field{field.I32(1)}}
	right := Row{ID: uuid.New(), Fields: []field.Field{field.String("x"), field.Bool(true)}}

	combined := Combine(left, right)

	if combined.ID != left.ID {
		t.Fatalf("Combine kept id %v, want left's id %v", combined.ID, left.ID)
	}
	if len(combined.Fields) != 3 {
		t.Fatalf("Combine produced %d fields, want 3", len(combined.Fields))
	}
	if !combined.Fields[0].Equal(field.I32(1)) || !combined.Fields[1].Equal(field.String("x")) || !combined.Fields[2].Equal(field.Bool(true)) {
		t.Fatalf("Combine field order wrong: %+v", combined.Fields)
	}
}
