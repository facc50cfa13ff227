package operators

import (
	"testing"

	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

func keyByFirstColumn(r row.Row) field.Field {
	v, _ := r.Field(0)
	return v
}

func TestInMemorySortAscending(t *testing.T) {
	src := newSliceOperator(rowOf(field.I32(3)), rowOf(field.I32(1)), rowOf(field.I32(2)))
	s := NewInMemorySort(src, keyByFirstColumn, Ascending)

	got := drainAll(t, s)
	want := []int32{1, 2, 3}
	for i, r := range got {
		v, _ := r.Field(0)
		n, _ := v.AsI32()
		if n != want[i] {
			t.Fatalf("position %d = %d, want %d", i, n, want[i])
		}
	}
}

func TestInMemorySortDescending(t *testing.T) {
	src := newSliceOperator(rowOf(field.I32(3)), rowOf(field.I32(1)), rowOf(field.I32(2)))
	s := NewInMemorySort(src, keyByFirstColumn, Descending)

	got := drainAll(t, s)
	want := []int32{3, 2, 1}
	for i, r := range got {
		v, _ := r.Field(0)
		n, _ := v.AsI32()
		if n != want[i] {
			t.Fatalf("position %d = %d, want %d", i, n, want[i])
		}
	}
}

func TestInMemorySortEmptyUpstream(t *testing.T) {
	s := NewInMemorySort(newSliceOperator(), keyByFirstColumn, Ascending)
	got := drainAll(t, s)
	if len(got) != 0 {
		t.Fatalf("sort over an empty upstream emitted %d rows, want 0", len(got))
	}
}
