package index

import (
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
	"github.com/iamNilotpal/pyrite/pkg/logger"
)

func newTestIndex(t *testing.T) *SortedIndex {
	t.Helper()
	si, err := New(&Config{Collection: "widgets", Column: 0, DataDir: t.TempDir(), Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return si
}

func TestNewRejectsMissingConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should return an error")
	}
	if _, err := New(&Config{}); err == nil {
		t.Fatal("New with an empty Config should return an error")
	}
}

func TestInsertAndSeek(t *testing.T) {
	si := newTestIndex(t)

	idA, idB := uuid.New(), uuid.New()
	si.Insert(row.Row{ID: idA, Fields: []field.Field{field.I32(10)}})
	si.Insert(row.Row{ID: idB, Fields: []field.Field{field.I32(20)}})

	got := si.Seek(field.I32(10))
	if len(got) != 1 || got[0] != idA {
		t.Fatalf("Seek(10) = %v, want [%v]", got, idA)
	}

	if got := si.Seek(field.I32(999)); len(got) != 0 {
		t.Fatalf("Seek(999) = %v, want empty", got)
	}
}

func TestSeekReturnsAllMatchingDuplicateValues(t *testing.T) {
	si := newTestIndex(t)

	idA, idB, idC := uuid.New(), uuid.New(), uuid.New()
	si.Insert(row.Row{ID: idA, Fields: []field.Field{field.I32(5)}})
	si.Insert(row.Row{ID: idB, Fields: []field.Field{field.I32(5)}})
	si.Insert(row.Row{ID: idC, Fields: []field.Field{field.I32(6)}})

	got := si.Seek(field.I32(5))
	if len(got) != 2 {
		t.Fatalf("Seek(5) returned %d ids, want 2 (both rows with value 5)", len(got))
	}
}

func TestRangeIsHalfOpen(t *testing.T) {
	si := newTestIndex(t)

	ids := make(map[int32]uuid.UUID)
	for _, v := range []int32{1, 2, 3, 4, 5} {
		id := uuid.New()
		ids[v] = id
		si.Insert(row.Row{ID: id, Fields: []field.Field{field.I32(v)}})
	}

	got := si.Range(field.I32(2), field.I32(5))
	if len(got) != 3 {
		t.Fatalf("Range(2,5) returned %d ids, want 3 (values 2,3,4; 5 excluded)", len(got))
	}

	want := map[uuid.UUID]bool{ids[2]: true, ids[3]: true, ids[4]: true}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("Range(2,5) returned unexpected id %v", id)
		}
	}
}

func TestRemoveDropsEntry(t *testing.T) {
	si := newTestIndex(t)

	id := uuid.New()
	r := row.Row{ID: id, Fields: []field.Field{field.I32(1)}}
	si.Insert(r)
	if si.Len() != 1 {
		t.Fatalf("Len() after Insert = %d, want 1", si.Len())
	}

	si.Remove(r)
	if si.Len() != 0 {
		t.Fatalf("Len() after Remove = %d, want 0", si.Len())
	}
	if got := si.Seek(field.I32(1)); len(got) != 0 {
		t.Fatalf("Seek after Remove = %v, want empty", got)
	}
}

func TestInsertSkipsRowMissingTheIndexedColumn(t *testing.T) {
	si, err := New(&Config{Collection: "widgets", Column: 5, DataDir: t.TempDir(), Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	si.Insert(row.Row{ID: uuid.New(), Fields: []field.Field{field.I32(1)}})
	if si.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for a row too short to have the indexed column", si.Len())
	}
}

func TestLenReflectsInsertsAndDuplicateKeyReplacement(t *testing.T) {
	si := newTestIndex(t)

	id := uuid.New()
	si.Insert(row.Row{ID: id, Fields: []field.Field{field.I32(1)}})
	si.Insert(row.Row{ID: id, Fields: []field.Field{field.I32(1)}})

	if si.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (re-inserting the same value+id replaces, not duplicates)", si.Len())
	}
}
