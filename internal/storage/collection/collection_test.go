package collection

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
	"github.com/iamNilotpal/pyrite/pkg/logger"
	"github.com/iamNilotpal/pyrite/pkg/options"
)

func testOptions(maxEntries int, cacheFileCount int) *options.Options {
	opts := options.NewDefaultOptions()
	opts.LogFileOptions.MaxEntries = maxEntries
	opts.CacheOptions.FileCount = cacheFileCount
	return &opts
}

func openTestCollection(t *testing.T, name string, opts *options.Options) *Collection {
	t.Helper()
	col, err := Open(&Config{
		Name:    name,
		DataDir: t.TempDir(),
		Options: opts,
		Logger:  logger.Nop(),
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return col
}

func setAndCommit(t *testing.T, col *Collection, tx uuid.UUID, rows []row.Row) {
	t.Helper()
	if _, err := col.SetRows(tx, rows); err != nil {
		t.Fatalf("SetRows returned error: %v", err)
	}
	if err := col.Commit(tx); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
}

// maxUUID returns the all-0xFF uuid, used as a snapshot id that sees every
// committed write regardless of when it was made.
func maxUUID() uuid.UUID {
	var id uuid.UUID
	for i := range id {
		id[i] = 0xFF
	}
	return id
}

func scanAll(t *testing.T, col *Collection) map[uuid.UUID]row.Row {
	t.Helper()
	scan := col.TableScan(maxUUID())
	out := make(map[uuid.UUID]row.Row)
	for {
		r, ok, err := scan.Next()
		if err != nil {
			t.Fatalf("TableScan Next() returned error: %v", err)
		}
		if !ok {
			return out
		}
		out[r.ID] = r
	}
}

func TestOpenCreatesFreshSegmentZero(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	if col.LastSegmentIndex() != 0 {
		t.Fatalf("LastSegmentIndex() = %d, want 0 for a freshly opened collection", col.LastSegmentIndex())
	}
}

func TestSetRowsAndTableScanVisibility(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	tx := uuid.New()
	rowA := uuid.New()
	rowB := uuid.New()

	setAndCommit(t, col, tx, []row.Row{
		{ID: rowA, Fields: []field.Field{field.I32(1)}},
		{ID: rowB, Fields: []field.Field{field.I32(2)}},
	})

	got := scanAll(t, col)
	if len(got) != 2 {
		t.Fatalf("scan returned %d rows, want 2: %+v", len(got), got)
	}
	if v, _ := got[rowA].Field(0); !v.Equal(field.I32(1)) {
		t.Errorf("row A field = %v, want I32(1)", v)
	}
}

func TestUncommittedRowsAreNotVisible(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	tx := uuid.New()
	rowA := uuid.New()
	if _, err := col.SetRows(tx, []row.Row{{ID: rowA, Fields: []field.Field{field.I32(1)}}}); err != nil {
		t.Fatalf("SetRows returned error: %v", err)
	}

	got := scanAll(t, col)
	if _, ok := got[rowA]; ok {
		t.Fatalf("uncommitted row should not be visible: %+v", got)
	}
}

func TestRolledBackRowsAreNotVisible(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	tx := uuid.New()
	rowA := uuid.New()
	if _, err := col.SetRows(tx, []row.Row{{ID: rowA, Fields: []field.Field{field.I32(1)}}}); err != nil {
		t.Fatalf("SetRows returned error: %v", err)
	}
	if err := col.Rollback(tx); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}

	got := scanAll(t, col)
	if _, ok := got[rowA]; ok {
		t.Fatalf("rolled-back row should not be visible: %+v", got)
	}
}

func TestDeleteRowWithNilFields(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	rowA := uuid.New()
	tx1 := uuid.New()
	setAndCommit(t, col, tx1, []row.Row{{ID: rowA, Fields: []field.Field{field.I32(1)}}})

	tx2 := uuid.New()
	setAndCommit(t, col, tx2, []row.Row{{ID: rowA, Fields: nil}})

	got := scanAll(t, col)
	if _, ok := got[rowA]; ok {
		t.Fatalf("deleted row should not be visible: %+v", got)
	}
}

func TestSetRowsRejectsShapeMismatch(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	tx1 := uuid.New()
	setAndCommit(t, col, tx1, []row.Row{{ID: uuid.New(), Fields: []field.Field{field.I32(1), field.String("x")}}})

	tx2 := uuid.New()
	_, err := col.SetRows(tx2, []row.Row{{ID: uuid.New(), Fields: []field.Field{field.String("only one column")}}})
	if err == nil {
		t.Fatal("SetRows should reject a row whose shape differs from the collection's existing rows")
	}
}

func TestAppendBatchedRotatesSegments(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(2, 10))
	defer col.Close()

	tx := uuid.New()
	rows := []row.Row{
		{ID: uuid.New(), Fields: []field.Field{field.I32(1)}},
		{ID: uuid.New(), Fields: []field.Field{field.I32(2)}},
		{ID: uuid.New(), Fields: []field.Field{field.I32(3)}},
	}
	// 3 update entries plus a commit = 4 entries against a 2-entry segment
	// cap: must rotate at least once.
	setAndCommit(t, col, tx, rows)

	if col.LastSegmentIndex() == 0 {
		t.Fatalf("expected segment rotation with a 2-entry cap and 4 log entries, LastSegmentIndex stayed at 0")
	}

	got := scanAll(t, col)
	if len(got) != len(rows) {
		t.Fatalf("scan across rotated segments returned %d rows, want %d", len(got), len(rows))
	}
}

func TestClearCacheReloadsFromDisk(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	tx := uuid.New()
	rowA := uuid.New()
	setAndCommit(t, col, tx, []row.Row{{ID: rowA, Fields: []field.Field{field.I32(1)}}})

	col.ClearCache()

	got := scanAll(t, col)
	if _, ok := got[rowA]; !ok {
		t.Fatalf("row should still be visible after ClearCache forces a reload: %+v", got)
	}
}

func TestReopenRecoversCommittedData(t *testing.T) {
	dataDir := t.TempDir()
	opts := testOptions(100, 10)

	col, err := Open(&Config{Name: "widgets", DataDir: dataDir, Options: opts, Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	rowA := uuid.New()
	setAndCommit(t, col, uuid.New(), []row.Row{{ID: rowA, Fields: []field.Field{field.I32(7)}}})
	if err := col.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(&Config{Name: "widgets", DataDir: dataDir, Options: opts, Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("reopen Open returned error: %v", err)
	}
	defer reopened.Close()

	got, ok := scanAll(t, reopened)[rowA]
	if !ok {
		t.Fatalf("reopened collection did not recover row %v", rowA)
	}
	if f, _ := got.Field(0); !f.Equal(field.I32(7)) {
		t.Fatalf("recovered row field = %v, want I32(7)", f)
	}
}

func TestStatisticsTrackWrites(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	before := col.Statistics().TotalEntries
	setAndCommit(t, col, uuid.New(), []row.Row{{ID: uuid.New(), Fields: []field.Field{field.I32(1)}}})
	after := col.Statistics().TotalEntries

	if after <= before {
		t.Fatalf("Statistics().TotalEntries did not increase: before=%d after=%d", before, after)
	}
}

func TestPrintDebugInfoIncludesName(t *testing.T) {
	col := openTestCollection(t, "widgets", testOptions(100, 10))
	defer col.Close()

	info := col.PrintDebugInfo()
	if !strings.Contains(info, "widgets") {
		t.Fatalf("PrintDebugInfo() = %q, want it to mention the collection name", info)
	}
}

func TestSegmentPathsAreDistinctAcrossCollections(t *testing.T) {
	dataDir := t.TempDir()
	opts := testOptions(100, 10)

	a, err := Open(&Config{Name: "a", DataDir: dataDir, Options: opts, Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("Open(a) returned error: %v", err)
	}
	defer a.Close()
	b, err := Open(&Config{Name: "b", DataDir: dataDir, Options: opts, Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("Open(b) returned error: %v", err)
	}
	defer b.Close()

	if filepath.Join(dataDir, "a") == filepath.Join(dataDir, "b") {
		t.Fatal("test setup produced identical directories")
	}
}
