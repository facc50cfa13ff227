package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/pkg/logger"
	"github.com/iamNilotpal/pyrite/pkg/options"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()
	return &Config{Options: &opts, Logger: logger.Nop()}
}

func TestNewCreatesDataDir(t *testing.T) {
	cfg := testConfig(t)
	st, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if info, err := os.Stat(cfg.Options.DataDir); err != nil || !info.IsDir() {
		t.Fatalf("data dir %q was not created", cfg.Options.DataDir)
	}
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should return an error")
	}
	if _, err := New(&Config{}); err == nil {
		t.Fatal("New with an empty Config should return an error")
	}
}

func TestCreateIsGetOrCreate(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	a, err := st.Create("widgets")
	if err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	b, err := st.Create("widgets")
	if err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if a != b {
		t.Fatal("Create called twice for the same name should return the same *Collection")
	}
}

func TestCreateNewRejectsExisting(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if _, err := st.CreateNew("widgets"); err != nil {
		t.Fatalf("first CreateNew returned error: %v", err)
	}
	if _, err := st.CreateNew("widgets"); err == nil {
		t.Fatal("second CreateNew for the same name should fail")
	}
}

func TestGetFailsForUnknownCollection(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if _, err := st.Get("ghost"); err == nil {
		t.Fatal("Get should fail for a name that was never created")
	}
}

func TestGetReturnsCreatedCollection(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	created, err := st.Create("widgets")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	got, err := st.Get("widgets")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != created {
		t.Fatal("Get should return the same *Collection instance that Create returned")
	}
}

func TestDeleteRemovesRegistryEntryAndDirectory(t *testing.T) {
	cfg := testConfig(t)
	st, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if _, err := st.Create("widgets"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := st.Delete("widgets"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := st.Get("widgets"); err == nil {
		t.Fatal("Get should fail for a collection after it's deleted")
	}

	dir := filepath.Join(cfg.Options.DataDir, "widgets")
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("collection directory %q should be removed after Delete, stat err = %v", dir, err)
	}
}

func TestDeleteOfUnknownCollectionIsNoOp(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if err := st.Delete("ghost"); err != nil {
		t.Fatalf("Delete of a never-created name should be a no-op, got error: %v", err)
	}
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if _, err := st.Create("widgets"); err == nil {
		t.Fatal("Create after Close should fail")
	}
	if _, err := st.Get("widgets"); err == nil {
		t.Fatal("Get after Close should fail")
	}
	if err := st.Delete("widgets"); err == nil {
		t.Fatal("Delete after Close should fail")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("first Close returned error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got error: %v", err)
	}
}

func TestAllReturnsEveryOpenCollection(t *testing.T) {
	st, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer st.Close()

	if _, err := st.Create("widgets"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := st.Create("gadgets"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	cols := st.All()
	if len(cols) != 2 {
		t.Fatalf("All() returned %d collections, want 2", len(cols))
	}
}

func TestNewTxReturnsUniqueIDs(t *testing.T) {
	a, b := NewTx(), NewTx()
	if a == b {
		t.Fatal("NewTx should return distinct ids on successive calls")
	}
	var zero uuid.UUID
	if a == zero {
		t.Fatal("NewTx should not return the zero UUID")
	}
}

func TestNewTxIsMonotonicallyOrdered(t *testing.T) {
	// NewTx mints UUIDv7s, which are time-ordered: successive calls must
	// compare as increasing under the same byte-lexicographic ordering
	// internal/mvcc uses to decide which of two transactions is newer.
	if got := NewTx().Version(); got != 7 {
		t.Fatalf("NewTx() version = %d, want 7 (UUIDv7)", got)
	}

	prev := NewTx()
	for i := 0; i < 100; i++ {
		tx := NewTx()
		if bytes.Compare(prev[:], tx[:]) >= 0 {
			t.Fatalf("NewTx() produced a non-increasing id: prev=%s next=%s", prev, tx)
		}
		prev = tx
	}
}
