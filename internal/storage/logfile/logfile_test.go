package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(filepath.Join(dir, "segment-000.log"))
	if err != nil {
		t.Fatalf("Load on a missing file returned error: %v", err)
	}
	defer lf.Close()

	if lf.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for a freshly created segment", lf.Len())
	}
}

func TestAppendThenReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segment-000.log")

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	tx := uuid.New()
	rowID := uuid.New()
	ef, err := NewEntryFields([]field.Field{field.I32(42), field.String("value")})
	if err != nil {
		t.Fatalf("NewEntryFields returned error: %v", err)
	}

	entries := []LogEntry{
		NewUpdateEntry(tx, rowID, ef),
		NewCommitEntry(tx),
	}
	if err := lf.Append(entries...); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := lf.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload Load returned error: %v", err)
	}
	defer reloaded.Close()

	got := reloaded.Entries()
	if len(got) != len(entries) {
		t.Fatalf("reloaded %d entries, want %d", len(got), len(entries))
	}
	if got[0].Kind != EntryUpdate || got[0].RowID != rowID {
		t.Fatalf("reloaded entry 0 = %+v, want an update for row %v", got[0], rowID)
	}
	if got[1].Kind != EntryCommit || got[1].TxID != tx {
		t.Fatalf("reloaded entry 1 = %+v, want a commit for tx %v", got[1], tx)
	}
}

func TestAppendAcrossMultipleCalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segment-000.log")

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	defer lf.Close()

	tx1, tx2 := uuid.New(), uuid.New()
	if err := lf.Append(NewCommitEntry(tx1)); err != nil {
		t.Fatalf("first Append returned error: %v", err)
	}
	if err := lf.Append(NewCommitEntry(tx2)); err != nil {
		t.Fatalf("second Append returned error: %v", err)
	}

	if lf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lf.Len())
	}
	entries := lf.Entries()
	if entries[0].TxID != tx1 || entries[1].TxID != tx2 {
		t.Fatalf("entries out of order: got %+v", entries)
	}
}

func TestTruncateReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segment-000.log")

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	defer lf.Close()

	tx1, tx2, tx3 := uuid.New(), uuid.New(), uuid.New()
	if err := lf.Append(NewCommitEntry(tx1), NewCommitEntry(tx2)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := lf.Truncate(NewCommitEntry(tx3)); err != nil {
		t.Fatalf("Truncate returned error: %v", err)
	}
	if lf.Len() != 1 {
		t.Fatalf("Len() after Truncate = %d, want 1", lf.Len())
	}
	if lf.Entries()[0].TxID != tx3 {
		t.Fatalf("surviving entry has tx %v, want %v", lf.Entries()[0].TxID, tx3)
	}

	if err := lf.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload after Truncate returned error: %v", err)
	}
	defer reloaded.Close()
	if reloaded.Len() != 1 || reloaded.Entries()[0].TxID != tx3 {
		t.Fatalf("reloaded content after Truncate = %+v, want a single commit for %v", reloaded.Entries(), tx3)
	}
}

func TestLoadDiscardsTrailingPartialFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segment-000.log")

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	tx := uuid.New()
	if err := lf.Append(NewCommitEntry(tx)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := lf.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// Simulate a crash mid-write: append bytes that look like the start of a
	// frame (a length prefix claiming more payload than actually follows).
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("failed to reopen segment for corruption: %v", err)
	}
	if _, err := f.Write([]byte{100, 1, 2, 3}); err != nil {
		t.Fatalf("failed to write partial frame: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close corrupted file: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load over a truncated trailing frame returned error: %v", err)
	}
	defer reloaded.Close()

	if reloaded.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (the partial trailing frame should be discarded)", reloaded.Len())
	}
	if reloaded.Entries()[0].TxID != tx {
		t.Fatalf("surviving entry tx = %v, want %v", reloaded.Entries()[0].TxID, tx)
	}

	// The truncated file on disk should now hold only the valid prefix, so a
	// second reload is stable rather than re-discovering the same partial tail.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if info.Size() != reloaded.ByteSize() {
		t.Fatalf("on-disk size %d does not match ByteSize() %d after truncation rewrite", info.Size(), reloaded.ByteSize())
	}
}

func TestByteSizeTracksAppends(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(filepath.Join(dir, "segment-000.log"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	defer lf.Close()

	if lf.ByteSize() != 0 {
		t.Fatalf("ByteSize() = %d, want 0 for an empty segment", lf.ByteSize())
	}
	if err := lf.Append(NewCommitEntry(uuid.New())); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if lf.ByteSize() <= 0 {
		t.Fatalf("ByteSize() = %d, want > 0 after an append", lf.ByteSize())
	}
}
