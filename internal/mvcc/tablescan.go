// Package mvcc implements TableScan, the source operator that resolves
// multi-version visibility over a collection's segments into a stream of
// committed rows, as of a caller-supplied snapshot transaction id.
package mvcc

import (
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/logfile"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

// ZeroTx is the distinguished "always-committed" transaction id, identical
// in value to collection.ZeroTx (the zero uuid.UUID). Declared separately
// here rather than imported so this package doesn't depend on
// internal/storage/collection, which in turn depends on internal/mvcc's
// sibling packages - collection.Collection only needs to structurally
// satisfy segmentSource, never to be imported by name.
var ZeroTx = uuid.UUID{}

// segmentSource is the slice of *collection.Collection's behavior TableScan
// actually needs; defined as an interface so TableScan can be exercised
// against a fake in tests without a real on-disk collection.
type segmentSource interface {
	LastSegmentIndex() int
	Segment(index int) (*logfile.LogFile, error)
}

// TableScan walks a collection's segments from the newest back to the
// oldest, within each segment from its last entry back to its first,
// reconstructing MVCC visibility as it goes: a row is visible if its
// Update's transaction has committed by the snapshot id and no newer
// Update/Delete for the same row id has already been seen.
type TableScan struct {
	source     segmentSource
	snapshotTx uuid.UUID

	currentIndex int
	currentSeg   *logfile.LogFile
	segEntries   []logfile.LogEntry
	cursor       int // position within segEntries, counting down from len-1

	visitedIDs map[uuid.UUID]bool
	committed  map[uuid.UUID]bool

	exhausted bool
}

// New creates a TableScan over source, visible up to and including
// snapshotTx. Pass the maximum possible transaction id to see every
// committed row regardless of when it was written.
func New(source segmentSource, snapshotTx uuid.UUID) *TableScan {
	return &TableScan{
		source:       source,
		snapshotTx:   snapshotTx,
		currentIndex: source.LastSegmentIndex(),
		visitedIDs:   make(map[uuid.UUID]bool),
		committed:    map[uuid.UUID]bool{ZeroTx: true},
	}
}

// Clone produces an independent TableScan starting fresh from the same
// source and snapshot id. Used by NestedLoop, which needs to re-walk its
// inner iterator once per outer row.
func (t *TableScan) Clone() *TableScan {
	return New(t.source, t.snapshotTx)
}

// Next returns the next visible row, or (zero, false, nil) on exhaustion.
func (t *TableScan) Next() (row.Row, bool, error) {
	for {
		if t.exhausted {
			return row.Row{}, false, nil
		}

		if t.currentSeg == nil {
			seg, err := t.source.Segment(t.currentIndex)
			if err != nil {
				return row.Row{}, false, err
			}
			t.currentSeg = seg
			t.segEntries = seg.Entries()
			t.cursor = len(t.segEntries) - 1
		}

		if t.cursor < 0 {
			t.advanceSegment()
			continue
		}

		entry := t.segEntries[t.cursor]
		t.cursor--

		visible := le128(entry.TxID, t.snapshotTx)

		switch entry.Kind {
		case logfile.EntryUpdate:
			if visible && t.committed[entry.TxID] && !t.visitedIDs[entry.RowID] {
				t.visitedIDs[entry.RowID] = true
				fields, err := entry.Row.All()
				if err != nil {
					return row.Row{}, false, err
				}
				return row.Row{ID: entry.RowID, Fields: fields}, true, nil
			}

		case logfile.EntryDelete:
			if visible && t.committed[entry.TxID] {
				t.visitedIDs[entry.RowID] = true
			}

		case logfile.EntryCommit:
			if visible {
				t.committed[entry.TxID] = true
			}

		case logfile.EntryRollback:
			// ignored
		}
	}
}

func (t *TableScan) advanceSegment() {
	t.currentSeg = nil
	t.segEntries = nil

	if t.currentIndex == 0 {
		t.exhausted = true
		return
	}
	t.currentIndex--
}

// SizeHint returns a (lower, upper) bound on the number of rows remaining.
// The lower bound is the count of segments not yet fully scanned; the upper
// bound is advisory only, drawn from the collection's approximate
// statistics.
func (t *TableScan) SizeHint(approxTotalEntries int64) (lower, upper int) {
	if t.exhausted {
		return 0, 0
	}
	lower = t.currentIndex + 1
	upper = int(approxTotalEntries)
	if upper < lower {
		upper = lower
	}
	return lower, upper
}

// le128 reports whether a <= b, comparing the 16 bytes as a big-endian
// 128-bit integer (UUID bytes are already in that network byte order).
func le128(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return true
}
