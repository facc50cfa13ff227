package collection

import (
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/logfile"
	"github.com/iamNilotpal/pyrite/pkg/errors"
)

// shouldCompact reports whether the redundant/total entry ratio has crossed
// the configured compaction threshold.
func (c *Collection) shouldCompact() bool {
	stats := c.Statistics()
	if stats.TotalEntries == 0 {
		return false
	}
	ratio := float32(stats.RedundantEntries) / float32(stats.TotalEntries)
	return ratio >= c.opts.LogFileOptions.CompactionRedundancyPercentage
}

// Compact checks the collection-wide redundancy ratio once and, if it has
// crossed the threshold, merges every adjacent segment pair (0,1), (1,2),
// ... in turn; pairs are not checked individually. Compaction
// takes the collection's write lock for its whole run: it is never
// performed concurrently with writes to the same collection.
func (c *Collection) Compact() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.shouldCompact() {
		return nil
	}

	for older := 0; older < c.lastSegmentIndex; older++ {
		newer := older + 1
		if err := c.compactPair(older, newer); err != nil {
			return err
		}
	}

	return nil
}

// compactPair merges segments older and newer, producing row_id → latest
// value/tombstone by walking newer-then-older, newest-entry-first within
// each segment - the same direction internal/mvcc's TableScan uses, so a
// commit-last transaction's entries are always resolved correctly.
//
// This deliberately walks newest-to-oldest rather than oldest-to-newest;
// see DESIGN.md's "deliberate deviations" section for why the oldest-to-
// newest order isn't adopted here.
func (c *Collection) compactPair(olderIdx, newerIdx int) error {
	older, err := c.getSegment(olderIdx)
	if err != nil {
		return err
	}
	newer, err := c.getSegment(newerIdx)
	if err != nil {
		return err
	}

	type survivor struct {
		rowID     uuid.UUID
		entry     logfile.LogEntry // zero value (Kind == EntryDelete with no row) marks a tombstone
		tombstone bool
	}

	seen := make(map[uuid.UUID]bool)
	survivors := make(map[uuid.UUID]survivor)
	committed := map[uuid.UUID]bool{ZeroTx: true}
	var newestCommitted uuid.UUID

	walk := func(lf *logfile.LogFile) {
		entries := lf.Entries()
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			switch e.Kind {
			case logfile.EntryCommit:
				committed[e.TxID] = true
				if compareUUID(e.TxID, newestCommitted) > 0 {
					newestCommitted = e.TxID
				}
			case logfile.EntryUpdate:
				if committed[e.TxID] && !seen[e.RowID] {
					seen[e.RowID] = true
					survivors[e.RowID] = survivor{rowID: e.RowID, entry: e}
				}
			case logfile.EntryDelete:
				if committed[e.TxID] && !seen[e.RowID] {
					seen[e.RowID] = true
					survivors[e.RowID] = survivor{rowID: e.RowID, tombstone: true}
				}
			}
		}
	}

	// Newer-then-older: a row's freshest surviving version is whichever
	// segment records it first under this walk order.
	walk(newer)
	walk(older)

	live := make([]logfile.LogEntry, 0, len(survivors))
	for _, s := range survivors {
		if s.tombstone {
			continue
		}
		live = append(live, logfile.NewUpdateEntry(newestCommitted, s.rowID, s.entry.Row))
	}

	beforeTotal := int64(older.Len() + newer.Len())

	maxEntries := c.opts.LogFileOptions.MaxEntries
	if len(live) > 2*maxEntries {
		return errors.NewCompactionOverflowError(olderIdx, newerIdx, (len(live)+maxEntries-1)/maxEntries)
	}

	var chunk0, chunk1 []logfile.LogEntry
	if len(live) <= maxEntries {
		chunk0 = live
	} else {
		chunk0 = live[:maxEntries]
		chunk1 = live[maxEntries:]
	}

	if chunk0 != nil {
		chunk0 = append(chunk0, logfile.NewCommitEntry(newestCommitted))
	}
	if err := older.Truncate(chunk0...); err != nil {
		return err
	}

	if chunk1 != nil {
		chunk1 = append(chunk1, logfile.NewCommitEntry(newestCommitted))
	}
	if err := newer.Truncate(chunk1...); err != nil {
		return err
	}

	afterTotal := int64(len(chunk0) + len(chunk1))
	c.stats.totalEntries.Add(afterTotal - beforeTotal)
	c.stats.redundantEntries.Add(-(beforeTotal - afterTotal))
	if c.stats.redundantEntries.Load() < 0 {
		c.stats.redundantEntries.Store(0)
	}

	return nil
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
