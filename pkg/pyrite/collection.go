package pyrite

import (
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/mvcc"
	"github.com/iamNilotpal/pyrite/internal/storage/collection"
)

// Collection is a named, segmented, append-only log of rows. Rows are
// versioned by transaction id: SetRows stages new versions under tx, and
// Commit/Rollback decide whether a TableScan taken at or after tx sees
// them.
type Collection struct {
	col *collection.Collection
}

// SetRows stages an Update entry for each row under tx, batching them
// across as many segments as needed and returning how many were written.
// Every row must have the same column shape (count and Kind per column) as
// whatever this collection has already stored, if anything.
func (c *Collection) SetRows(tx uuid.UUID, rows []Row) (int, error) {
	return c.col.SetRows(tx, rows)
}

// Commit marks tx as committed, making every row it staged visible to a
// TableScan whose snapshot is at or after tx.
func (c *Collection) Commit(tx uuid.UUID) error {
	return c.col.Commit(tx)
}

// Rollback marks tx as rolled back; no TableScan will ever resolve its
// staged rows as visible.
func (c *Collection) Rollback(tx uuid.UUID) error {
	return c.col.Rollback(tx)
}

// TableScan returns a fresh source operator over every row visible as of
// snapshotTx.
func (c *Collection) TableScan(snapshotTx uuid.UUID) *mvcc.TableScan {
	return c.col.TableScan(snapshotTx)
}

// ClearCache evicts every segment currently held in this collection's
// bounded in-memory LRU. Segments are reloaded from disk on next access.
func (c *Collection) ClearCache() {
	c.col.ClearCache()
}

// PrintDebugInfo returns a human-readable dump of the collection's name,
// directory, cached segments and entry counters.
func (c *Collection) PrintDebugInfo() string {
	return c.col.PrintDebugInfo()
}

// Name returns the collection's name.
func (c *Collection) Name() string {
	return c.col.Name()
}

// CollectionStatistics is a snapshot of a collection's approximate entry
// counters, used to decide when compaction is worthwhile.
type CollectionStatistics = collection.CollectionStatistics

// Statistics returns a snapshot of the collection's approximate entry
// counters.
func (c *Collection) Statistics() CollectionStatistics {
	return c.col.Statistics()
}
