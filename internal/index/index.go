// Package index provides a sorted secondary-index extension point for a
// collection's columns. The planner side that would choose an index over a
// full internal/mvcc.TableScan is out of scope here; this package only
// maintains the ordered structure one would consult, so that wiring it in
// later is a planner change, not a storage-layer one.
package index

import (
	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
	"github.com/iamNilotpal/pyrite/pkg/errors"
)

const defaultDegree = 32

// New creates an empty SortedIndex over one column of one collection.
func New(config *Config) (*SortedIndex, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &SortedIndex{
		collection: config.Collection,
		column:     config.Column,
		dataDir:    config.DataDir,
		log:        config.Logger,
		tree:       btree.NewG[entry](defaultDegree, less),
	}, nil
}

// Insert adds r's value at the index's configured column into the tree.
// A no-op if the row is too short to have that column.
func (si *SortedIndex) Insert(r row.Row) {
	f, ok := r.Field(si.column)
	if !ok {
		return
	}

	si.mu.Lock()
	defer si.mu.Unlock()
	si.tree.ReplaceOrInsert(entry{Value: f, RowID: r.ID})
}

// Remove drops r's entry for the index's column, if present.
func (si *SortedIndex) Remove(r row.Row) {
	f, ok := r.Field(si.column)
	if !ok {
		return
	}

	si.mu.Lock()
	defer si.mu.Unlock()
	si.tree.Delete(entry{Value: f, RowID: r.ID})
}

// Seek returns every row id whose value at the indexed column equals key, in
// row-id order.
func (si *SortedIndex) Seek(key field.Field) []uuid.UUID {
	si.mu.RLock()
	defer si.mu.RUnlock()

	var ids []uuid.UUID
	pivot := entry{Value: key}
	si.tree.AscendGreaterOrEqual(pivot, func(e entry) bool {
		if e.Value.Compare(key) != 0 {
			return false
		}
		ids = append(ids, e.RowID)
		return true
	})
	return ids
}

// Range returns every row id whose value at the indexed column falls within
// [lower, upper), in ascending order.
func (si *SortedIndex) Range(lower, upper field.Field) []uuid.UUID {
	si.mu.RLock()
	defer si.mu.RUnlock()

	var ids []uuid.UUID
	si.tree.AscendRange(entry{Value: lower}, entry{Value: upper}, func(e entry) bool {
		ids = append(ids, e.RowID)
		return true
	})
	return ids
}

// Len returns the number of entries currently held.
func (si *SortedIndex) Len() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.tree.Len()
}
