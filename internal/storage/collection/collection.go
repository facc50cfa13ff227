// Package collection implements pyrite's unit of storage: a named,
// segmented, append-only log of rows with a bounded in-memory segment cache
// and background-triggered compaction.
package collection

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/mvcc"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/logfile"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
	"github.com/iamNilotpal/pyrite/internal/storage/segio"
	"github.com/iamNilotpal/pyrite/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ZeroTx is the distinguished "always-committed" transaction id used for
// bulk and bootstrap writes.
var ZeroTx = uuid.UUID{}

// Open opens an existing collection directory or creates a fresh one with a
// single empty segment 0.
func Open(config *Config) (*Collection, error) {
	if config == nil || config.Name == "" || config.DataDir == "" || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "collection configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dir := filepath.Join(config.DataDir, config.Name)
	if err := segio.EnsureCollectionDir(dir); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create collection directory").WithPath(dir)
	}

	lastIndex, err := segio.DiscoverLastIndex(dir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover collection segments").WithPath(dir)
	}

	c := &Collection{
		name:  config.Name,
		dir:   dir,
		log:   config.Logger.With("collection", config.Name),
		opts:  config.Options,
		cache: newSegmentCache(config.Options.CacheOptions.FileCount),
	}

	if lastIndex < 0 {
		lastIndex = 0
		if _, err := c.loadOrCreateSegment(lastIndex); err != nil {
			return nil, err
		}
	}
	c.lastSegmentIndex = lastIndex

	c.log.Infow("collection opened", "lastSegmentIndex", lastIndex)
	return c, nil
}

// Name returns the collection's name.
func (c *Collection) Name() string { return c.name }

// Statistics returns a snapshot of the collection's approximate counters.
func (c *Collection) Statistics() CollectionStatistics {
	return CollectionStatistics{
		TotalEntries:     c.stats.totalEntries.Load(),
		RedundantEntries: c.stats.redundantEntries.Load(),
	}
}

// LastSegmentIndex returns the index of the currently open-for-append
// segment.
func (c *Collection) LastSegmentIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSegmentIndex
}

// Segment returns the LogFile for index, loading it from disk and inserting
// it into the cache if it isn't already resident. Exported for
// internal/mvcc, which scans a collection's segments directly.
func (c *Collection) Segment(index int) (*logfile.LogFile, error) {
	return c.getSegment(index)
}

// TableScan returns a fresh internal/mvcc.TableScan over this collection as
// of snapshotTx: every row visible to a reader whose snapshot is snapshotTx,
// newest version of each row id, tombstones suppressed.
func (c *Collection) TableScan(snapshotTx uuid.UUID) *mvcc.TableScan {
	return mvcc.New(c, snapshotTx)
}

// getSegment returns the LogFile for index, loading it from disk and
// inserting it into the cache if it isn't already resident.
func (c *Collection) getSegment(index int) (*logfile.LogFile, error) {
	if lf, ok := c.cache.get(index); ok {
		return lf, nil
	}
	return c.loadOrCreateSegment(index)
}

func (c *Collection) loadOrCreateSegment(index int) (*logfile.LogFile, error) {
	path := segio.SegmentPath(c.dir, index)

	if err := ensureDecompressed(path); err != nil {
		return nil, err
	}

	lf, err := logfile.Load(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to load segment").
			WithPath(path).WithSegmentID(index)
	}

	if evicted, evictedIndex := c.cache.put(index, lf); evicted != nil {
		evictedPath := evicted.Path()
		if err := evicted.Close(); err != nil {
			c.log.Warnw("failed to close evicted segment", "error", err)
		}
		if err := c.archiveSegment(evictedIndex, evictedPath); err != nil {
			c.log.Warnw("failed to archive evicted segment", "error", err)
		}
	}

	return lf, nil
}

// SetRows normalizes and appends rows under transaction tx. Rows with a nil
// Fields slice are treated as deletes of their id; all others are treated as
// updates. It returns the number of logical entries written.
func (c *Collection) SetRows(tx uuid.UUID, rows []row.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	if err := c.checkShape(rows); err != nil {
		return 0, err
	}

	entries := make([]logfile.LogEntry, 0, len(rows))
	for _, r := range rows {
		if r.Fields == nil {
			entries = append(entries, logfile.NewDeleteEntry(tx, r.ID))
			continue
		}

		ef, err := logfile.NewEntryFields(r.Fields)
		if err != nil {
			return 0, errors.NewQueryError(err, errors.ErrorCodeQueryTypeMismatch, "failed to pack row fields").
				WithRowID(r.ID.String())
		}
		entries = append(entries, logfile.NewUpdateEntry(tx, r.ID, ef))
	}

	written, err := c.appendBatched(entries)
	if err != nil {
		return written, err
	}

	c.stats.totalEntries.Add(int64(written))
	// Every write to a row id that may already exist is a potential source
	// of redundancy once its predecessor is superseded; this is a rough,
	// non-authoritative heuristic, per CollectionStatistics' contract.
	c.stats.redundantEntries.Add(int64(written))
	return written, nil
}

// Commit appends a Commit marker for tx, always as the final entry of that
// transaction's run (see logfile.LogEntry's commit-last convention).
func (c *Collection) Commit(tx uuid.UUID) error {
	_, err := c.appendBatched([]logfile.LogEntry{logfile.NewCommitEntry(tx)})
	return err
}

// Rollback appends a Rollback marker for tx.
func (c *Collection) Rollback(tx uuid.UUID) error {
	_, err := c.appendBatched([]logfile.LogEntry{logfile.NewRollbackEntry(tx)})
	return err
}

// appendBatched writes entries to the last segment, rotating to new
// segments as max_entries is reached. It returns how many entries were
// written (always len(entries) absent an error, since append is all-or-
// nothing per segment write).
func (c *Collection) appendBatched(entries []logfile.LogEntry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxEntries := c.opts.LogFileOptions.MaxEntries
	written := 0

	for len(entries) > 0 {
		lf, err := c.getSegment(c.lastSegmentIndex)
		if err != nil {
			return written, err
		}

		leftover := maxEntries - lf.Len()
		if leftover <= 0 {
			c.lastSegmentIndex++
			lf, err = c.loadOrCreateSegment(c.lastSegmentIndex)
			if err != nil {
				return written, err
			}
			leftover = maxEntries
		}

		take := leftover
		if take > len(entries) {
			take = len(entries)
		}

		if err := lf.Append(entries[:take]...); err != nil {
			return written, err
		}

		written += take
		entries = entries[take:]
	}

	return written, nil
}

// checkShape verifies that, if the collection already holds at least one
// visible row, every incoming non-delete row has the same column-type
// sequence as that existing row. This costs one MVCC scan for a single
// visible row (see internal/mvcc); an empty collection skips the check.
func (c *Collection) checkShape(rows []row.Row) error {
	existingShape, hasExisting, err := c.sampleShape()
	if err != nil {
		return err
	}
	if !hasExisting {
		return nil
	}

	for _, r := range rows {
		if r.Fields == nil {
			continue
		}
		if err := shapesMatch(existingShape, r.Fields); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeSchemaMismatch, "row does not match collection shape").
				WithDetail("rowId", r.ID.String())
		}
	}

	return nil
}

func shapesMatch(want []field.Kind, fields []field.Field) error {
	if len(want) != len(fields) {
		return fmt.Errorf("expected %d columns, got %d", len(want), len(fields))
	}
	for i, f := range fields {
		if f.Kind() != want[i] {
			return fmt.Errorf("column %d: expected kind %d, got %d", i, want[i], f.Kind())
		}
	}
	return nil
}

// sampleShape scans the collection (as internal/mvcc would, at the maximum
// possible snapshot id) for a single visible row's column-kind sequence.
// It walks the segments directly rather than going through an
// internal/mvcc.TableScan.
func (c *Collection) sampleShape() ([]field.Kind, bool, error) {
	c.mu.RLock()
	lastIndex := c.lastSegmentIndex
	c.mu.RUnlock()

	visited := make(map[uuid.UUID]bool)
	committed := map[uuid.UUID]bool{ZeroTx: true}

	for idx := lastIndex; idx >= 0; idx-- {
		lf, err := c.getSegment(idx)
		if err != nil {
			return nil, false, err
		}

		segEntries := lf.Entries()
		for i := len(segEntries) - 1; i >= 0; i-- {
			e := segEntries[i]
			switch e.Kind {
			case logfile.EntryCommit:
				committed[e.TxID] = true
			case logfile.EntryDelete:
				if committed[e.TxID] {
					visited[e.RowID] = true
				}
			case logfile.EntryUpdate:
				if committed[e.TxID] && !visited[e.RowID] {
					visited[e.RowID] = true
					fields, err := e.Row.All()
					if err != nil {
						return nil, false, err
					}
					kinds := make([]field.Kind, len(fields))
					for i, f := range fields {
						kinds[i] = f.Kind()
					}
					return kinds, true, nil
				}
			}
		}

		if idx == 0 {
			break
		}
	}

	return nil, false, nil
}

// ClearCache evicts every segment currently resident in the LRU, closing
// their file handles. Segments are reloaded lazily on next access.
func (c *Collection) ClearCache() {
	for _, lf := range c.cache.clear() {
		if err := lf.Close(); err != nil {
			c.log.Warnw("failed to close segment during cache clear", "error", err)
		}
	}
}

// debugSnapshot is the YAML-marshaled shape PrintDebugInfo emits.
type debugSnapshot struct {
	Collection       string `yaml:"collection"`
	Directory        string `yaml:"directory"`
	LastSegmentIndex int    `yaml:"lastSegmentIndex"`
	CachedSegments   int    `yaml:"cachedSegments"`
	TotalEntries     int64  `yaml:"totalEntries"`
	RedundantEntries int64  `yaml:"redundantEntries"`
}

// PrintDebugInfo returns a human-readable YAML dump of the collection's
// state, useful for operational debugging and test assertions.
func (c *Collection) PrintDebugInfo() string {
	stats := c.Statistics()

	snap := debugSnapshot{
		Collection:       c.name,
		Directory:        c.dir,
		LastSegmentIndex: c.LastSegmentIndex(),
		CachedSegments:   c.cache.len(),
		TotalEntries:     stats.TotalEntries,
		RedundantEntries: stats.RedundantEntries,
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		// Marshaling a plain struct of strings/ints never fails in
		// practice; fall back to a minimal line rather than panic.
		return fmt.Sprintf("collection: %q\n", c.name)
	}
	return string(out)
}

// Close flushes and releases every cached segment handle.
func (c *Collection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	for _, lf := range c.cache.clear() {
		if closeErr := lf.Close(); closeErr != nil {
			err = multierr.Append(err, closeErr)
		}
	}
	return err
}
