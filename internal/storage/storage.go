// Package storage provides the top-level collection registry for the
// storage engine. Each named collection owns its own segment directory and
// compaction (see internal/storage/collection); Storage is the
// thing a caller opens once per data directory and uses to create, fetch,
// and drop collections by name.
//
// Core Architecture:
//
// Collections are looked up by name through a github.com/launix-de/NonLockingReadMap,
// a copy-on-write sorted slice that serves reads without taking a lock. Creating
// or dropping a collection is the rare path and is serialized by createMu so two
// concurrent CreateNew calls for the same name can't both win.
//
// Initialization and Recovery:
//
// Opening a Storage does not eagerly open every collection on disk; each
// collection is opened the first time Create or CreateNew is called for its
// name, at which point collection.Open performs its own segment-discovery
// and crash-recovery pass. Get only returns collections already opened this
// way; it never opens one from disk.
package storage

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/collection"
	"github.com/iamNilotpal/pyrite/internal/storage/segio"
	"github.com/iamNilotpal/pyrite/pkg/errors"
	"github.com/iamNilotpal/pyrite/pkg/filesys"
	"github.com/launix-de/NonLockingReadMap"
	"go.uber.org/multierr"
)

// New creates a Storage instance rooted at config.Options.DataDir, creating
// the directory if it doesn't exist yet. No collections are opened at this
// point; each is opened on first use.
func New(config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeInvalidInput, "storage config, options and logger are required")
	}

	if err := filesys.CreateDir(config.Options.DataDir, 0755, true); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create data directory").
			WithPath(config.Options.DataDir)
	}

	config.Logger.Infow("storage initialized", "dataDir", config.Options.DataDir)

	return &Storage{
		dataDir:  config.Options.DataDir,
		options:  config.Options,
		log:      config.Logger,
		registry: NonLockingReadMap.New[collectionEntry, string](),
	}, nil
}

// Create opens the named collection, creating it on disk if it does not
// already exist. Calling Create twice for the same name returns the same
// underlying collection, so it is safe to use as a get-or-create.
func (s *Storage) Create(name string) (*collection.Collection, error) {
	if s.closed.Load() {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeInternal, "storage is closed")
	}

	if entry := s.registry.Get(name); entry != nil {
		return entry.col, nil
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	// Re-check after acquiring the lock: another goroutine may have created
	// the collection while we were waiting.
	if entry := s.registry.Get(name); entry != nil {
		return entry.col, nil
	}

	return s.openCollection(name)
}

// CreateNew opens the named collection, failing with ErrorCodeCollectionAlreadyExists
// if it is already registered.
func (s *Storage) CreateNew(name string) (*collection.Collection, error) {
	if s.closed.Load() {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeInternal, "storage is closed")
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if s.registry.Get(name) != nil {
		return nil, errors.NewCollectionAlreadyExistsError(name)
	}

	return s.openCollection(name)
}

// Get returns the named collection, failing with ErrorCodeCollectionNotFound
// if it has never been created in this Storage.
func (s *Storage) Get(name string) (*collection.Collection, error) {
	if s.closed.Load() {
		return nil, errors.NewStorageError(nil, errors.ErrorCodeInternal, "storage is closed")
	}

	entry := s.registry.Get(name)
	if entry == nil {
		return nil, errors.NewCollectionNotFoundError(name)
	}

	return entry.col, nil
}

// Delete closes and permanently removes the named collection, deleting its
// segment directory from disk. Deleting a collection that doesn't exist is a
// no-op.
func (s *Storage) Delete(name string) error {
	if s.closed.Load() {
		return errors.NewStorageError(nil, errors.ErrorCodeInternal, "storage is closed")
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	entry := s.registry.Get(name)
	if entry == nil {
		return nil
	}

	var err error
	if closeErr := entry.col.Close(); closeErr != nil {
		err = multierr.Append(err, closeErr)
	}

	s.registry.Remove(name)

	dir := s.collectionDir(name)
	if rmErr := segio.RemoveCollectionDir(dir); rmErr != nil {
		err = multierr.Append(err, errors.NewStorageError(rmErr, errors.ErrorCodeIO, "failed to remove collection directory").
			WithPath(dir))
	}

	return err
}

// Close closes every collection currently registered, aggregating any
// errors encountered via go.uber.org/multierr rather than stopping at the
// first failure. After Close, the Storage rejects further operations.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	for _, entry := range s.registry.GetAll() {
		if closeErr := entry.col.Close(); closeErr != nil {
			err = multierr.Append(err, closeErr)
		}
	}

	s.log.Infow("storage closed", "dataDir", s.dataDir)
	return err
}

// All returns every collection currently registered, in no particular
// order. Used by the engine's background compaction loop to sweep every
// open collection on each tick.
func (s *Storage) All() []*collection.Collection {
	entries := s.registry.GetAll()
	cols := make([]*collection.Collection, len(entries))
	for i, entry := range entries {
		cols[i] = entry.col
	}
	return cols
}

func (s *Storage) openCollection(name string) (*collection.Collection, error) {
	col, err := collection.Open(&collection.Config{
		Name:    name,
		DataDir: s.dataDir,
		Options: s.options,
		Logger:  s.log.With("collection", name),
	})
	if err != nil {
		return nil, err
	}

	s.registry.Set(&collectionEntry{name: name, col: col})
	return col, nil
}

func (s *Storage) collectionDir(name string) string {
	return filepath.Join(s.dataDir, name)
}

// NewTx generates a fresh transaction id for callers that don't already
// have one; Collection.SetRows/Commit/Rollback take tx ids directly so
// callers that manage their own transaction lifecycle can skip this.
// Transaction ids are time-ordered (UUIDv7), not random, so that le128
// comparison across transactions agrees with the order they were minted in.
func NewTx() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
