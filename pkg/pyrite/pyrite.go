// Package pyrite is the public entry point for the storage engine: a
// segmented, append-only, MVCC document log with a pull-based query
// operator pipeline on top. It combines an append-only log structure on
// disk (internal/storage/logfile) with a bounded in-memory segment cache
// (internal/storage/collection) and snapshot-isolated reads
// (internal/mvcc) to give callers durable, concurrent-safe storage without
// requiring an external database process.
package pyrite

import (
	"context"

	"github.com/iamNilotpal/pyrite/internal/engine"
	"github.com/iamNilotpal/pyrite/pkg/options"
	"go.uber.org/zap"
)

// Storage is the top-level handle callers open once per data directory. It
// owns every collection created through it and runs a background
// compaction sweep on options.CompactInterval.
type Storage struct {
	engine *engine.Engine
}

// NewStorage opens a Storage at the default data directory
// (options.DefaultDataDir) with the rest of pyrite's default tuning.
func NewStorage(logger *zap.SugaredLogger) (*Storage, error) {
	opts := options.NewDefaultOptions()
	return NewStorageWithConfig(opts, logger)
}

// NewStorageWithConfig opens a Storage using the supplied options in place
// of the defaults.
func NewStorageWithConfig(cfg options.Options, logger *zap.SugaredLogger) (*Storage, error) {
	eng, err := engine.New(context.Background(), &engine.Config{Options: &cfg, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &Storage{engine: eng}, nil
}

// CreateCollection opens the named collection, creating it on disk if it
// doesn't already exist. Safe to call repeatedly with the same name.
func (s *Storage) CreateCollection(name string) (*Collection, error) {
	col, err := s.engine.Storage().Create(name)
	if err != nil {
		return nil, err
	}
	return &Collection{col: col}, nil
}

// CreateNewCollection opens the named collection, failing if it already
// exists.
func (s *Storage) CreateNewCollection(name string) (*Collection, error) {
	col, err := s.engine.Storage().CreateNew(name)
	if err != nil {
		return nil, err
	}
	return &Collection{col: col}, nil
}

// GetCollection returns the named collection and true, or (nil, false) if
// it has never been created.
func (s *Storage) GetCollection(name string) (*Collection, bool) {
	col, err := s.engine.Storage().Get(name)
	if err != nil {
		return nil, false
	}
	return &Collection{col: col}, true
}

// DeleteCollection closes and permanently removes the named collection from
// disk. A no-op if the collection doesn't exist.
func (s *Storage) DeleteCollection(name string) error {
	return s.engine.Storage().Delete(name)
}

// Close stops the background compaction loop and closes every open
// collection, aggregating any errors encountered.
func (s *Storage) Close() error {
	return s.engine.Close()
}
