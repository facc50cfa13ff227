// Package engine provides the core database engine implementation for the
// pyrite storage system.
//
// The engine serves as the central coordinator and entry point for all
// database operations. It owns the collection registry (internal/storage)
// and a background goroutine that periodically sweeps every open collection
// for compaction, per options.CompactInterval. Per-collection compaction
// itself - merging adjacent segment pairs - lives in
// internal/storage/collection, not here; the engine only schedules it.
//
// The engine implements a thread-safe interface with proper lifecycle
// management, ensuring resources are properly initialized and cleaned up.
// It uses atomic operations for state management to provide consistent
// behavior across concurrent operations.
package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/iamNilotpal/pyrite/internal/storage"
	"github.com/iamNilotpal/pyrite/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = errors.New("operation failed: cannot access closed engine")
)

// Engine represents the main database engine that coordinates all subsystems.
// It acts as the primary interface for database operations and manages the
// lifecycle of all internal components. The engine is designed to be
// thread-safe and supports concurrent operations while maintaining data
// consistency.
type Engine struct {
	options *options.Options   // options contains all configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // log provides structured logging capabilities throughout the engine.
	closed  atomic.Bool        // closed is an atomic boolean that tracks the engine's lifecycle state.
	storage *storage.Storage   // storage owns every collection and handles all persistent data operations.

	cancel  context.CancelFunc // cancel stops the background compaction loop.
	stopped chan struct{}      // stopped is closed once the compaction loop has exited.
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided
// configuration. This constructor follows the dependency injection pattern,
// making the engine testable and allowing for different configurations in
// different environments.
//
// Returns:
//   - *Engine: A fully initialized engine ready for use
//   - error: Any error encountered during initialization, typically from storage setup
func New(ctx context.Context, config *Config) (*Engine, error) {
	// Initialize the storage subsystem, which owns the collection registry.
	st, err := storage.New(&storage.Config{Logger: config.Logger, Options: config.Options})
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)

	e := &Engine{
		options: config.Options,
		log:     config.Logger,
		storage: st,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go e.compactionLoop(loopCtx)

	return e, nil
}

// Storage exposes the engine's collection registry to higher layers
// (pkg/pyrite) without duplicating Create/Get/Delete wrappers here.
func (e *Engine) Storage() *storage.Storage {
	return e.storage
}

// compactionLoop wakes up every options.CompactInterval and calls Compact on
// every currently-open collection. Compact is itself a no-op when a
// collection's redundancy ratio hasn't crossed the configured threshold, so
// this loop doesn't need its own gating logic.
func (e *Engine) compactionLoop(ctx context.Context) {
	defer close(e.stopped)

	interval := e.options.CompactInterval
	if interval <= 0 {
		interval = options.DefaultCompactInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, col := range e.storage.All() {
				if err := col.Compact(); err != nil {
					e.log.Errorw("compaction failed", "collection", col.Name(), "error", err)
				}
			}
		}
	}
}

// Close gracefully shuts down the engine and releases all associated
// resources. This method ensures that all pending operations complete and
// that data is properly persisted before the engine becomes unusable.
func (e *Engine) Close() error {
	// Use atomic compare-and-swap to transition from open (false) to closed (true).
	// This operation is atomic and thread-safe, ensuring only one goroutine
	// can successfully close the engine. The operation returns true if the
	// swap was successful (engine was open) or false if it failed (already closed).
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.cancel()
	<-e.stopped

	return e.storage.Close()
}
