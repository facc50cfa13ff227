package storage

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/pyrite/internal/storage/collection"
	"github.com/iamNilotpal/pyrite/pkg/options"
	"github.com/launix-de/NonLockingReadMap"
	"go.uber.org/zap"
)

// collectionEntry adapts *collection.Collection into NonLockingReadMap's
// KeyGetter/Sizable contract, keyed by collection name. Methods must use a
// value receiver: the map dereferences its stored *T before calling GetKey.
type collectionEntry struct {
	name string
	col  *collection.Collection
}

func (e collectionEntry) GetKey() string { return e.name }

// ComputeSize returns a coarse size estimate for cache-accounting purposes;
// the registry itself doesn't evict entries, so this is informational only.
func (e collectionEntry) ComputeSize() uint {
	return uint(64 + len(e.name))
}

// Storage owns every collection in one data directory, by name. Lookups are
// always lock-free reads against NonLockingReadMap; creating or dropping a
// collection is the rare write path, serialized by createMu.
type Storage struct {
	dataDir  string
	options  *options.Options
	log      *zap.SugaredLogger
	closed   atomic.Bool
	createMu sync.Mutex
	registry NonLockingReadMap.NonLockingReadMap[collectionEntry, string]
}

// Config holds the parameters required to open a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
