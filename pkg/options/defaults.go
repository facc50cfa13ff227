package options

import "time"

const (
	// DefaultDataDir is the default base directory where pyrite stores its
	// collections, used when no other directory is specified during
	// initialization.
	DefaultDataDir = "/var/lib/pyrite"

	// DefaultCompactInterval is the default time between automatic
	// compaction sweeps.
	DefaultCompactInterval = time.Hour * 5

	// DefaultMaxEntries is the default number of logical entries a segment
	// holds before rotation.
	DefaultMaxEntries = 8192

	// DefaultCompactionRedundancyPercentage is the default collection-wide
	// ratio of redundant to total entries at or above which compaction
	// runs.
	DefaultCompactionRedundancyPercentage float32 = 0.5

	// DefaultCacheFileCount is the default number of decoded segments kept
	// resident in a collection's LRU.
	DefaultCacheFileCount = 10
)

// defaultOptions holds the default configuration for a pyrite Storage
// instance.
var defaultOptions = Options{
	DataDir:         DefaultDataDir,
	CompactInterval: DefaultCompactInterval,
	LogFileOptions: &logFileOptions{
		MaxEntries:                     DefaultMaxEntries,
		CompactionRedundancyPercentage: DefaultCompactionRedundancyPercentage,
	},
	CacheOptions: &cacheOptions{
		FileCount: DefaultCacheFileCount,
	},
	ArchiveOptions: &archiveOptions{
		CompressionEnabled: false,
	},
}

// NewDefaultOptions returns a copy of pyrite's default configuration.
func NewDefaultOptions() Options {
	opts := defaultOptions
	logFileOpts := *defaultOptions.LogFileOptions
	cacheOpts := *defaultOptions.CacheOptions
	archiveOpts := *defaultOptions.ArchiveOptions

	opts.LogFileOptions = &logFileOpts
	opts.CacheOptions = &cacheOpts
	opts.ArchiveOptions = &archiveOpts

	return opts
}
