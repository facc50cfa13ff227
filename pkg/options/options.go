// Package options provides data structures and functions for configuring
// pyrite. It defines the parameters that control the log-structured storage
// layer's behavior - segment sizing, cache budget, and compaction cadence -
// through the functional-options pattern. Loading these values from a config
// file is a caller concern (outside the engine's scope); Options itself only
// round-trips through JSON using the documented schema so a caller-owned
// loader has somewhere to land the values.
package options

import (
	"strings"
	"time"

	units "github.com/docker/go-units"
)

// logFileOptions controls how a collection's append-only segments are sized
// and when they become compaction candidates.
type logFileOptions struct {
	// MaxEntries is the maximum number of logical LogEntry records a single
	// segment may hold before a new segment is rotated in.
	//
	//  - Default: 8192
	MaxEntries int `json:"max_entries"`

	// CompactionRedundancyPercentage is the collection-wide ratio of
	// redundant to total entries (see CollectionStatistics) at or above
	// which compaction merges the collection's adjacent segment pairs.
	//
	//  - Default: 0.5
	CompactionRedundancyPercentage float32 `json:"compaction_redundancy_percentage"`
}

// cacheOptions controls the bounded LRU of loaded segments a Collection keeps
// in memory.
type cacheOptions struct {
	// FileCount caps how many decoded segments stay resident at once.
	//
	//  - Default: 10
	FileCount int `json:"file_count"`

	// MemoryBudgetBytes records a byte-size cache budget, settable from
	// human-friendly strings like "512MB" via WithCacheMemoryBudgetString.
	// The segment cache does not read it; it is bounded by FileCount alone.
	MemoryBudgetBytes uint64 `json:"memory_budget_bytes,omitempty"`
}

// archiveOptions controls optional on-disk compression of segments evicted
// from the cache. Disabled by default so the wire format matches
// the documented uncompressed frame layout byte-for-byte.
type archiveOptions struct {
	// CompressionEnabled turns on lz4 framing for a segment when it is
	// evicted from the cache, unless it is the active (appendable) segment
	// of its collection.
	CompressionEnabled bool `json:"compression_enabled"`
}

// Options defines the configuration parameters for a pyrite Storage
// instance: where collections live on disk, how their segments are sized
// and cached, and how often background compaction runs.
type Options struct {
	// DataDir is the base path under which every collection's directory is
	// created.
	//
	//  - Default: "/var/lib/pyrite"
	DataDir string `json:"data_dir"`

	// CompactInterval is how often the background compaction sweep
	// considers each collection's segment pairs for merging.
	//
	//  - Default: 5h
	CompactInterval time.Duration `json:"compact_interval"`

	LogFileOptions *logFileOptions `json:"log_file"`
	CacheOptions   *cacheOptions   `json:"cache"`
	ArchiveOptions *archiveOptions `json:"archive"`
}

// OptionFunc is a function type that modifies a pyrite Options value.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactInterval = opts.CompactInterval
		o.LogFileOptions = opts.LogFileOptions
		o.CacheOptions = opts.CacheOptions
		o.ArchiveOptions = opts.ArchiveOptions
	}
}

// WithDataDir sets the primary data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactInterval sets the interval at which background compaction runs.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// WithMaxEntries sets the maximum number of logical entries per segment
// before rotation.
func WithMaxEntries(max int) OptionFunc {
	return func(o *Options) {
		if max > 0 {
			o.LogFileOptions.MaxEntries = max
		}
	}
}

// WithCompactionRedundancyPercentage sets the collection-wide redundant-entry
// ratio at or above which compaction runs.
func WithCompactionRedundancyPercentage(ratio float32) OptionFunc {
	return func(o *Options) {
		if ratio > 0 && ratio <= 1 {
			o.LogFileOptions.CompactionRedundancyPercentage = ratio
		}
	}
}

// WithCacheFileCount sets how many decoded segments the LRU keeps resident.
func WithCacheFileCount(count int) OptionFunc {
	return func(o *Options) {
		if count > 0 {
			o.CacheOptions.FileCount = count
		}
	}
}

// WithCacheMemoryBudget sets the byte-size cache budget directly. The
// segment LRU stays bounded by FileCount; the budget is not applied to it.
func WithCacheMemoryBudget(bytes uint64) OptionFunc {
	return func(o *Options) {
		if bytes > 0 {
			o.CacheOptions.MemoryBudgetBytes = bytes
		}
	}
}

// WithCacheMemoryBudgetString parses a human-friendly size string ("512MB",
// "1GiB") into the cache's byte budget. Invalid strings are ignored, leaving
// the previous budget unchanged.
func WithCacheMemoryBudgetString(size string) OptionFunc {
	return func(o *Options) {
		size = strings.TrimSpace(size)
		if size == "" {
			return
		}
		bytes, err := units.FromHumanSize(size)
		if err != nil || bytes <= 0 {
			return
		}
		o.CacheOptions.MemoryBudgetBytes = uint64(bytes)
	}
}

// WithArchiveCompression enables or disables lz4 compression of segments
// when they are evicted from the cache (a collection's active segment is
// never compressed).
func WithArchiveCompression(enabled bool) OptionFunc {
	return func(o *Options) {
		o.ArchiveOptions.CompressionEnabled = enabled
	}
}

// Options is intentionally a plain struct with json tags and no custom
// Marshal/Unmarshal methods - a caller-owned config loader can read or write
// the documented storage_config.json schema with encoding/json alone.
