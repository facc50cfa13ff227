// Package segio names and discovers a collection's segment files on disk.
// Unlike the timestamped prefix_NNNNN_timestamp.seg naming the rest of this
// codebase's lineage uses for generic segment storage, a pyrite collection's
// segments are simple, contiguously numbered log files: <collection>/<k>.log
// for k = 0..last_segment_index, which is what the MVCC scan and compaction
// both rely on to enumerate "every segment, oldest to newest" without a
// directory listing.
package segio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/iamNilotpal/pyrite/pkg/filesys"
)

// SegmentFileName returns the on-disk filename for segment index within a
// collection directory.
func SegmentFileName(index int) string {
	return fmt.Sprintf("%d.log", index)
}

// SegmentPath joins a collection directory and segment index into a full
// path.
func SegmentPath(collectionDir string, index int) string {
	return filepath.Join(collectionDir, SegmentFileName(index))
}

// DiscoverLastIndex scans collectionDir for "<k>.log" files - or their
// archived "<k>.log.lz4" form, for a segment compressed on cache eviction -
// and returns the highest k found. It returns -1 if the directory contains
// no segments yet (a brand new collection, which the caller should seed
// with segment 0).
func DiscoverLastIndex(collectionDir string) (int, error) {
	plain, err := filesys.ReadDir(filepath.Join(collectionDir, "*.log"))
	if err != nil {
		return -1, fmt.Errorf("segio: failed to list segments in %s: %w", collectionDir, err)
	}
	archived, err := filesys.ReadDir(filepath.Join(collectionDir, "*.log.lz4"))
	if err != nil {
		return -1, fmt.Errorf("segio: failed to list archived segments in %s: %w", collectionDir, err)
	}
	matches := append(plain, archived...)

	if len(matches) == 0 {
		return -1, nil
	}

	seen := make(map[int]bool, len(matches))
	indices := make([]int, 0, len(matches))
	for _, m := range matches {
		idx, err := ParseIndex(m)
		if err != nil {
			return -1, err
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}

	sort.Ints(indices)

	// Contiguity invariant: the directory must hold 0..last_segment_index
	// without gaps.
	for i, idx := range indices {
		if idx != i {
			return -1, fmt.Errorf("segio: segment directory %s is not contiguous: expected segment %d, found %d", collectionDir, i, idx)
		}
	}

	return indices[len(indices)-1], nil
}

// ParseIndex extracts the segment index from a "<k>.log" or archived
// "<k>.log.lz4" file path.
func ParseIndex(path string) (int, error) {
	name := filepath.Base(path)

	trimmed := strings.TrimSuffix(name, ".log.lz4")
	if trimmed == name {
		trimmed = strings.TrimSuffix(name, ".log")
		if trimmed == name {
			return 0, fmt.Errorf("segio: %s does not have a .log or .log.lz4 extension", name)
		}
	}

	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("segio: %s is not a numeric segment file: %w", name, err)
	}
	return idx, nil
}

// EnsureCollectionDir creates the directory for a collection if it doesn't
// already exist.
func EnsureCollectionDir(collectionDir string) error {
	return filesys.CreateDir(collectionDir, 0755, true)
}

// RemoveCollectionDir deletes a collection's directory and every segment in
// it.
func RemoveCollectionDir(collectionDir string) error {
	return filesys.DeleteDir(collectionDir)
}
