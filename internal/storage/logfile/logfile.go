// Package logfile implements the append-only segment file format: framed,
// varint-length-prefixed LogEntry records backed by EntryFields row payloads.
package logfile

import (
	"os"
	"sync"

	"github.com/iamNilotpal/pyrite/internal/storage/logfile/varint"
	"github.com/iamNilotpal/pyrite/pkg/errors"
)

// LogFile is an ordered, in-memory-mirrored sequence of LogEntry records
// backed by a single append-only file on disk. Readers take the read lock;
// Append and Truncate hold the write lock across both the disk write and the
// in-memory push, so a concurrent reader never observes a vector that is
// ahead of (or behind) what's durable on disk.
type LogFile struct {
	mu      sync.RWMutex
	path    string
	file    *os.File
	entries []LogEntry
	// byteSize is a running estimate of on-disk bytes, used for cache
	// accounting only - never an authoritative size.
	byteSize int64
}

// Load reads the whole file at path into memory, decoding every frame into a
// LogEntry. A missing file is treated as an empty, freshly created segment.
// An incomplete trailing frame (a partial write that didn't finish before a
// crash) is discarded, and the file rewritten to its valid prefix, rather
// than treated as fatal corruption; nothing is logged. A length-complete
// frame that fails to decode is discarded the same way, together with
// everything after it.
func Load(path string) (*LogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read segment file").WithPath(path)
		}
		data = nil
	}

	entries, consumed, truncated := decodeFrames(data)
	lf := &LogFile{path: path, entries: entries, byteSize: int64(consumed)}

	if truncated {
		if err := lf.rewriteTruncated(data[:consumed]); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open segment file for append").WithPath(path)
	}
	lf.file = file

	return lf, nil
}

// rewriteTruncated persists the validated prefix of the file, discarding any
// incomplete trailing frame left by a crash mid-write.
func (lf *LogFile) rewriteTruncated(validPrefix []byte) error {
	return os.WriteFile(lf.path, validPrefix, 0644)
}

// decodeFrames scans buf as a concatenation of [varint length][entry bytes]
// frames, decoding each into a LogEntry. It returns the entries decoded, the
// number of bytes consumed by complete frames, and whether decoding stopped
// early at an incomplete or malformed frame (which, with everything after
// it, is left unconsumed).
func decodeFrames(buf []byte) (entries []LogEntry, consumed int, truncated bool) {
	pos := 0
	for pos < len(buf) {
		remaining := buf[pos:]

		length, lenConsumed := varint.Decode(remaining)
		frameStart := lenConsumed
		frameEnd := frameStart + int(length)

		if frameEnd > len(remaining) {
			// Partial frame at EOF: a crash landed mid-write.
			return entries, pos, true
		}

		entry, err := DecodeLogEntry(remaining[frameStart:frameEnd])
		if err != nil {
			// A malformed (but length-complete) frame is real corruption,
			// not a partial write, but it is reported exactly like one:
			// decoding stops here and the rest of buf is left unconsumed.
			return entries, pos, true
		}

		entries = append(entries, entry)
		pos += frameEnd
	}

	return entries, pos, false
}

// Append serializes each new entry, writes [varint_len][bytes] frames to the
// file, fsyncs, then pushes the decoded entries into the in-memory slice -
// all under a single write-lock hold, so readers never see memory diverge
// from disk.
func (lf *LogFile) Append(newEntries ...LogEntry) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	scratch := make([]byte, 0, 256)
	frame := make([]byte, 0, 256)

	for _, e := range newEntries {
		scratch = scratch[:0]
		scratch = e.Encode(scratch)

		frame = frame[:0]
		frame = varint.Encode(frame, uint64(len(scratch)))
		frame = append(frame, scratch...)

		if _, err := lf.file.Write(frame); err != nil {
			return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append log entry").WithPath(lf.path)
		}

		lf.byteSize += int64(len(frame))
	}

	if err := lf.file.Sync(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to sync segment file").WithPath(lf.path)
	}

	lf.entries = append(lf.entries, newEntries...)
	return nil
}

// Truncate discards all entries and writes newEntries as the file's entire
// new content, under the same single write-lock hold as Append.
func (lf *LogFile) Truncate(newEntries ...LogEntry) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	buf := make([]byte, 0, 4096)
	scratch := make([]byte, 0, 256)

	for _, e := range newEntries {
		scratch = scratch[:0]
		scratch = e.Encode(scratch)
		buf = varint.Encode(buf, uint64(len(scratch)))
		buf = append(buf, scratch...)
	}

	if err := lf.file.Truncate(0); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to truncate segment file").WithPath(lf.path)
	}
	if _, err := lf.file.Seek(0, 0); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek segment file").WithPath(lf.path)
	}
	if _, err := lf.file.Write(buf); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write truncated segment file").WithPath(lf.path)
	}
	if err := lf.file.Sync(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to sync segment file").WithPath(lf.path)
	}

	lf.entries = append([]LogEntry(nil), newEntries...)
	lf.byteSize = int64(len(buf))
	return nil
}

// Entries returns a snapshot slice of every entry currently held in memory.
// Callers must not mutate the returned slice's elements.
func (lf *LogFile) Entries() []LogEntry {
	lf.mu.RLock()
	defer lf.mu.RUnlock()

	out := make([]LogEntry, len(lf.entries))
	copy(out, lf.entries)
	return out
}

// Len returns the number of logical entries currently held.
func (lf *LogFile) Len() int {
	lf.mu.RLock()
	defer lf.mu.RUnlock()
	return len(lf.entries)
}

// ByteSize returns the running estimate of on-disk bytes, for cache
// accounting only.
func (lf *LogFile) ByteSize() int64 {
	lf.mu.RLock()
	defer lf.mu.RUnlock()
	return lf.byteSize
}

// Path returns the on-disk path this segment was loaded from. Used by
// internal/storage/collection to archive a segment once it's evicted from
// the cache.
func (lf *LogFile) Path() string {
	return lf.path
}

// Close releases the underlying file handle.
func (lf *LogFile) Close() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.file.Close()
}
