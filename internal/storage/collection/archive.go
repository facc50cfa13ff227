package collection

import (
	"bytes"
	"io"
	"os"

	"github.com/iamNilotpal/pyrite/pkg/errors"
	"github.com/iamNilotpal/pyrite/pkg/filesys"
	"github.com/pierrec/lz4/v4"
)

// archiveSuffix marks an lz4-framed, compressed-on-disk segment. A segment
// carries exactly one of path or path+archiveSuffix on disk at a time.
const archiveSuffix = ".lz4"

// archiveSegment lz4-compresses the on-disk file for a segment that was
// just evicted from the cache, replacing the plain file with its compressed
// form. It is a no-op when archival compression isn't enabled, or when the
// evicted segment is the collection's active (still-appendable) one -
// compressing a segment that might still be appended to would corrupt the
// next Append.
func (c *Collection) archiveSegment(index int, path string) error {
	if c.opts.ArchiveOptions == nil || !c.opts.ArchiveOptions.CompressionEnabled {
		return nil
	}
	if index == c.LastSegmentIndex() {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read segment for archival").WithPath(path)
	}

	var compressed bytes.Buffer
	w := lz4.NewWriter(&compressed)
	if _, err := w.Write(raw); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeCompression, "failed to compress segment").WithPath(path)
	}
	if err := w.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeCompression, "failed to finalize segment compression").WithPath(path)
	}

	if err := filesys.WriteFile(path+archiveSuffix, 0644, compressed.Bytes()); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write archived segment").WithPath(path + archiveSuffix)
	}
	if err := os.Remove(path); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove pre-archival segment").WithPath(path)
	}

	c.log.Infow("segment archived", "segmentIndex", index, "path", path+archiveSuffix)
	return nil
}

// ensureDecompressed transparently restores path from its archived (.lz4)
// form before logfile.Load reads it, if path itself isn't already present.
// A segment that was never archived is left untouched.
func ensureDecompressed(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat segment").WithPath(path)
	}

	archived := path + archiveSuffix
	f, err := os.Open(archived)
	if err != nil {
		if os.IsNotExist(err) {
			// Neither form exists: a brand new segment, left for Load to create.
			return nil
		}
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open archived segment").WithPath(archived)
	}
	defer f.Close()

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, lz4.NewReader(f)); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeCompression, "failed to decompress archived segment").WithPath(archived)
	}

	if err := filesys.WriteFile(path, 0644, raw.Bytes()); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to restore archived segment").WithPath(path)
	}
	return os.Remove(archived)
}
