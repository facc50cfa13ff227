package logfile

import (
	"fmt"

	"github.com/google/uuid"
)

// EntryKind discriminates the four shapes a LogEntry can take.
type EntryKind uint8

const (
	EntryDelete EntryKind = iota
	EntryUpdate
	EntryCommit
	EntryRollback
)

// LogEntry is a tagged union over (tx_id, payload), where payload is one of
// Update(row), Delete(row_id), Commit or Rollback. Every entry belongs to a
// single transaction; Commit/Rollback close it out.
//
// Convention: within a transaction's run of entries in a LogFile, the Commit
// (or Rollback) entry is always the last one written. This lets a reverse
// scan recognize a transaction's outcome before it sees any of that
// transaction's row mutations.
type LogEntry struct {
	TxID  uuid.UUID
	Kind  EntryKind
	RowID uuid.UUID   // valid for Delete and Update
	Row   EntryFields // valid for Update
}

func NewDeleteEntry(tx, rowID uuid.UUID) LogEntry {
	return LogEntry{TxID: tx, Kind: EntryDelete, RowID: rowID}
}

func NewUpdateEntry(tx, rowID uuid.UUID, row EntryFields) LogEntry {
	return LogEntry{TxID: tx, Kind: EntryUpdate, RowID: rowID, Row: row}
}

func NewCommitEntry(tx uuid.UUID) LogEntry {
	return LogEntry{TxID: tx, Kind: EntryCommit}
}

func NewRollbackEntry(tx uuid.UUID) LogEntry {
	return LogEntry{TxID: tx, Kind: EntryRollback}
}

// Encode appends the binary form of e to dst: [tx:16B][kind:u8][rest], where
// rest depends on Kind (see EntryKind constants).
func (e LogEntry) Encode(dst []byte) []byte {
	dst = append(dst, e.TxID[:]...)
	dst = append(dst, byte(e.Kind))

	switch e.Kind {
	case EntryDelete:
		dst = append(dst, e.RowID[:]...)
	case EntryUpdate:
		dst = append(dst, e.RowID[:]...)
		dst = append(dst, e.Row.Bytes()...)
	case EntryCommit, EntryRollback:
		// no payload
	}

	return dst
}

// DecodeLogEntry reads a single LogEntry from buf. buf must contain exactly
// one encoded entry (the caller is expected to have already split it out of
// the frame stream, as decodeFrames in logfile.go does).
func DecodeLogEntry(buf []byte) (LogEntry, error) {
	if len(buf) < 17 {
		return LogEntry{}, fmt.Errorf("logentry: buffer too short for header (%d bytes)", len(buf))
	}

	var tx uuid.UUID
	copy(tx[:], buf[:16])
	kind := EntryKind(buf[16])
	rest := buf[17:]

	switch kind {
	case EntryDelete:
		if len(rest) < 16 {
			return LogEntry{}, fmt.Errorf("logentry: truncated delete payload")
		}
		var rowID uuid.UUID
		copy(rowID[:], rest[:16])
		return NewDeleteEntry(tx, rowID), nil

	case EntryUpdate:
		if len(rest) < 16 {
			return LogEntry{}, fmt.Errorf("logentry: truncated update row id")
		}
		var rowID uuid.UUID
		copy(rowID[:], rest[:16])
		row := WrapEntryFields(rest[16:])
		return NewUpdateEntry(tx, rowID, row), nil

	case EntryCommit:
		return NewCommitEntry(tx), nil

	case EntryRollback:
		return NewRollbackEntry(tx), nil

	default:
		return LogEntry{}, fmt.Errorf("logentry: unknown entry kind %d", kind)
	}
}
