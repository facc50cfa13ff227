// Package field implements the scalar value type stored in every database
// row: a tagged union over seven variants, with a deterministic cross-type
// ordering, epsilon-tolerant decimal equality, a discriminant-tagged hash,
// and a standalone binary codec used wherever a Field needs to round-trip
// independent of a row (index keys, join keys, property tests).
package field

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/logfile/varint"
)

// Kind identifies which variant a Field holds. Kind's numeric value doubles
// as the on-disk type tag and defines the cross-type ordering: Bool < I32 <
// I64 < Decimal < Uuid < Bytes < String.
type Kind uint8

const (
	KindBool Kind = iota
	KindI32
	KindI64
	KindDecimal
	KindUuid
	KindBytes
	KindString
)

// DBEpsilon bounds the absolute difference under which two Decimal values
// are considered equal, and under which a Decimal is considered zero.
const DBEpsilon = 0.000001

// Field is a tagged union of scalar values. The zero Field is a Bool(false).
// Exactly one of the accessor methods is meaningful for a given Field,
// selected by Kind.
type Field struct {
	kind    Kind
	boolV   bool
	i32V    int32
	i64V    int64
	decV    float64
	uuidV   uuid.UUID
	bytesV  []byte
	stringV string
}

func (f Field) Kind() Kind { return f.kind }

func Bool(v bool) Field    { return Field{kind: KindBool, boolV: v} }
func I32(v int32) Field    { return Field{kind: KindI32, i32V: v} }
func I64(v int64) Field    { return Field{kind: KindI64, i64V: v} }
func Decimal(v float64) Field { return Field{kind: KindDecimal, decV: v} }
func Uuid(v uuid.UUID) Field  { return Field{kind: KindUuid, uuidV: v} }
func Bytes(v []byte) Field {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Field{kind: KindBytes, bytesV: cp}
}
func String(v string) Field { return Field{kind: KindString, stringV: v} }

// AsBool, AsI32, ... return the stored value and whether the Field actually
// holds that variant.
func (f Field) AsBool() (bool, bool)       { return f.boolV, f.kind == KindBool }
func (f Field) AsI32() (int32, bool)       { return f.i32V, f.kind == KindI32 }
func (f Field) AsI64() (int64, bool)       { return f.i64V, f.kind == KindI64 }
func (f Field) AsDecimal() (float64, bool) { return f.decV, f.kind == KindDecimal }
func (f Field) AsUuid() (uuid.UUID, bool)  { return f.uuidV, f.kind == KindUuid }
func (f Field) AsBytes() ([]byte, bool)    { return f.bytesV, f.kind == KindBytes }
func (f Field) AsString() (string, bool)   { return f.stringV, f.kind == KindString }

// Equal reports whether f and other compare equal. Decimal comparison is
// epsilon-tolerant, and NaN equals NaN (unlike IEEE 754 float comparison),
// so that Decimal fields behave as a total-equality key type.
func (f Field) Equal(other Field) bool {
	if f.kind != other.kind {
		return false
	}

	switch f.kind {
	case KindBool:
		return f.boolV == other.boolV
	case KindI32:
		return f.i32V == other.i32V
	case KindI64:
		return f.i64V == other.i64V
	case KindDecimal:
		if math.IsNaN(f.decV) && math.IsNaN(other.decV) {
			return true
		}
		return math.Abs(f.decV-other.decV) < DBEpsilon
	case KindUuid:
		return f.uuidV == other.uuidV
	case KindBytes:
		return bytes.Equal(f.bytesV, other.bytesV)
	case KindString:
		return f.stringV == other.stringV
	default:
		return false
	}
}

// Compare returns -1, 0 or 1 for f < other, f == other, f > other. Fields of
// different Kind compare by Kind's numeric ordering; the ordering itself is
// only required to be deterministic, not semantically meaningful.
func (f Field) Compare(other Field) int {
	if f.kind != other.kind {
		if f.kind < other.kind {
			return -1
		}
		return 1
	}

	switch f.kind {
	case KindBool:
		return compareBool(f.boolV, other.boolV)
	case KindI32:
		return compareOrdered(f.i32V, other.i32V)
	case KindI64:
		return compareOrdered(f.i64V, other.i64V)
	case KindDecimal:
		if f.Equal(other) {
			return 0
		}
		return compareOrdered(f.decV, other.decV)
	case KindUuid:
		return bytes.Compare(f.uuidV[:], other.uuidV[:])
	case KindBytes:
		return bytes.Compare(f.bytesV, other.bytesV)
	case KindString:
		switch {
		case f.stringV < other.stringV:
			return -1
		case f.stringV > other.stringV:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

type ordered interface{ ~int32 | ~int64 | ~float64 }

func compareOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Hash returns a discriminant-tagged 64-bit hash: the variant's Kind is
// mixed in first so values of different variants never collide solely by
// coincidence of their payload bytes.
func (f Field) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(f.kind)})

	switch f.kind {
	case KindBool:
		if f.boolV {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case KindI32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(f.i32V))
		h.Write(buf[:])
	case KindI64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(f.i64V))
		h.Write(buf[:])
	case KindDecimal:
		// Decimal Equal is epsilon-tolerant and so not transitive: any hash
		// derived from the payload would split some Equal pairs across a
		// bucket boundary. Every Decimal therefore hashes by its Kind alone,
		// which keeps Equal values hashing identically; callers tell them
		// apart with Equal.
	case KindUuid:
		h.Write(f.uuidV[:])
	case KindBytes:
		h.Write(f.bytesV)
	case KindString:
		h.Write([]byte(f.stringV))
	}

	return h.Sum64()
}

// String renders a human-readable form of the Field, used by debug dumps.
func (f Field) String() string {
	switch f.kind {
	case KindBool:
		return fmt.Sprintf("%v", f.boolV)
	case KindI32:
		return fmt.Sprintf("%d", f.i32V)
	case KindI64:
		return fmt.Sprintf("%d", f.i64V)
	case KindDecimal:
		return fmt.Sprintf("%g", f.decV)
	case KindUuid:
		return f.uuidV.String()
	case KindBytes:
		return fmt.Sprintf("0x%x", f.bytesV)
	case KindString:
		return f.stringV
	default:
		return "<invalid field>"
	}
}

// Encode appends the standalone Field codec encoding of f to dst:
// [tag:u8][payload], with String/Bytes payloads length-prefixed by the
// vint64-style varint from the logfile/varint package.
func Encode(dst []byte, f Field) []byte {
	dst = append(dst, byte(f.kind))

	switch f.kind {
	case KindBool:
		if f.boolV {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	case KindI32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(f.i32V))
		dst = append(dst, buf[:]...)
	case KindI64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(f.i64V))
		dst = append(dst, buf[:]...)
	case KindDecimal:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f.decV))
		dst = append(dst, buf[:]...)
	case KindUuid:
		dst = append(dst, f.uuidV[:]...)
	case KindBytes:
		dst = varint.Encode(dst, uint64(len(f.bytesV)))
		dst = append(dst, f.bytesV...)
	case KindString:
		dst = varint.Encode(dst, uint64(len(f.stringV)))
		dst = append(dst, f.stringV...)
	}

	return dst
}

// Decode reads a single Field from the front of buf, returning the decoded
// value and the number of bytes consumed.
func Decode(buf []byte) (Field, int, error) {
	if len(buf) < 1 {
		return Field{}, 0, fmt.Errorf("field: empty buffer")
	}

	kind := Kind(buf[0])
	rest := buf[1:]

	switch kind {
	case KindBool:
		if len(rest) < 1 {
			return Field{}, 0, fmt.Errorf("field: truncated bool payload")
		}
		return Bool(rest[0] != 0), 2, nil

	case KindI32:
		if len(rest) < 4 {
			return Field{}, 0, fmt.Errorf("field: truncated i32 payload")
		}
		v := int32(binary.LittleEndian.Uint32(rest[:4]))
		return I32(v), 5, nil

	case KindI64:
		if len(rest) < 8 {
			return Field{}, 0, fmt.Errorf("field: truncated i64 payload")
		}
		v := int64(binary.LittleEndian.Uint64(rest[:8]))
		return I64(v), 9, nil

	case KindDecimal:
		if len(rest) < 8 {
			return Field{}, 0, fmt.Errorf("field: truncated decimal payload")
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(rest[:8]))
		return Decimal(v), 9, nil

	case KindUuid:
		if len(rest) < 16 {
			return Field{}, 0, fmt.Errorf("field: truncated uuid payload")
		}
		var id uuid.UUID
		copy(id[:], rest[:16])
		return Uuid(id), 17, nil

	case KindBytes:
		if len(rest) < 1 {
			return Field{}, 0, fmt.Errorf("field: truncated bytes length")
		}
		length, lenConsumed := varint.Decode(rest)
		payloadStart := lenConsumed
		payloadEnd := payloadStart + int(length)
		if len(rest) < payloadEnd {
			return Field{}, 0, fmt.Errorf("field: truncated bytes payload")
		}
		return Bytes(rest[payloadStart:payloadEnd]), 1 + payloadEnd, nil

	case KindString:
		if len(rest) < 1 {
			return Field{}, 0, fmt.Errorf("field: truncated string length")
		}
		length, lenConsumed := varint.Decode(rest)
		payloadStart := lenConsumed
		payloadEnd := payloadStart + int(length)
		if len(rest) < payloadEnd {
			return Field{}, 0, fmt.Errorf("field: truncated string payload")
		}
		return String(string(rest[payloadStart:payloadEnd])), 1 + payloadEnd, nil

	default:
		return Field{}, 0, fmt.Errorf("field: unknown type tag %d", kind)
	}
}
