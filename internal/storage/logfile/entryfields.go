package logfile

import (
	"fmt"

	"github.com/iamNilotpal/pyrite/internal/storage/field"
)

// EntryFields is the packed binary payload of one row: a length-prefixed
// type-tag array followed by a packed value region.
//
// Layout: [N:u8] [tag_0..tag_{N-1}:u8 each] [value_0 value_1 ... value_{N-1}]
// Values: Bool=1B, I32=4B LE, I64=8B LE, Decimal=8B LE, Uuid=16B LE,
// String/Bytes=[len:u8][bytes] - a single-byte length, capping strings and
// byte values at 255 bytes. This matches the source's wire format exactly;
// widening to a varint-prefixed length (as the standalone field.Encode codec
// does) is left as a documented future migration, not the default here.
//
// The backing buf is never mutated after construction - a Go slice already
// gives EntryFields cheap, reference-counted-like sharing, since slicing buf
// keeps its backing array alive without copying.
type EntryFields struct {
	buf []byte
}

// maxPackedLen is the largest encodable length for a single String/Bytes
// value under the single-byte length prefix.
const maxPackedLen = 255

// NewEntryFields packs fields into a fresh EntryFields buffer. It errors if
// any String or Bytes value exceeds maxPackedLen bytes.
func NewEntryFields(fields []field.Field) (EntryFields, error) {
	if len(fields) > 255 {
		return EntryFields{}, fmt.Errorf("entryfields: too many columns (%d > 255)", len(fields))
	}

	buf := make([]byte, 0, 1+len(fields)+estimateValueBytes(fields))
	buf = append(buf, byte(len(fields)))
	for _, f := range fields {
		buf = append(buf, byte(f.Kind()))
	}

	for _, f := range fields {
		var err error
		buf, err = appendPackedValue(buf, f)
		if err != nil {
			return EntryFields{}, err
		}
	}

	return EntryFields{buf: buf}, nil
}

func estimateValueBytes(fields []field.Field) int {
	n := 0
	for _, f := range fields {
		switch f.Kind() {
		case field.KindBool:
			n += 1
		case field.KindI32:
			n += 4
		case field.KindI64, field.KindDecimal:
			n += 8
		case field.KindUuid:
			n += 16
		case field.KindBytes:
			v, _ := f.AsBytes()
			n += 1 + len(v)
		case field.KindString:
			v, _ := f.AsString()
			n += 1 + len(v)
		}
	}
	return n
}

func appendPackedValue(buf []byte, f field.Field) ([]byte, error) {
	switch f.Kind() {
	case field.KindBool:
		v, _ := f.AsBool()
		if v {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case field.KindI32:
		v, _ := f.AsI32()
		return appendLE32(buf, uint32(v)), nil

	case field.KindI64:
		v, _ := f.AsI64()
		return appendLE64(buf, uint64(v)), nil

	case field.KindDecimal:
		v, _ := f.AsDecimal()
		return appendLE64(buf, float64bits(v)), nil

	case field.KindUuid:
		v, _ := f.AsUuid()
		return append(buf, v[:]...), nil

	case field.KindBytes:
		v, _ := f.AsBytes()
		if len(v) > maxPackedLen {
			return nil, fmt.Errorf("entryfields: bytes value of %d bytes exceeds 255-byte limit", len(v))
		}
		buf = append(buf, byte(len(v)))
		return append(buf, v...), nil

	case field.KindString:
		v, _ := f.AsString()
		if len(v) > maxPackedLen {
			return nil, fmt.Errorf("entryfields: string value of %d bytes exceeds 255-byte limit", len(v))
		}
		buf = append(buf, byte(len(v)))
		return append(buf, v...), nil

	default:
		return nil, fmt.Errorf("entryfields: unknown field kind %d", f.Kind())
	}
}

// WrapEntryFields builds an EntryFields view over an already-encoded buffer,
// e.g. a slice of a loaded segment's bytes. The caller attests buf is a
// well-formed EntryFields encoding.
func WrapEntryFields(buf []byte) EntryFields {
	return EntryFields{buf: buf}
}

// Bytes returns the packed wire representation.
func (ef EntryFields) Bytes() []byte { return ef.buf }

// Len returns the number of columns, an O(1) operation since the count is
// the buffer's first byte.
func (ef EntryFields) Len() int {
	if len(ef.buf) == 0 {
		return 0
	}
	return int(ef.buf[0])
}

// Column decodes and returns the field at position i. This is an O(i) scan
// of the value region: earlier variable-length columns must be walked to
// find the byte offset of column i.
func (ef EntryFields) Column(i int) (field.Field, error) {
	n := ef.Len()
	if i < 0 || i >= n {
		return field.Field{}, fmt.Errorf("entryfields: column index %d out of range [0,%d)", i, n)
	}

	tags := ef.buf[1 : 1+n]
	offset := 1 + n

	for col := 0; col < n; col++ {
		kind := field.Kind(tags[col])
		width, isVar := fixedWidth(kind)

		if !isVar {
			if col == i {
				return decodeFixed(kind, ef.buf[offset:offset+width])
			}
			offset += width
			continue
		}

		if offset >= len(ef.buf) {
			return field.Field{}, fmt.Errorf("entryfields: truncated buffer at column %d", col)
		}
		length := int(ef.buf[offset])
		valueStart := offset + 1
		valueEnd := valueStart + length

		if col == i {
			return decodeVariable(kind, ef.buf[valueStart:valueEnd])
		}
		offset = valueEnd
	}

	return field.Field{}, fmt.Errorf("entryfields: column %d not found", i)
}

// All decodes every column into a []field.Field, in order.
func (ef EntryFields) All() ([]field.Field, error) {
	n := ef.Len()
	out := make([]field.Field, n)
	for i := 0; i < n; i++ {
		f, err := ef.Column(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Combine merges this row's columns with other's, producing a new
// EntryFields whose columns are this row's columns followed by other's.
// Used by the join operators (HashMatch, NestedLoop) to build a combined
// output row from two matched input rows.
func (ef EntryFields) Combine(other EntryFields) (EntryFields, error) {
	a, err := ef.All()
	if err != nil {
		return EntryFields{}, err
	}
	b, err := other.All()
	if err != nil {
		return EntryFields{}, err
	}
	return NewEntryFields(append(append([]field.Field{}, a...), b...))
}

func fixedWidth(kind field.Kind) (width int, isVariable bool) {
	switch kind {
	case field.KindBool:
		return 1, false
	case field.KindI32:
		return 4, false
	case field.KindI64, field.KindDecimal:
		return 8, false
	case field.KindUuid:
		return 16, false
	default:
		return 0, true
	}
}

func decodeFixed(kind field.Kind, raw []byte) (field.Field, error) {
	switch kind {
	case field.KindBool:
		return field.Bool(raw[0] != 0), nil
	case field.KindI32:
		return field.I32(int32(le32(raw))), nil
	case field.KindI64:
		return field.I64(int64(le64(raw))), nil
	case field.KindDecimal:
		return field.Decimal(bitsToFloat64(le64(raw))), nil
	case field.KindUuid:
		var id [16]byte
		copy(id[:], raw)
		return field.Uuid(id), nil
	default:
		return field.Field{}, fmt.Errorf("entryfields: not a fixed-width kind %d", kind)
	}
}

func decodeVariable(kind field.Kind, raw []byte) (field.Field, error) {
	switch kind {
	case field.KindBytes:
		return field.Bytes(raw), nil
	case field.KindString:
		return field.String(string(raw)), nil
	default:
		return field.Field{}, fmt.Errorf("entryfields: not a variable-width kind %d", kind)
	}
}
