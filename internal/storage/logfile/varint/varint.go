// Package varint implements a self-describing variable-length integer
// encoding: the number of trailing zero bits in the first byte encodes how
// many bytes the whole value occupies (1..9), so length can be determined by
// reading just one byte before the rest of the buffer is available. This is
// the scheme the Field codec and the log frame header use for lengths that
// aren't fixed-width.
package varint

import "encoding/binary"

// MaxLen is the largest number of bytes a single encoded value can occupy.
const MaxLen = 9

// DecodedLen returns how many bytes (including the first byte itself) the
// value starting with firstByte occupies. A firstByte of zero means the
// 9-byte form: the length marker overflowed into the following byte, so the
// value is stored raw in the next 8 bytes.
func DecodedLen(firstByte byte) int {
	if firstByte == 0 {
		return MaxLen
	}
	return trailingZeros(firstByte) + 1
}

// Decode reads a single varint from the front of buf, returning the decoded
// value and the number of bytes consumed. buf must hold at least
// DecodedLen(buf[0]) bytes.
func Decode(buf []byte) (value uint64, consumed int) {
	length := DecodedLen(buf[0])

	if length == MaxLen {
		// The marker byte carries no payload bits; the value follows raw.
		return binary.LittleEndian.Uint64(buf[1:9]), MaxLen
	}

	var scratch [8]byte
	copy(scratch[:length], buf[:length])
	value = binary.LittleEndian.Uint64(scratch[:])
	value >>= uint(length)

	return value, length
}

// Encode appends the varint encoding of value to dst and returns the
// extended slice.
func Encode(dst []byte, value uint64) []byte {
	length := encodedLen(value)

	if length == MaxLen {
		var buf [9]byte
		buf[0] = 0
		binary.LittleEndian.PutUint64(buf[1:], value)
		return append(dst, buf[:]...)
	}

	shifted := (value << uint(length)) | marker(length)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], shifted)
	return append(dst, buf[:length]...)
}

// marker returns the length-encoding bit pattern for a value that fits in
// `length` bytes: bit (length-1) set, all lower bits clear.
func marker(length int) uint64 {
	return 1 << uint(length-1)
}

// encodedLen returns the minimal number of bytes (1..9) needed to hold value
// under the shifted + marker-bit encoding.
func encodedLen(value uint64) int {
	for length := 1; length < MaxLen; length++ {
		// length bytes hold (8*length - length) = length*7 usable bits,
		// since the low `length` bits of byte 0 are the marker.
		usableBits := uint(length * 7)
		if usableBits >= 64 || value < (uint64(1)<<usableBits) {
			return length
		}
	}
	return MaxLen
}

// trailingZeros returns the number of trailing zero bits in b, treating b as
// an 8-bit value. Defined for b != 0.
func trailingZeros(b byte) int {
	n := 0
	for b&1 == 0 {
		b >>= 1
		n++
	}
	return n
}
