package logfile

import (
	"encoding/binary"
	"math"
)

func appendLE32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendLE64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func le32(raw []byte) uint32 { return binary.LittleEndian.Uint32(raw) }
func le64(raw []byte) uint64 { return binary.LittleEndian.Uint64(raw) }

func float64bits(v float64) uint64   { return math.Float64bits(v) }
func bitsToFloat64(b uint64) float64 { return math.Float64frombits(b) }
