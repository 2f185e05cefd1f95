// Package buffer implements the typed byte arena every other layer of the
// archive builds on: a growable byte region with width-aware primitive
// append/read and a running CRC32 over the bytes it has accumulated.
//
// TypedBuffer carries no type tags of its own; the caller (almost always a
// container's Append method) is responsible for reading back the same
// primitive width it wrote. This mirrors the original implementation's
// BasicBuffer, which is a flat byte vector with overloaded += operators
// rather than a self-describing structure.
package buffer

import (
	"hash/crc32"
	"math"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/internal/pool"
)

// TypedBuffer is a resizable little/big-endian byte region used to build one
// data container's data or stride bytes before sealing.
type TypedBuffer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// New creates a TypedBuffer backed by a pooled ByteBuffer using the given
// byte order. Call Release when the buffer is no longer needed so its
// backing array can be reused by a later container.
func New(engine endian.EndianEngine) *TypedBuffer {
	return &TypedBuffer{
		buf:    pool.GetContainerBuffer(),
		engine: engine,
	}
}

// Release returns the backing array to the shared pool. The TypedBuffer
// must not be used afterward.
func (b *TypedBuffer) Release() {
	pool.PutContainerBuffer(b.buf)
	b.buf = nil
}

// Bytes returns the bytes written so far. The slice is valid until the next
// mutating call.
func (b *TypedBuffer) Bytes() []byte { return b.buf.Bytes() }

// Len returns the number of bytes written so far.
func (b *TypedBuffer) Len() int { return b.buf.Len() }

// Reserve ensures the buffer can grow by n more bytes without reallocating.
func (b *TypedBuffer) Reserve(n int) { b.buf.Grow(n) }

// Clear empties the buffer but keeps its backing array for reuse.
func (b *TypedBuffer) Clear() { b.buf.Reset() }

// CRC32 computes the IEEE CRC32 checksum over all bytes currently held.
func (b *TypedBuffer) CRC32() uint32 { return crc32.ChecksumIEEE(b.buf.Bytes()) }

// Truncate shrinks the buffer to the first n bytes. Used by Seal when a
// container collapses to a single uniform value.
func (b *TypedBuffer) Truncate(n int) { b.buf.SetLength(n) }

func (b *TypedBuffer) grow(n int) []byte {
	start := b.buf.Len()
	b.buf.ExtendOrGrow(n)
	return b.buf.Bytes()[start : start+n]
}

// AppendU8 appends a single unsigned byte.
func (b *TypedBuffer) AppendU8(v uint8) { b.grow(1)[0] = v }

// AppendU16 appends an unsigned 16-bit value.
func (b *TypedBuffer) AppendU16(v uint16) { b.engine.PutUint16(b.grow(2), v) }

// AppendU32 appends an unsigned 32-bit value.
func (b *TypedBuffer) AppendU32(v uint32) { b.engine.PutUint32(b.grow(4), v) }

// AppendU64 appends an unsigned 64-bit value.
func (b *TypedBuffer) AppendU64(v uint64) { b.engine.PutUint64(b.grow(8), v) }

// AppendI8 appends a signed byte.
func (b *TypedBuffer) AppendI8(v int8) { b.grow(1)[0] = uint8(v) }

// AppendI16 appends a signed 16-bit value.
func (b *TypedBuffer) AppendI16(v int16) { b.engine.PutUint16(b.grow(2), uint16(v)) }

// AppendI32 appends a signed 32-bit value.
func (b *TypedBuffer) AppendI32(v int32) { b.engine.PutUint32(b.grow(4), uint32(v)) }

// AppendI64 appends a signed 64-bit value.
func (b *TypedBuffer) AppendI64(v int64) { b.engine.PutUint64(b.grow(8), uint64(v)) }

// AppendF32 appends an IEEE-754 single-precision float.
func (b *TypedBuffer) AppendF32(v float32) { b.engine.PutUint32(b.grow(4), math.Float32bits(v)) }

// AppendF64 appends an IEEE-754 double-precision float.
func (b *TypedBuffer) AppendF64(v float64) { b.engine.PutUint64(b.grow(8), math.Float64bits(v)) }

// AppendBytes appends a raw byte slice verbatim, used for character/string
// payloads and for copying already-encoded sub-streams (e.g. genotype
// bitstreams) into a container's data bytes.
func (b *TypedBuffer) AppendBytes(v []byte) { copy(b.grow(len(v)), v) }

// ReadU8 reads a single unsigned byte at offset.
func ReadU8(data []byte, offset int) uint8 { return data[offset] }

// ReadU16 reads an unsigned 16-bit value at offset.
func ReadU16(engine endian.EndianEngine, data []byte, offset int) uint16 {
	return engine.Uint16(data[offset : offset+2])
}

// ReadU32 reads an unsigned 32-bit value at offset.
func ReadU32(engine endian.EndianEngine, data []byte, offset int) uint32 {
	return engine.Uint32(data[offset : offset+4])
}

// ReadU64 reads an unsigned 64-bit value at offset.
func ReadU64(engine endian.EndianEngine, data []byte, offset int) uint64 {
	return engine.Uint64(data[offset : offset+8])
}

// ReadI8 reads a signed byte at offset.
func ReadI8(data []byte, offset int) int8 { return int8(data[offset]) }

// ReadI16 reads a signed 16-bit value at offset.
func ReadI16(engine endian.EndianEngine, data []byte, offset int) int16 {
	return int16(engine.Uint16(data[offset : offset+2]))
}

// ReadI32 reads a signed 32-bit value at offset.
func ReadI32(engine endian.EndianEngine, data []byte, offset int) int32 {
	return int32(engine.Uint32(data[offset : offset+4]))
}

// ReadI64 reads a signed 64-bit value at offset.
func ReadI64(engine endian.EndianEngine, data []byte, offset int) int64 {
	return int64(engine.Uint64(data[offset : offset+8]))
}

// ReadF32 reads an IEEE-754 single-precision float at offset.
func ReadF32(engine endian.EndianEngine, data []byte, offset int) float32 {
	return math.Float32frombits(engine.Uint32(data[offset : offset+4]))
}

// ReadF64 reads an IEEE-754 double-precision float at offset.
func ReadF64(engine endian.EndianEngine, data []byte, offset int) float64 {
	return math.Float64frombits(engine.Uint64(data[offset : offset+8]))
}

// CRC32 computes the IEEE CRC32 checksum of data, exposed standalone for the
// read path where the decompressed bytes don't live in a TypedBuffer.
func CRC32(data []byte) uint32 { return crc32.ChecksumIEEE(data) }
