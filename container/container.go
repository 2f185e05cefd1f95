// Package container implements the Data Container: the columnar unit that
// holds one typed field's values across every variant in a block. A
// container is built incrementally via Append/AppendStride, then Seal
// rewrites it to its smallest on-disk representation and the codec manager
// compresses (and optionally the keychain encrypts) the sealed bytes.
package container

import (
	"math"

	"github.com/arloliu/tachyon/buffer"
	"github.com/arloliu/tachyon/compress"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/internal/hash"
)

const (
	sentinelMissingI32 = int32(-2147483648) // 0x80000000
	sentinelEOVI32     = int32(-2147483647) // 0x80000001

	sentinelMissingI8  = int8(-128) // 0x80
	sentinelEOVI8      = int8(-127) // 0x81
	sentinelMissingI16 = int16(-32768)
	sentinelEOVI16     = int16(-32767)
	sentinelMissingI64 = int64(math.MinInt64)
	sentinelEOVI64     = int64(math.MinInt64 + 1)
)

// Container is one typed column: a header plus its accumulated data and
// (optional) stride byte streams.
type Container struct {
	Header Header
	data   *buffer.TypedBuffer
	stride *buffer.TypedBuffer

	engine endian.EndianEngine
	count  int // number of logical entries appended

	strides     []int32 // per-entry stride, recorded only if heterogeneous
	firstStride int32
	sawStride   bool
	mixed       bool

	sealed bool
}

// New creates an empty Container declared to hold values of primitive type p.
func New(engine endian.EndianEngine, p format.PrimitiveType) *Container {
	var ctrl Controller
	ctrl.SetPrimitiveType(p)
	ctrl.SetSigned(p.Signed())

	return &Container{
		Header: Header{Controller: ctrl, Stride: 1},
		data:   buffer.New(engine),
		stride: buffer.New(engine),
		engine: engine,
	}
}

// Release returns the container's backing buffers to the pool. Must not be
// called before the sealed bytes have been consumed by the codec manager.
func (c *Container) Release() {
	c.data.Release()
	c.stride.Release()
}

// Count returns the number of logical entries appended so far.
func (c *Container) Count() int { return c.count }

func (c *Container) checkWidth(width int) error {
	if c.sealed {
		return errs.ErrContainerSealed
	}
	declared := c.Header.Controller.PrimitiveType().Width()
	if declared != width {
		return errs.ErrStrideMismatch
	}

	return nil
}

// AppendU8 appends a single unsigned byte value.
func (c *Container) AppendU8(v uint8) error {
	if err := c.checkWidth(1); err != nil {
		return err
	}
	c.data.AppendU8(v)
	c.count++

	return nil
}

// AppendU16 appends an unsigned 16-bit value.
func (c *Container) AppendU16(v uint16) error {
	if err := c.checkWidth(2); err != nil {
		return err
	}
	c.data.AppendU16(v)
	c.count++

	return nil
}

// AppendU32 appends an unsigned 32-bit value.
func (c *Container) AppendU32(v uint32) error {
	if err := c.checkWidth(4); err != nil {
		return err
	}
	c.data.AppendU32(v)
	c.count++

	return nil
}

// AppendU64 appends an unsigned 64-bit value.
func (c *Container) AppendU64(v uint64) error {
	if err := c.checkWidth(8); err != nil {
		return err
	}
	c.data.AppendU64(v)
	c.count++

	return nil
}

// AppendI32 appends a signed 32-bit value. This is the primary entry point
// for INFO/FORMAT integer fields, which arrive from the BCF-style input as
// 32-bit values and are down-cast during Seal.
func (c *Container) AppendI32(v int32) error {
	if err := c.checkWidth(4); err != nil {
		return err
	}
	c.data.AppendI32(v)
	c.count++

	return nil
}

// AppendI8 appends a signed byte value.
func (c *Container) AppendI8(v int8) error {
	if err := c.checkWidth(1); err != nil {
		return err
	}
	c.data.AppendI8(v)
	c.count++

	return nil
}

// AppendI16 appends a signed 16-bit value.
func (c *Container) AppendI16(v int16) error {
	if err := c.checkWidth(2); err != nil {
		return err
	}
	c.data.AppendI16(v)
	c.count++

	return nil
}

// AppendI64 appends a signed 64-bit value.
func (c *Container) AppendI64(v int64) error {
	if err := c.checkWidth(8); err != nil {
		return err
	}
	c.data.AppendI64(v)
	c.count++

	return nil
}

// AppendF32 appends a 32-bit float value.
func (c *Container) AppendF32(v float32) error {
	if err := c.checkWidth(4); err != nil {
		return err
	}
	c.data.AppendF32(v)
	c.count++

	return nil
}

// AppendF64 appends a 64-bit float value.
func (c *Container) AppendF64(v float64) error {
	if err := c.checkWidth(8); err != nil {
		return err
	}
	c.data.AppendF64(v)
	c.count++

	return nil
}

// AppendBytes appends raw bytes verbatim (Char/Struct containers, and
// already-encoded sub-streams such as genotype bitstreams).
func (c *Container) AppendBytes(v []byte) error {
	if c.sealed {
		return errs.ErrContainerSealed
	}
	c.data.AppendBytes(v)
	c.count++

	return nil
}

// AppendStride records that the most recently appended logical entry
// occupies k consecutive primitive values. Must be called once per entry,
// in the same order entries were appended.
func (c *Container) AppendStride(k int32) error {
	if c.sealed {
		return errs.ErrContainerSealed
	}

	if !c.sawStride {
		c.firstStride = k
		c.sawStride = true
	} else if k != c.firstStride {
		c.mixed = true
	}
	c.strides = append(c.strides, k)

	return nil
}

// Seal finalizes the container: integer down-casting (signed 32-bit,
// non-mixed-struct only), uniformity detection, and CRC32 computation. It
// must be called exactly once, before compression.
func (c *Container) Seal() error {
	if c.sealed {
		return errs.ErrContainerSealed
	}

	if c.sawStride {
		c.Header.Controller.SetMixedStride(c.mixed)
		if c.mixed {
			for _, s := range c.strides {
				c.stride.AppendI32(s)
			}
			c.Header.Stride = -1
		} else {
			c.Header.Stride = int16(c.firstStride) //nolint:gosec
		}
	}

	if c.count == 0 {
		c.Header.Controller.SetPrimitiveType(format.Bool)
		c.Header.Controller.SetUniform(true)
		c.Header.Controller.SetEncoderID(format.EncoderNone)
		c.sealed = true

		return nil
	}

	pt := c.Header.Controller.PrimitiveType()
	if pt == format.I32 && !c.Header.Controller.MixedStride() {
		c.downcastI32()
	}

	c.detectUniform()

	c.Header.CRC = buffer.CRC32(c.data.Bytes())
	if c.stride.Len() > 0 {
		// stride CRC is folded into the same header field family via the
		// stride sub-header, computed by the caller when it serializes.
		_ = c.stride.CRC32()
	}

	c.Header.ULength = uint32(c.data.Len()) //nolint:gosec
	c.sealed = true

	return nil
}

// downcastI32 scans the container's signed 32-bit values and rewrites the
// data buffer at the smallest width that covers the observed range. If
// every value is non-negative and no sentinel is present, it downcasts to
// the smallest unsigned width that covers the max value; otherwise it
// downcasts to the smallest signed width, leaving headroom for the two
// remapped sentinels.
func (c *Container) downcastI32() {
	n := c.data.Len() / 4
	if n == 0 {
		return
	}

	values := make([]int32, n)
	for i := 0; i < n; i++ {
		values[i] = buffer.ReadI32(c.engine, c.data.Bytes(), i*4)
	}

	minV, maxV := int32(math.MaxInt32), int32(math.MinInt32)
	hasSentinel := false
	for _, v := range values {
		switch v {
		case sentinelMissingI32, sentinelEOVI32:
			hasSentinel = true

			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV > maxV {
		// every value was a sentinel
		minV, maxV = 0, 0
	}

	if !hasSentinel && minV >= 0 {
		c.downcastUnsigned(values, maxV)

		return
	}

	width := chooseSignedWidth(minV, maxV)

	fresh := buffer.New(c.engine)
	for _, v := range values {
		switch {
		case v == sentinelMissingI32:
			writeSignedSentinel(fresh, width, true)
		case v == sentinelEOVI32:
			writeSignedSentinel(fresh, width, false)
		default:
			writeSigned(fresh, width, v)
		}
	}

	c.data.Release()
	c.data = fresh
	c.Header.Controller.SetPrimitiveType(widthToSignedType(width))
	c.Header.Controller.SetSigned(true)
}

// downcastUnsigned rewrites the data buffer at the smallest unsigned width
// in {1,2,4,8} bytes that covers [0, maxV]. Called only when every value is
// non-negative and no sentinel is present.
func (c *Container) downcastUnsigned(values []int32, maxV int32) {
	width := chooseUnsignedWidth(maxV)

	fresh := buffer.New(c.engine)
	for _, v := range values {
		writeUnsigned(fresh, width, uint32(v)) //nolint:gosec
	}

	c.data.Release()
	c.data = fresh
	c.Header.Controller.SetPrimitiveType(widthToUnsignedType(width))
	c.Header.Controller.SetSigned(false)
}

func chooseUnsignedWidth(maxV int32) int {
	for _, w := range [...]int{1, 2, 4, 8} {
		if uint64(maxV) <= unsignedRangeForWidth(w) {
			return w
		}
	}

	return 8
}

func unsignedRangeForWidth(w int) uint64 {
	switch w {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func writeUnsigned(b *buffer.TypedBuffer, width int, v uint32) {
	switch width {
	case 1:
		b.AppendU8(uint8(v))
	case 2:
		b.AppendU16(uint16(v))
	case 4:
		b.AppendU32(v)
	default:
		b.AppendU64(uint64(v))
	}
}

func widthToUnsignedType(w int) format.PrimitiveType {
	switch w {
	case 1:
		return format.U8
	case 2:
		return format.U16
	case 4:
		return format.U32
	default:
		return format.U64
	}
}

func chooseSignedWidth(minV, maxV int32) int {
	// Leave headroom for the two remapped sentinels at the chosen width.
	for _, w := range [...]int{1, 2, 4, 8} {
		lo, hi := signedRangeForWidth(w)
		if int64(minV) >= lo && int64(maxV) <= hi {
			return w
		}
	}

	return 8
}

func signedRangeForWidth(w int) (int64, int64) {
	switch w {
	case 1:
		return -126, 125 // reserve -128/-127 for sentinels
	case 2:
		return -32766, 32765
	case 4:
		return -2147483646, 2147483645
	default:
		return math.MinInt64 + 2, math.MaxInt64
	}
}

func writeSigned(b *buffer.TypedBuffer, width int, v int32) {
	switch width {
	case 1:
		b.AppendI8(int8(v))
	case 2:
		b.AppendI16(int16(v))
	case 4:
		b.AppendI32(v)
	default:
		b.AppendI64(int64(v))
	}
}

func writeSignedSentinel(b *buffer.TypedBuffer, width int, missing bool) {
	switch width {
	case 1:
		if missing {
			b.AppendI8(sentinelMissingI8)
		} else {
			b.AppendI8(sentinelEOVI8)
		}
	case 2:
		if missing {
			b.AppendI16(sentinelMissingI16)
		} else {
			b.AppendI16(sentinelEOVI16)
		}
	case 4:
		if missing {
			b.AppendI32(sentinelMissingI32)
		} else {
			b.AppendI32(sentinelEOVI32)
		}
	default:
		if missing {
			b.AppendI64(sentinelMissingI64)
		} else {
			b.AppendI64(sentinelEOVI64)
		}
	}
}

func widthToSignedType(w int) format.PrimitiveType {
	switch w {
	case 1:
		return format.I8
	case 2:
		return format.I16
	case 4:
		return format.I32
	default:
		return format.I64
	}
}

// detectUniform hashes every stride*width window of the data buffer; if all
// windows are identical the container collapses to a single stored window.
func (c *Container) detectUniform() {
	width := c.Header.Controller.PrimitiveType().Width()
	if width <= 0 {
		return
	}

	stride := int(c.Header.Stride)
	if stride <= 0 {
		stride = 1
	}
	window := stride * width
	if window <= 0 {
		return
	}

	data := c.data.Bytes()
	if len(data) == 0 || len(data)%window != 0 {
		return
	}

	n := len(data) / window
	if n <= 1 {
		if n == 1 {
			c.Header.Controller.SetUniform(true)
		}

		return
	}

	words := make([]uint64, (window+7)/8)
	firstHash := windowHash(data[0:window], words)
	for i := 1; i < n; i++ {
		h := windowHash(data[i*window:(i+1)*window], words)
		if h != firstHash {
			return
		}
	}

	c.Header.Controller.SetUniform(true)
	c.data.Truncate(window)
}

func windowHash(window []byte, scratch []uint64) uint64 {
	for i := range scratch {
		scratch[i] = 0
	}
	for i, b := range window {
		scratch[i/8] |= uint64(b) << (8 * uint(i%8))
	}

	return hash.Uint64s(scratch)
}

// ComputeDiskSize returns the number of bytes Compress will produce for the
// given compressed data and stride lengths, without allocating the payload.
func (c *Container) ComputeDiskSize(compressedDataLen, compressedStrideLen int) int {
	size := HeaderSize + len(c.Header.Extra) + compressedDataLen
	if c.Header.Controller.MixedStride() {
		size += StrideHeaderSize + compressedStrideLen
	}

	return size
}

// Compress runs codec over the sealed data (and stride, if mixed-stride)
// bytes and returns the fully serialized container: header ∥ stride_header?
// ∥ compressed_data ∥ compressed_stride?.
func (c *Container) Compress(codec compress.Codec, compressionType format.CompressionType) ([]byte, error) {
	if !c.sealed {
		return nil, errs.ErrContainerNotSealed
	}

	compressedData, err := codec.Compress(c.data.Bytes())
	if err != nil {
		return nil, err
	}
	c.Header.Controller.SetEncoderID(compressionType.ToEncoderID())
	c.Header.CLength = uint32(len(compressedData)) //nolint:gosec

	out := make([]byte, 0, c.ComputeDiskSize(len(compressedData), 0))

	var strideHeader StrideHeader
	var compressedStride []byte
	if c.Header.Controller.MixedStride() {
		compressedStride, err = codec.Compress(c.stride.Bytes())
		if err != nil {
			return nil, err
		}
		strideHeader = StrideHeader{
			Controller: c.Header.Controller,
			CLength:    uint32(len(compressedStride)), //nolint:gosec
			ULength:    uint32(c.stride.Len()),         //nolint:gosec
			CRC:        c.stride.CRC32(),
		}
	}

	out = append(out, c.Header.Bytes(c.engine)...)
	if c.Header.Controller.MixedStride() {
		out = append(out, strideHeader.Bytes(c.engine)...)
	}
	out = append(out, compressedData...)
	out = append(out, compressedStride...)

	return out, nil
}
