package block

import (
	"github.com/arloliu/tachyon/endian"
)

// Controller carries the per-block flags recorded in the footer, notably
// whether this block's genotype stream was written under a sample
// permutation at all (a block with zero diploid GT records has no
// permutation to apply).
type Controller uint16

const controllerHasGTPermuted = 1 << 0

func (c Controller) HasGTPermuted() bool { return c&controllerHasGTPermuted != 0 }
func (c *Controller) SetHasGTPermuted(v bool) {
	if v {
		*c |= controllerHasGTPermuted
	} else {
		*c &^= controllerHasGTPermuted
	}
}

// StreamOffset locates one serialized container (or meta stream) relative
// to the start of the block's container region.
type StreamOffset struct {
	Key    int32 // map IDX for INFO/FORMAT streams; unused (-1) for fixed streams
	Offset uint32
	Length uint32
}

// PatternEntry is one row of a category's pattern bit-matrix, paired with
// the global key ordering used to interpret its bits.
type PatternEntry struct {
	Keys []int32
	Bits []byte
}

// Footer is the Block Footer: written after all container payloads,
// holding every offset and pattern table a reader needs to locate and
// decode a subset of the block's columns without scanning.
type Footer struct {
	Controller Controller

	HotOffset, HotLength   uint32
	ColdOffset, ColdLength uint32

	PermutationOffset, PermutationLength uint32
	GTRLEOffset, GTRLELength             uint32
	GTBCFOffset, GTBCFLength             uint32
	GTSupportOffset, GTSupportLength     uint32
	GTStrideOffset, GTStrideLength       uint32

	InfoStreams   []StreamOffset
	FormatStreams []StreamOffset

	InfoPatterns   []PatternEntry
	FormatPatterns []PatternEntry
	FilterPatterns []PatternEntry

	VariantCount uint32
	EndOffset    uint64 // end of block relative to its first byte (total length incl. footer and BlockEOF), not a file offset
}

// Bytes serializes the footer. Layout: controller(2), fixed-stream offset
// table, counts, then each stream table and pattern table length-prefixed.
func (f *Footer) Bytes(engine endian.EndianEngine) []byte {
	var out []byte
	var u32 [4]byte
	var u16 [2]byte

	putU16 := func(v uint16) { engine.PutUint16(u16[:], v); out = append(out, u16[:]...) }
	putU32 := func(v uint32) { engine.PutUint32(u32[:], v); out = append(out, u32[:]...) }

	putU16(uint16(f.Controller))

	for _, pair := range [][2]uint32{
		{f.HotOffset, f.HotLength},
		{f.ColdOffset, f.ColdLength},
		{f.PermutationOffset, f.PermutationLength},
		{f.GTRLEOffset, f.GTRLELength},
		{f.GTBCFOffset, f.GTBCFLength},
		{f.GTSupportOffset, f.GTSupportLength},
		{f.GTStrideOffset, f.GTStrideLength},
	} {
		putU32(pair[0])
		putU32(pair[1])
	}

	putU32(f.VariantCount)

	putU32(uint32(len(f.InfoStreams)))
	for _, s := range f.InfoStreams {
		putU32(uint32(s.Key)) //nolint:gosec
		putU32(s.Offset)
		putU32(s.Length)
	}

	putU32(uint32(len(f.FormatStreams)))
	for _, s := range f.FormatStreams {
		putU32(uint32(s.Key)) //nolint:gosec
		putU32(s.Offset)
		putU32(s.Length)
	}

	writePatterns := func(entries []PatternEntry) {
		putU32(uint32(len(entries))) //nolint:gosec
		for _, e := range entries {
			putU32(uint32(len(e.Keys))) //nolint:gosec
			for _, k := range e.Keys {
				putU32(uint32(k)) //nolint:gosec
			}
			putU32(uint32(len(e.Bits))) //nolint:gosec
			out = append(out, e.Bits...)
		}
	}
	writePatterns(f.InfoPatterns)
	writePatterns(f.FormatPatterns)
	writePatterns(f.FilterPatterns)

	var u64 [8]byte
	engine.PutUint64(u64[:], f.EndOffset)
	out = append(out, u64[:]...)

	return out
}
