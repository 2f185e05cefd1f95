package index

import (
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
)

// ContigLengths returns each registered contig's id and declared length, in
// registration order, the minimum state Bytes needs to rebuild the
// quad-trees: every other derived structure (bins, linear index, meta
// index) is reconstructed deterministically by replaying AddBlock for each
// Linear entry.
func (b *BlockIndex) ContigLengths() []struct {
	ContigID uint32
	Length   uint64
} {
	out := make([]struct {
		ContigID uint32
		Length   uint64
	}, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, struct {
			ContigID uint32
			Length   uint64
		}{ContigID: id, Length: b.contigs[id].Length})
	}

	return out
}

// Bytes serializes the index: levels, contig registrations, then every
// Linear Index Entry in insertion order. The quad-tree bins and meta index
// are not stored; Load rebuilds them by replaying AddBlock.
func (b *BlockIndex) Bytes(engine endian.EndianEngine) []byte {
	var out []byte
	var tmp4 [4]byte
	var tmp8 [8]byte

	out = append(out, b.Levels)

	contigs := b.ContigLengths()
	engine.PutUint32(tmp4[:], uint32(len(contigs))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, c := range contigs {
		engine.PutUint32(tmp4[:], c.ContigID)
		out = append(out, tmp4[:]...)
		engine.PutUint64(tmp8[:], c.Length)
		out = append(out, tmp8[:]...)
	}

	entries := b.Linear.Entries()
	engine.PutUint32(tmp4[:], uint32(len(entries))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, e := range entries {
		out = appendEntry(out, engine, e)
	}

	return out
}

func appendEntry(out []byte, engine endian.EndianEngine, e Entry) []byte {
	var tmp4 [4]byte
	var tmp8 [8]byte

	putU32 := func(v uint32) { engine.PutUint32(tmp4[:], v); out = append(out, tmp4[:]...) }
	putU64 := func(v uint64) { engine.PutUint64(tmp8[:], v); out = append(out, tmp8[:]...) }

	putU32(e.BlockID)
	putU32(e.ContigID)
	putU32(e.VariantCount)
	putU64(e.OffsetBegin)
	putU64(e.OffsetEnd)
	putU64(e.PositionMin)
	putU64(e.PositionMax)
	putU64(e.BinMin)
	putU64(e.BinMax)

	return out
}

func readEntry(data []byte, engine endian.EndianEngine) (Entry, int, error) {
	const size = 4 + 4 + 4 + 8*6
	if len(data) < size {
		return Entry{}, 0, errs.ErrTruncatedStream
	}

	var e Entry
	off := 0
	e.BlockID = engine.Uint32(data[off : off+4])
	off += 4
	e.ContigID = engine.Uint32(data[off : off+4])
	off += 4
	e.VariantCount = engine.Uint32(data[off : off+4])
	off += 4
	e.OffsetBegin = engine.Uint64(data[off : off+8])
	off += 8
	e.OffsetEnd = engine.Uint64(data[off : off+8])
	off += 8
	e.PositionMin = engine.Uint64(data[off : off+8])
	off += 8
	e.PositionMax = engine.Uint64(data[off : off+8])
	off += 8
	e.BinMin = engine.Uint64(data[off : off+8])
	off += 8
	e.BinMax = engine.Uint64(data[off : off+8])
	off += 8

	return e, off, nil
}

// Load parses an index previously serialized with Bytes and rebuilds the
// full BlockIndex (quad-trees and meta index included) by replaying
// RegisterContig and AddBlock.
func Load(data []byte, engine endian.EndianEngine) (*BlockIndex, error) {
	if len(data) < 1+4 {
		return nil, errs.ErrTruncatedStream
	}

	levels := data[0]
	off := 1

	bi := NewBlockIndex(levels)

	nContigs := int(engine.Uint32(data[off : off+4]))
	off += 4
	for i := 0; i < nContigs; i++ {
		if len(data) < off+12 {
			return nil, errs.ErrTruncatedStream
		}
		id := engine.Uint32(data[off : off+4])
		off += 4
		length := engine.Uint64(data[off : off+8])
		off += 8
		bi.RegisterContig(id, length)
	}

	if len(data) < off+4 {
		return nil, errs.ErrTruncatedStream
	}
	nEntries := int(engine.Uint32(data[off : off+4]))
	off += 4
	for i := 0; i < nEntries; i++ {
		e, n, err := readEntry(data[off:], engine)
		if err != nil {
			return nil, err
		}
		off += n
		if err := bi.AddBlock(e); err != nil {
			return nil, err
		}
	}

	return bi, nil
}
