package archive

import (
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/index"
	"github.com/arloliu/tachyon/variant"
)

// Header is the archive's write-once file header: format version, the
// quad-tree depth used by the Block Index, and the variant.Header contig /
// sample / INFO-FORMAT-FILTER vocabulary every block's keys reference.
type Header struct {
	Version      uint16
	IndexLevels  uint8
	VariantHdr   variant.Header
}

func putString(out []byte, engine endian.EndianEngine, s string) []byte {
	var tmp [4]byte
	engine.PutUint32(tmp[:], uint32(len(s))) //nolint:gosec
	out = append(out, tmp[:]...)

	return append(out, s...)
}

func readString(data []byte, engine endian.EndianEngine) (string, int, error) {
	if len(data) < 4 {
		return "", 0, errs.ErrTruncatedStream
	}
	l := int(engine.Uint32(data[0:4]))
	if len(data) < 4+l {
		return "", 0, errs.ErrTruncatedStream
	}

	return string(data[4 : 4+l]), 4 + l, nil
}

// Bytes serializes the header.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	var out []byte
	var tmp4 [4]byte
	var tmp2 [2]byte

	engine.PutUint16(tmp2[:], h.Version)
	out = append(out, tmp2[:]...)
	out = append(out, h.IndexLevels)

	engine.PutUint32(tmp4[:], uint32(len(h.VariantHdr.Contigs))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, c := range h.VariantHdr.Contigs {
		engine.PutUint32(tmp4[:], c.ID)
		out = append(out, tmp4[:]...)
		out = putString(out, engine, c.Name)
		var tmp8 [8]byte
		engine.PutUint64(tmp8[:], c.Length)
		out = append(out, tmp8[:]...)
		engine.PutUint32(tmp4[:], c.Blocks)
		out = append(out, tmp4[:]...)
	}

	engine.PutUint32(tmp4[:], uint32(len(h.VariantHdr.Samples))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, s := range h.VariantHdr.Samples {
		out = putString(out, engine, s)
	}

	engine.PutUint32(tmp4[:], uint32(len(h.VariantHdr.Entries))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, e := range h.VariantHdr.Entries {
		out = putString(out, engine, e.ID)
		engine.PutUint32(tmp4[:], uint32(e.IDX)) //nolint:gosec
		out = append(out, tmp4[:]...)
		out = append(out, byte(e.Category), byte(e.Type))
	}

	return out
}

// ParseHeader parses a Header, returning the number of bytes consumed.
func ParseHeader(data []byte, engine endian.EndianEngine) (Header, int, error) {
	if len(data) < 2+1+4 {
		return Header{}, 0, errs.ErrTruncatedStream
	}

	var h Header
	h.Version = engine.Uint16(data[0:2])
	h.IndexLevels = data[2]
	off := 3

	nContigs := int(engine.Uint32(data[off : off+4]))
	off += 4
	h.VariantHdr.Contigs = make([]variant.Contig, 0, nContigs)
	for i := 0; i < nContigs; i++ {
		if len(data) < off+4 {
			return Header{}, 0, errs.ErrTruncatedStream
		}
		id := engine.Uint32(data[off : off+4])
		off += 4
		name, n, err := readString(data[off:], engine)
		if err != nil {
			return Header{}, 0, err
		}
		off += n
		if len(data) < off+12 {
			return Header{}, 0, errs.ErrTruncatedStream
		}
		length := engine.Uint64(data[off : off+8])
		off += 8
		blocks := engine.Uint32(data[off : off+4])
		off += 4
		h.VariantHdr.Contigs = append(h.VariantHdr.Contigs, variant.Contig{ID: id, Name: name, Length: length, Blocks: blocks})
	}

	if len(data) < off+4 {
		return Header{}, 0, errs.ErrTruncatedStream
	}
	nSamples := int(engine.Uint32(data[off : off+4]))
	off += 4
	h.VariantHdr.Samples = make([]string, 0, nSamples)
	for i := 0; i < nSamples; i++ {
		s, n, err := readString(data[off:], engine)
		if err != nil {
			return Header{}, 0, err
		}
		off += n
		h.VariantHdr.Samples = append(h.VariantHdr.Samples, s)
	}

	if len(data) < off+4 {
		return Header{}, 0, errs.ErrTruncatedStream
	}
	nEntries := int(engine.Uint32(data[off : off+4]))
	off += 4
	h.VariantHdr.Entries = make([]variant.MapEntry, 0, nEntries)
	for i := 0; i < nEntries; i++ {
		id, n, err := readString(data[off:], engine)
		if err != nil {
			return Header{}, 0, err
		}
		off += n
		if len(data) < off+4+2 {
			return Header{}, 0, errs.ErrTruncatedStream
		}
		idx := int32(engine.Uint32(data[off : off+4])) //nolint:gosec
		off += 4
		category := format.FieldCategory(data[off])
		valueType := format.ValueType(data[off+1])
		off += 2
		h.VariantHdr.Entries = append(h.VariantHdr.Entries, variant.MapEntry{ID: id, IDX: idx, Category: category, Type: valueType})
	}

	return h, off, nil
}

// NewHeader builds a Header from a variant.Header, stamping the current
// format version and the Block Index depth it was built with.
func NewHeader(vh variant.Header, levels uint8) Header {
	if levels == 0 {
		levels = index.DefaultLevels
	}

	return Header{Version: FormatVersion, IndexLevels: levels, VariantHdr: vh}
}
