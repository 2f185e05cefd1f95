package archive

import (
	"crypto/sha512"
	"io"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/index"
	"github.com/arloliu/tachyon/variant"
)

// Writer assembles an archive file onto an io.Writer: magic, header, a
// sequence of already-serialized blocks (see block.Block.Flush), the Block
// Index, and the Digests Section, finishing with the fixed-size trailer.
// Blocks must be written in increasing block id order within each contig,
// and all blocks for a contig must be contiguous, matching the archive's
// append-only write model.
type Writer struct {
	w      io.Writer
	engine endian.EndianEngine

	header      Header
	headerBytes []byte

	bi *index.BlockIndex

	offset       uint64
	blockDigests []blockDigest
}

// NewWriter writes the magic and header immediately and returns a Writer
// ready to accept blocks via WriteBlock.
func NewWriter(w io.Writer, engine endian.EndianEngine, vh variant.Header, levels uint8) (*Writer, error) {
	header := NewHeader(vh, levels)
	headerBytes := header.Bytes(engine)

	bi := index.NewBlockIndex(header.IndexLevels)
	for _, c := range vh.Contigs {
		bi.RegisterContig(c.ID, c.Length)
	}

	wtr := &Writer{w: w, engine: engine, header: header, headerBytes: headerBytes, bi: bi}

	if _, err := w.Write(Magic[:]); err != nil {
		return nil, err
	}
	wtr.offset += uint64(len(Magic))

	if err := wtr.writeLenPrefixed(headerBytes); err != nil {
		return nil, err
	}

	return wtr, nil
}

func (wtr *Writer) writeLenPrefixed(data []byte) error {
	var tmp [4]byte
	wtr.engine.PutUint32(tmp[:], uint32(len(data))) //nolint:gosec
	if _, err := wtr.w.Write(tmp[:]); err != nil {
		return err
	}
	wtr.offset += 4

	if _, err := wtr.w.Write(data); err != nil {
		return err
	}
	wtr.offset += uint64(len(data))

	return nil
}

// WriteBlock appends data (the serialized output of block.Block.Flush) to
// the archive, fills in entry's offset range, records it in the Block
// Index, and digests the block for the trailer's Digests Section. entry's
// Offset* fields are overwritten; its Bin* fields are stored as supplied.
// The caller supplies BlockID, ContigID, VariantCount and
// PositionMin/PositionMax.
func (wtr *Writer) WriteBlock(entry index.Entry, data []byte) error {
	entry.OffsetBegin = wtr.offset
	if _, err := wtr.w.Write(data); err != nil {
		return err
	}
	wtr.offset += uint64(len(data))
	entry.OffsetEnd = wtr.offset

	if err := wtr.bi.AddBlock(entry); err != nil {
		return err
	}

	wtr.blockDigests = append(wtr.blockDigests, blockDigest{BlockID: entry.BlockID, Sum: computeDigest(data)})

	return nil
}

// Close writes the Block Index and Digests Section, then the trailer, and
// returns the archive's total byte length.
func (wtr *Writer) Close() (uint64, error) {
	dataEnd := wtr.offset

	indexBytes := wtr.bi.Bytes(wtr.engine)
	if err := wtr.writeLenPrefixed(indexBytes); err != nil {
		return 0, err
	}

	digestsStart := wtr.offset
	d := digests{
		blocks:       wtr.blockDigests,
		headerDigest: sha512.Sum512(wtr.headerBytes),
		indexDigest:  sha512.Sum512(indexBytes),
	}
	if err := wtr.writeLenPrefixed(d.Bytes(wtr.engine)); err != nil {
		return 0, err
	}

	var trailer [TrailerSize]byte
	wtr.engine.PutUint64(trailer[0:8], digestsStart)
	wtr.engine.PutUint64(trailer[8:16], dataEnd)
	copy(trailer[16:], EOF[:])

	if _, err := wtr.w.Write(trailer[:]); err != nil {
		return 0, err
	}
	wtr.offset += uint64(len(trailer))

	return wtr.offset, nil
}
