package archive

import (
	"bytes"
	"crypto/sha512"
	"io"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/index"
)

// Reader opens an archive previously produced by Writer for random-access
// reads: magic/header validation, trailer-first discovery of the Block
// Index and Digests Section, and per-block digest verification before the
// raw bytes are handed back for block.Open (or, for column-selective reads,
// direct container-offset slicing via the block's own footer).
type Reader struct {
	r      io.ReaderAt
	engine endian.EndianEngine

	header      Header
	headerBytes []byte

	idx *index.BlockIndex

	digestsByBlock map[uint32][digestSize]byte
	blockEntries   map[uint32]index.Entry

	dataEnd uint64
}

// Open validates the magic, trailer sentinel and section digests, and
// returns a Reader ready for FindOverlap/ReadBlock calls.
func Open(r io.ReaderAt, size int64, engine endian.EndianEngine) (*Reader, error) {
	if size < int64(TrailerSize)+int64(len(Magic))+4 {
		return nil, errs.ErrTruncatedStream
	}

	trailer := make([]byte, TrailerSize)
	if _, err := r.ReadAt(trailer, size-int64(TrailerSize)); err != nil {
		return nil, err
	}
	digestsStart := engine.Uint64(trailer[0:8])
	dataEnd := engine.Uint64(trailer[8:16])
	if !bytes.Equal(trailer[16:16+len(EOF)], EOF[:]) {
		return nil, errs.ErrArchiveEOFMismatch
	}

	magicBuf := make([]byte, len(Magic))
	if _, err := r.ReadAt(magicBuf, 0); err != nil {
		return nil, err
	}
	if !bytes.Equal(magicBuf, Magic[:]) {
		return nil, errs.ErrInvalidMagic
	}

	headerBytes, err := readLenPrefixed(r, int64(len(Magic)), engine)
	if err != nil {
		return nil, err
	}
	header, _, err := ParseHeader(headerBytes, engine)
	if err != nil {
		return nil, err
	}

	indexBytes, err := readLenPrefixed(r, int64(dataEnd), engine)
	if err != nil {
		return nil, err
	}
	idx, err := index.Load(indexBytes, engine)
	if err != nil {
		return nil, err
	}

	digestsBytes, err := readLenPrefixed(r, int64(digestsStart), engine)
	if err != nil {
		return nil, err
	}
	d, err := parseDigests(digestsBytes, engine)
	if err != nil {
		return nil, err
	}

	if sha512.Sum512(headerBytes) != d.headerDigest {
		return nil, errs.ErrCorruptDigest
	}
	if sha512.Sum512(indexBytes) != d.indexDigest {
		return nil, errs.ErrCorruptDigest
	}

	digestsByBlock := make(map[uint32][digestSize]byte, len(d.blocks))
	for _, bd := range d.blocks {
		digestsByBlock[bd.BlockID] = bd.Sum
	}

	blockEntries := make(map[uint32]index.Entry, idx.Linear.Len())
	for _, e := range idx.Linear.Entries() {
		blockEntries[e.BlockID] = e
	}

	return &Reader{
		r:              r,
		engine:         engine,
		header:         header,
		headerBytes:    headerBytes,
		idx:            idx,
		digestsByBlock: digestsByBlock,
		blockEntries:   blockEntries,
		dataEnd:        dataEnd,
	}, nil
}

func readLenPrefixed(r io.ReaderAt, offset int64, engine endian.EndianEngine) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := r.ReadAt(lenBuf[:], offset); err != nil {
		return nil, err
	}
	n := int(engine.Uint32(lenBuf[:]))

	data := make([]byte, n)
	if n > 0 {
		if _, err := r.ReadAt(data, offset+4); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// Header returns the archive's file header.
func (rd *Reader) Header() Header { return rd.header }

// Index returns the archive's Block Index.
func (rd *Reader) Index() *index.BlockIndex { return rd.idx }

// FindOverlap delegates to the Block Index.
func (rd *Reader) FindOverlap(contigID uint32, start, end uint64) ([]uint32, error) {
	return rd.idx.FindOverlap(contigID, start, end)
}

// ReadBlock returns the raw serialized bytes (as produced by
// block.Block.Flush) for blockID, after verifying its SHA-512 digest
// against the Digests Section.
func (rd *Reader) ReadBlock(blockID uint32) ([]byte, error) {
	entry, ok := rd.blockEntries[blockID]
	if !ok {
		return nil, errs.ErrUnknownContig
	}

	data := make([]byte, entry.OffsetEnd-entry.OffsetBegin)
	if _, err := rd.r.ReadAt(data, int64(entry.OffsetBegin)); err != nil { //nolint:gosec
		return nil, err
	}

	want, ok := rd.digestsByBlock[blockID]
	if !ok || sha512.Sum512(data) != want {
		return nil, errs.ErrCorruptDigest
	}

	return data, nil
}

// SeekBlock resolves blockID to its Linear Index Entry without reading the
// block's bytes, for callers that want the offset range or variant count
// first.
func (rd *Reader) SeekBlock(blockID uint32) (index.Entry, bool) {
	e, ok := rd.blockEntries[blockID]

	return e, ok
}
