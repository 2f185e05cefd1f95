// Package tachyon provides a columnar storage engine for population-scale
// variant-call data: a self-describing, block-oriented, optionally
// compressed and encrypted binary archive ("YON") built from typed Data
// Containers, a Permutation Array + Genotype Codec pairing for FORMAT:GT,
// and a quad-tree Block Index for sub-linear position queries.
//
// # Basic Usage
//
// Writing an archive:
//
//	import "github.com/arloliu/tachyon"
//
//	w, _ := tachyon.NewArchiveWriter(file, header, 0)
//	blk := tachyon.NewBlock(&header, 0, contigID, 0, true)
//	for _, rec := range variants {
//	    blk.AddVariant(rec)
//	}
//	data, footer, _ := blk.Flush(codec, format.CompressionZstd, nil)
//	w.WriteBlock(index.Entry{BlockID: 0, ContigID: contigID, VariantCount: footer.VariantCount, ...}, data)
//	w.Close()
//
// Reading one back:
//
//	r, _ := tachyon.OpenArchive(file, size)
//	ids, _ := r.FindOverlap(contigID, start, end)
//	raw, _ := r.ReadBlock(ids[0])
//
// # Package Structure
//
// This package provides convenient top-level wrappers around buffer,
// container, keychain, genotype, meta, index, block and archive. For
// fine-grained control over container layout, encryption or compression
// selection, use those packages directly.
package tachyon

import (
	"io"

	"github.com/arloliu/tachyon/archive"
	"github.com/arloliu/tachyon/block"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/variant"
)

// DefaultEngine returns the little-endian engine used by default throughout
// the archive format.
func DefaultEngine() endian.EndianEngine {
	return endian.GetLittleEndianEngine()
}

// NewArchiveWriter opens a new archive on w, writing the magic and header
// immediately. levels is the Block Index quad-tree depth; 0 selects
// index.DefaultLevels.
func NewArchiveWriter(w io.Writer, header variant.Header, levels uint8) (*archive.Writer, error) {
	return archive.NewWriter(w, DefaultEngine(), header, levels)
}

// OpenArchive validates an archive's magic, trailer and section digests and
// returns a Reader ready for FindOverlap/ReadBlock calls.
func OpenArchive(r io.ReaderAt, size int64) (*archive.Reader, error) {
	return archive.Open(r, size, DefaultEngine())
}

// NewBlock starts accumulating a new block for contigID, with variant
// positions recorded relative to minPosition. permute controls whether the
// genotype permutation array is derived at Flush. opts configures optional
// construction-time behavior such as block.WithVariantCapacityHint.
func NewBlock(header *variant.Header, blockID, contigID uint32, minPosition uint64, permute bool, opts ...block.Option) *block.Block {
	return block.Init(DefaultEngine(), header, blockID, contigID, minPosition, permute, opts...)
}
