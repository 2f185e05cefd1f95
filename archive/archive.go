// Package archive implements the Archive Writer and Reader: the top-level
// file framing that ties a sequence of sealed Variant Blocks to the header
// describing their contigs/samples/key vocabulary and the Block Index that
// lets a reader seek directly to the blocks it needs.
//
// Layout, in order on disk:
//
//	MAGIC(8) || header_len(u32) || Header || Block_1 || ... || Block_K ||
//	index_len(u32) || Index || digests_len(u32) || Digests ||
//	Trailer(digests_start(8) data_end(8) EOF(32))
//
// data_end also marks the Index's start offset, since the Index immediately
// follows the last block. The trailer is fixed-size and always the last 48
// bytes of the file, so Reader opens by seeking from the end rather than
// scanning forward.
package archive

// Magic is the 8-byte archive file signature.
var Magic = [8]byte{'Y', 'O', 'N', 'A', 'R', 'C', 'H', '1'}

// EOF is the 32-byte sentinel terminating every archive file, distinct from
// block.BlockEOF so a truncated trailer is distinguishable from a truncated
// block.
var EOF = [32]byte{
	0x59, 0x4F, 0x4E, 0x2D, 0x41, 0x52, 0x43, 0x48,
	0x2D, 0x45, 0x4E, 0x44, 0x2D, 0x4F, 0x46, 0x2D,
	0x46, 0x49, 0x4C, 0x45, 0x2D, 0x53, 0x45, 0x4E,
	0x54, 0x49, 0x4E, 0x45, 0x4C, 0x21, 0x21, 0x21,
}

// TrailerSize is the fixed byte length of the trailer written at the very
// end of every archive file.
const TrailerSize = 8 + 8 + len(EOF)

// FormatVersion is the archive wire format version stamped in the header.
const FormatVersion = 1
