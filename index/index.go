package index

import (
	"sort"

	"github.com/arloliu/tachyon/errs"
)

// BlockIndex is the top-level Block Index: one quad-tree per contig, the
// archive-wide linear index, and the per-contig meta index.
type BlockIndex struct {
	Levels   uint8
	contigs  map[uint32]*ContigIndex
	order    []uint32 // contig ids in first-seen order, for deterministic iteration
	Linear   *Linear
	Meta     *MetaIndex
}

// NewBlockIndex creates an empty index using the given quad-tree depth
// (DefaultLevels when 0).
func NewBlockIndex(levels uint8) *BlockIndex {
	if levels == 0 {
		levels = DefaultLevels
	}

	return &BlockIndex{
		Levels:  levels,
		contigs: make(map[uint32]*ContigIndex),
		Linear:  NewLinear(),
		Meta:    NewMetaIndex(),
	}
}

// RegisterContig creates the quad-tree for a newly seen contig. Calling it
// more than once for the same contig id is a no-op.
func (b *BlockIndex) RegisterContig(contigID uint32, length uint64) {
	if _, ok := b.contigs[contigID]; ok {
		return
	}
	b.contigs[contigID] = NewContigIndex(contigID, length, b.Levels)
	b.order = append(b.order, contigID)
}

// AddBlock records entry in the linear index and meta index, and inserts
// its interval into its contig's quad-tree. The contig must already be
// registered via RegisterContig.
func (b *BlockIndex) AddBlock(entry Entry) error {
	ci, ok := b.contigs[entry.ContigID]
	if !ok {
		return errs.ErrUnknownContig
	}

	ci.Add(entry.PositionMin, entry.PositionMax, entry.BlockID)
	b.Linear.AddBlock(entry)
	b.Meta.Merge(entry)

	return nil
}

// FindOverlap returns the ordered, deduplicated set of block ids on contig
// whose linear entry overlaps [start, end).
func (b *BlockIndex) FindOverlap(contigID uint32, start, end uint64) ([]uint32, error) {
	ci, ok := b.contigs[contigID]
	if !ok {
		return nil, errs.ErrUnknownContig
	}
	if start >= ci.Length && ci.Length > 0 {
		return nil, errs.ErrPositionOutOfRange
	}

	candidates := ci.CandidateBlocks(start, end)
	result := b.Linear.FilterOverlap(candidates, contigID, start, end)

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })

	return result, nil
}
