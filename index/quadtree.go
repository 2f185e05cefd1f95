// Package index implements the Block Index: a per-contig quad-tree for
// sub-linear overlap queries, an append-only linear index of block
// offsets, and a per-contig meta index of running totals.
package index

import "sort"

// DefaultLevels is the default quad-tree depth per contig.
const DefaultLevels = 7

// RoundLength rounds length up to the next multiple of 4^levels, always
// rounding up even when length is already an exact multiple (matching the
// reference implementation's RoundLengthClosestBase4).
func RoundLength(length uint64, levels uint8) uint64 {
	p := pow4(levels)

	return (p - (length % p)) + length
}

func pow4(levels uint8) uint64 {
	v := uint64(1)
	for i := uint8(0); i < levels; i++ {
		v *= 4
	}

	return v
}

// cumulativeSums returns, for i in [0, levels], the count of bins in all
// levels [0, i] minus one (bins_cumsum[i] in the original), so that
// bins_cumsum[i-1]+binFrom addresses level i's flat bin index.
func cumulativeSums(levels uint8) []uint32 {
	sums := make([]uint32, levels+1)
	var total uint64
	for i := uint8(0); i <= levels; i++ {
		total += pow4(i)
		sums[i] = uint32(total - 1) //nolint:gosec
	}

	return sums
}

// ContigIndex is the quad-tree for one contig: a flat slice of bins keyed
// by the cumulative bin index described in cumulativeSums, plus the root
// bin at index 0 (shared with level 1's bin 0 slot, as in the original).
type ContigIndex struct {
	ContigID      uint32
	Length        uint64
	RoundedLength uint64
	Levels        uint8

	cumsum []uint32
	bins   [][]uint32 // sorted, deduplicated block ids per bin
}

// NewContigIndex creates an empty quad-tree for a contig of the given
// length, with levels defaulting to DefaultLevels when 0 is passed.
func NewContigIndex(contigID uint32, length uint64, levels uint8) *ContigIndex {
	if levels == 0 {
		levels = DefaultLevels
	}

	rounded := RoundLength(length, levels)
	cumsum := cumulativeSums(levels)
	nBins := cumsum[levels] + 1

	return &ContigIndex{
		ContigID:      contigID,
		Length:        length,
		RoundedLength: rounded,
		Levels:        levels,
		cumsum:        cumsum,
		bins:          make([][]uint32, nBins),
	}
}

// TotalBins returns (4^(L+1)-1)/3, the total bin count for this contig.
func (c *ContigIndex) TotalBins() int { return len(c.bins) }

// Add inserts blockID into the finest bin fully containing [from, to],
// falling back to the root bin at index 0 when no level collapses.
func (c *ContigIndex) Add(from, to uint64, blockID uint32) {
	for i := int(c.Levels); i != 0; i-- {
		divisor := c.RoundedLength / pow4(uint8(i)) //nolint:gosec
		if divisor == 0 {
			continue
		}
		binFrom := from / divisor
		binTo := to / divisor
		if binFrom == binTo {
			idx := c.cumsum[i-1] + uint32(binFrom) //nolint:gosec
			c.insertSorted(idx, blockID)

			return
		}
	}
	c.insertSorted(0, blockID)
}

func (c *ContigIndex) insertSorted(bin uint32, blockID uint32) {
	bucket := c.bins[bin]
	i := sort.Search(len(bucket), func(j int) bool { return bucket[j] >= blockID })
	if i < len(bucket) && bucket[i] == blockID {
		return
	}
	bucket = append(bucket, 0)
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = blockID
	c.bins[bin] = bucket
}

// PossibleBins returns the flat bin indices that could contain an interval
// overlapping [from, to]: at each level from L down to 1, every bin index
// spanned by the interval, plus the root bin (index 0) unconditionally.
func (c *ContigIndex) PossibleBins(from, to uint64) []uint32 {
	if to > c.RoundedLength {
		to = c.RoundedLength
	}

	var out []uint32
	out = append(out, 0)

	for i := int(c.Levels); i != 0; i-- {
		divisor := c.RoundedLength / pow4(uint8(i)) //nolint:gosec
		if divisor == 0 {
			continue
		}
		binFrom := from / divisor
		binTo := to / divisor
		for b := binFrom; b <= binTo; b++ {
			out = append(out, c.cumsum[i-1]+uint32(b)) //nolint:gosec
		}
	}

	return out
}

// CandidateBlocks returns the union of block ids across every bin returned
// by PossibleBins, sorted ascending and deduplicated. This is an upper
// bound on overlap; the caller must still filter by each block's actual
// position range.
func (c *ContigIndex) CandidateBlocks(from, to uint64) []uint32 {
	seen := make(map[uint32]struct{})
	var out []uint32
	for _, bin := range c.PossibleBins(from, to) {
		if int(bin) >= len(c.bins) {
			continue
		}
		for _, id := range c.bins[bin] {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
