package index

// Entry is one Linear Index Entry: block id, contig id, variant count,
// byte offset range, position range and bin range.
type Entry struct {
	BlockID      uint32
	ContigID     uint32
	VariantCount uint32
	OffsetBegin  uint64
	OffsetEnd    uint64
	PositionMin  uint64
	PositionMax  uint64
	BinMin       uint64
	BinMax       uint64
}

// Linear is the append-only, insertion-ordered vector of Entry records.
type Linear struct {
	entries []Entry
}

// NewLinear creates an empty linear index.
func NewLinear() *Linear { return &Linear{} }

// AddBlock appends entry, preserving insertion order.
func (l *Linear) AddBlock(entry Entry) { l.entries = append(l.entries, entry) }

// Entries returns the entries in insertion order. The returned slice must
// not be mutated by the caller.
func (l *Linear) Entries() []Entry { return l.entries }

// Len returns the number of entries.
func (l *Linear) Len() int { return len(l.entries) }

// At returns the entry at position i, for SeekBlock-style random access.
func (l *Linear) At(i int) (Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}

	return l.entries[i], true
}

// FilterOverlap filters candidate block ids down to those whose linear
// entry actually overlaps [start, end) on the given contig:
// entry.PositionMin < end && entry.PositionMax > start.
func (l *Linear) FilterOverlap(candidates []uint32, contigID uint32, start, end uint64) []uint32 {
	byID := make(map[uint32]Entry, len(l.entries))
	for _, e := range l.entries {
		if e.ContigID == contigID {
			byID[e.BlockID] = e
		}
	}

	out := make([]uint32, 0, len(candidates))
	for _, id := range candidates {
		e, ok := byID[id]
		if !ok {
			continue
		}
		if e.PositionMin < end && e.PositionMax > start {
			out = append(out, id)
		}
	}

	return out
}
