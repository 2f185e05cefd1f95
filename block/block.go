// Package block implements the Variant Block: the aggregate that owns one
// block's worth of containers (permutation, meta-hot, meta-cold, genotype
// streams, one container per observed INFO/FORMAT key) and seals them into
// a single serialized byte stream with a trailing footer.
package block

import (
	"github.com/arloliu/tachyon/container"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/genotype"
	"github.com/arloliu/tachyon/internal/hash"
	"github.com/arloliu/tachyon/internal/options"
	"github.com/arloliu/tachyon/meta"
	"github.com/arloliu/tachyon/variant"
)

// State is the block's lifecycle stage. Transitions are monotonic;
// re-entry requires Reset.
type State uint8

const (
	Empty State = iota
	Accumulating
	Sealed
	Serialized
)

// BlockEOF is the 8-byte constant sentinel terminating every serialized
// block, value exact to the byte.
var BlockEOF = [8]byte{0x6B, 0x7A, 0x65, 0x79, 0x56, 0x65, 0x6E, 0x6F}

// keyStream is the accumulated state for one field category (INFO, FORMAT
// or FILTER): one Container per observed key, plus the per-variant key
// sets used to build the pattern bit-matrix at Flush.
type keyStream struct {
	containers map[int32]*container.Container
	order      []int32 // key ids in first-seen order
	perVariant [][]int32
}

func newKeyStream() *keyStream {
	return &keyStream{containers: make(map[int32]*container.Container)}
}

// Block owns and seals one block's worth of variants.
type Block struct {
	state   State
	engine  endian.EndianEngine
	header  *variant.Header

	BlockID     uint32
	ContigID    uint32
	MinPosition uint64
	maxPosition uint64

	permute bool

	hot  []meta.Hot
	cold []meta.Cold

	info   *keyStream
	format *keyStream
	filter *keyStream

	gtRecords      []genotype.Record
	gtAlleleCounts []int // per-gtRecords entry, A = len(Alt)+1 for that site
	gtAlleleMax    int   // largest allele count across the block, A_max (not ploidy)
	anyGT          bool

	infoPatterns   *patternTable
	formatPatterns *patternTable
	filterPatterns *patternTable
}

// Init starts accumulating a new block. permute controls whether the
// genotype permutation array is derived at Flush; it is always re-derived
// per block, including one seeded by a carried-over record, since
// permutation state never survives a block boundary.
func Init(engine endian.EndianEngine, header *variant.Header, blockID, contigID uint32, minPosition uint64, permute bool, opts ...Option) *Block {
	b := &Block{
		state:          Accumulating,
		engine:         engine,
		header:         header,
		BlockID:        blockID,
		ContigID:       contigID,
		MinPosition:    minPosition,
		permute:        permute,
		info:           newKeyStream(),
		format:         newKeyStream(),
		filter:         newKeyStream(),
		infoPatterns:   newPatternTable(),
		formatPatterns: newPatternTable(),
		filterPatterns: newPatternTable(),
	}

	_ = options.Apply(b, opts...) // NoError-only options today; never fails

	return b
}

// Reset discards all accumulated state and returns the block to Empty. An
// Empty block rejects AddVariant and Flush; Init creates a new block.
func (b *Block) Reset() {
	*b = Block{state: Empty, engine: b.engine, header: b.header}
}

// AddVariant splits record into meta-hot, meta-cold, GT and per-key INFO
// containers, updates the FILTER/INFO/FORMAT key sets and pattern table.
func (b *Block) AddVariant(rec variant.Record) error {
	if b.state != Accumulating {
		return errs.ErrBlockNotAccumulating
	}
	if rec.ContigID != b.ContigID {
		return errs.ErrMixedContig
	}
	if len(b.hot) > 0 && rec.Position < b.maxPosition {
		return errs.ErrOutOfOrder
	}

	if err := b.appendMeta(rec); err != nil {
		return err
	}

	infoKeys, err := b.dispatchInfo(rec)
	if err != nil {
		return err
	}
	formatKeys, err := b.dispatchFormat(rec)
	if err != nil {
		return err
	}

	b.info.perVariant = append(b.info.perVariant, infoKeys)
	b.format.perVariant = append(b.format.perVariant, formatKeys)
	b.filter.perVariant = append(b.filter.perVariant, rec.Filters)

	b.infoPatterns.Observe(infoKeys)
	b.formatPatterns.Observe(formatKeys)
	b.filterPatterns.Observe(rec.Filters)

	if rec.GT != nil {
		b.anyGT = true
		alleleCount := len(rec.Alt) + 1
		if alleleCount > b.gtAlleleMax {
			b.gtAlleleMax = alleleCount
		}
		b.gtRecords = append(b.gtRecords, genotype.Record{Calls: toGenotypeCalls(rec.GT)})
		b.gtAlleleCounts = append(b.gtAlleleCounts, alleleCount)
	}

	b.maxPosition = rec.Position

	return nil
}

func toGenotypeCalls(calls []variant.Call) []genotype.Call {
	out := make([]genotype.Call, len(calls))
	for i, c := range calls {
		out[i] = genotype.Call{Alleles: c.Alleles, Phase: c.Phase}
	}

	return out
}

func (b *Block) appendMeta(rec variant.Record) error {
	if len(rec.Alt)+1 > 32767 {
		return errs.ErrTooManyAlleles
	}

	var ctrl meta.HotController
	ctrl.SetBiallelic(len(rec.Alt) == 1)
	ctrl.SetSimple(len(rec.Ref) == 1 && len(rec.Alt) == 1 && len(rec.Alt[0]) == 1)

	refNibble := meta.NibbleForAllele(rec.Ref)
	altNibble := uint8(meta.AlleleOther)
	if len(rec.Alt) == 1 {
		altNibble = meta.NibbleForAllele(rec.Alt[0])
	}
	if !ctrl.Simple() {
		refNibble, altNibble = meta.AlleleOther, meta.AlleleOther
	}

	b.hot = append(b.hot, meta.Hot{
		Controller: ctrl,
		RefAlt:     meta.PackRefAlt(refNibble, altNibble),
		Position:   uint32(rec.Position - b.MinPosition), //nolint:gosec
	})
	b.cold = append(b.cold, meta.Cold{
		Quality: rec.Quality,
		ID:      rec.ID,
		Alleles: append([]string{rec.Ref}, rec.Alt...),
	})

	return nil
}

// dispatchInfo appends each INFO field's values into the per-key container,
// creating it on first sight. The BCF-style primitive tag selects the
// container's primitive type: integer -> signed 32, float -> F32, char ->
// Char. The container's stride equals the field's element count, recorded
// per-variant (becoming mixed-stride if heterogeneous).
func (b *Block) dispatchInfo(rec variant.Record) ([]int32, error) {
	keys := make([]int32, 0, len(rec.Info))
	for k := range rec.Info {
		keys = append(keys, k)
	}
	sortInt32s(keys)

	for _, k := range keys {
		v := rec.Info[k]
		c, ok := b.info.containers[k]
		if !ok {
			c = container.New(b.engine, primitiveForValue(v.Kind))
			b.info.containers[k] = c
			b.info.order = append(b.info.order, k)
		}
		if err := appendFieldValue(c, v); err != nil {
			return nil, err
		}
		if err := c.AppendStride(int32(fieldValueLen(v))); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// dispatchFormat is identical to dispatchInfo except FORMAT:GT is consumed
// by the genotype codec instead of being stored as an ordinary container,
// and each key's values are appended once per sample.
func (b *Block) dispatchFormat(rec variant.Record) ([]int32, error) {
	keys := make([]int32, 0, len(rec.Format))
	for k := range rec.Format {
		keys = append(keys, k)
	}
	sortInt32s(keys)

	byIDX := b.header.ByIDX()
	for _, k := range keys {
		entry, ok := byIDX[k]
		if ok && entry.ID == "GT" {
			continue
		}

		values := rec.Format[k]
		for _, v := range values {
			c, ok := b.format.containers[k]
			if !ok {
				c = container.New(b.engine, primitiveForValue(v.Kind))
				b.format.containers[k] = c
				b.format.order = append(b.format.order, k)
			}
			if err := appendFieldValue(c, v); err != nil {
				return nil, err
			}
			if err := c.AppendStride(int32(fieldValueLen(v))); err != nil {
				return nil, err
			}
		}
	}

	return keys, nil
}

func primitiveForValue(k format.ValueType) format.PrimitiveType {
	switch k {
	case format.ValueInteger:
		return format.I32
	case format.ValueFloat:
		return format.F32
	case format.ValueCharacter, format.ValueString:
		return format.Char
	case format.ValueFlag:
		return format.Bool
	default:
		return format.Char
	}
}

func fieldValueLen(v variant.FieldValue) int {
	switch v.Kind {
	case format.ValueInteger:
		return len(v.Ints)
	case format.ValueFloat:
		return len(v.Floats)
	case format.ValueCharacter:
		return len(v.Chars)
	default:
		return len(v.Strings)
	}
}

func appendFieldValue(c *container.Container, v variant.FieldValue) error {
	switch v.Kind {
	case format.ValueInteger:
		for _, i := range v.Ints {
			if err := c.AppendI32(i); err != nil {
				return err
			}
		}
	case format.ValueFloat:
		for _, f := range v.Floats {
			if err := c.AppendF32(f); err != nil {
				return err
			}
		}
	case format.ValueCharacter:
		if err := c.AppendBytes(v.Chars); err != nil {
			return err
		}
	case format.ValueFlag:
		// presence-only: zero data bytes, handled by Container.Seal
		// promoting an empty container to Bool/uniform.
	default:
		for _, s := range v.Strings {
			if err := c.AppendBytes([]byte(s)); err != nil {
				return err
			}
		}
	}

	return nil
}

func sortInt32s(s []int32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// patternHash hashes a sorted key-id tuple for pattern identification.
func patternHash(keys []int32) uint64 {
	u := make([]uint64, len(keys))
	for i, k := range keys {
		u[i] = uint64(uint32(k)) //nolint:gosec
	}

	return hash.Uint64s(u)
}
