package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/compress"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/variant"
)

func testHeader() *variant.Header {
	return &variant.Header{
		Samples: []string{"s0", "s1", "s2", "s3"},
		Entries: []variant.MapEntry{
			{ID: "GT", IDX: 0, Category: format.CategoryFormat, Type: format.ValueInteger},
			{ID: "DP", IDX: 1, Category: format.CategoryInfo, Type: format.ValueInteger},
		},
	}
}

func diploidGT(a, b int32, phaseB bool) variant.Call {
	return variant.Call{Alleles: []int32{a, b}, Phase: []bool{false, phaseB}}
}

// TestAddVariantAndFlushRoundTrip covers the Variant Block's
// universally-quantified property from the archive's testable-properties
// list: a sealed block's meta-hot position plus its block minimum must
// reproduce the original variant position, and its meta-cold id/alleles
// must be returned unchanged.
func TestAddVariantAndFlushRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	header := testHeader()
	blk := Init(engine, header, 0, 0, 1000, true)

	rec := variant.Record{
		ContigID: 0,
		Position: 1042,
		ID:       "rs123",
		Ref:      "A",
		Alt:      []string{"G"},
		Quality:  30.0,
		Info: map[int32]variant.FieldValue{
			1: {Kind: format.ValueInteger, Ints: []int32{7}},
		},
		GT: []variant.Call{
			diploidGT(0, 0, true),
			diploidGT(0, 0, true),
			diploidGT(0, 1, true),
			diploidGT(1, 1, true),
		},
	}
	require.NoError(t, blk.AddVariant(rec))

	require.Equal(t, uint32(1042-1000), blk.hot[0].Position)
	require.Equal(t, "rs123", blk.cold[0].ID)
	require.Equal(t, []string{"A", "G"}, blk.cold[0].Alleles)

	codec := compress.NewNoOpCompressor()
	data, footer, err := blk.Flush(codec, format.CompressionNone, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), footer.VariantCount)
	require.Equal(t, Serialized, blk.state)

	require.GreaterOrEqual(t, len(data), len(BlockEOF))
	require.Equal(t, BlockEOF[:], data[len(data)-len(BlockEOF):])
}

// TestFlushRejectsEmptyBlock ensures a block with no accumulated variants
// cannot be flushed.
func TestFlushRejectsEmptyBlock(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	blk := Init(engine, testHeader(), 0, 0, 0, false)

	_, _, err := blk.Flush(compress.NewNoOpCompressor(), format.CompressionNone, nil)
	require.Error(t, err)
}

// TestAddVariantRejectsOutOfOrderPosition covers the append-only ordering
// invariant: a record with a position lower than the previous one must be
// rejected rather than silently accepted.
func TestAddVariantRejectsOutOfOrderPosition(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	blk := Init(engine, testHeader(), 0, 0, 0, false)

	require.NoError(t, blk.AddVariant(variant.Record{ContigID: 0, Position: 200, Ref: "A", Alt: []string{"T"}}))
	err := blk.AddVariant(variant.Record{ContigID: 0, Position: 100, Ref: "A", Alt: []string{"T"}})
	require.Error(t, err)
}

// TestAddVariantRejectsMixedContig ensures a block only ever accumulates
// variants from the contig it was initialized with.
func TestAddVariantRejectsMixedContig(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	blk := Init(engine, testHeader(), 0, 0, 0, false)

	err := blk.AddVariant(variant.Record{ContigID: 1, Position: 0, Ref: "A", Alt: []string{"T"}})
	require.Error(t, err)
}
