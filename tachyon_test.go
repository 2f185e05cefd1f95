package tachyon

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/compress"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/index"
	"github.com/arloliu/tachyon/variant"
)

func integrationHeader() variant.Header {
	return variant.Header{
		Contigs: []variant.Contig{{ID: 0, Name: "chr1", Length: 1_000_000}},
		Samples: []string{"s0", "s1", "s2", "s3"},
		Entries: []variant.MapEntry{
			{ID: "GT", IDX: 0, Category: format.CategoryFormat, Type: format.ValueInteger},
			{ID: "DP", IDX: 1, Category: format.CategoryInfo, Type: format.ValueInteger},
		},
	}
}

func gtCall(a, b int32, phaseB bool) variant.Call {
	return variant.Call{Alleles: []int32{a, b}, Phase: []bool{false, phaseB}}
}

// TestArchiveRoundTrip covers the archive's headline testable property end
// to end: writing a block built from real variant records through
// NewBlock/AddVariant/Flush, then reading the archive back, must expose
// the same header, the same overlap results and the exact serialized block
// bytes that were written.
func TestArchiveRoundTrip(t *testing.T) {
	header := integrationHeader()
	codec := compress.NewNoOpCompressor()

	blk := NewBlock(&header, 0, 0, 1000, true)
	records := []variant.Record{
		{
			ContigID: 0, Position: 1010, ID: "rs1", Ref: "A", Alt: []string{"G"}, Quality: 40,
			Info: map[int32]variant.FieldValue{1: {Kind: format.ValueInteger, Ints: []int32{12}}},
			GT: []variant.Call{
				gtCall(0, 0, true), gtCall(0, 1, true), gtCall(1, 1, true), gtCall(0, 0, true),
			},
		},
		{
			ContigID: 0, Position: 1080, ID: "rs2", Ref: "C", Alt: []string{"T"}, Quality: 55,
			Info: map[int32]variant.FieldValue{1: {Kind: format.ValueInteger, Ints: []int32{30}}},
			GT: []variant.Call{
				gtCall(0, 1, true), gtCall(0, 0, true), gtCall(1, 1, false), gtCall(0, 1, true),
			},
		},
	}
	for _, rec := range records {
		require.NoError(t, blk.AddVariant(rec))
	}

	data, footer, err := blk.Flush(codec, format.CompressionNone, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(len(records)), footer.VariantCount)

	var buf bytes.Buffer
	w, err := NewArchiveWriter(&buf, header, 0)
	require.NoError(t, err)

	require.NoError(t, w.WriteBlock(index.Entry{
		BlockID:      0,
		ContigID:     0,
		VariantCount: footer.VariantCount,
		PositionMin:  1010,
		PositionMax:  1080,
	}, data))

	total, err := w.Close()
	require.NoError(t, err)
	require.Equal(t, uint64(buf.Len()), total) //nolint:gosec

	r, err := OpenArchive(bytes.NewReader(buf.Bytes()), int64(buf.Len())) //nolint:gosec
	require.NoError(t, err)

	require.Equal(t, []string{"s0", "s1", "s2", "s3"}, r.Header().VariantHdr.Samples)

	ids, err := r.FindOverlap(0, 1020, 1090)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, ids)

	got, err := r.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

// TestArchiveRoundTripMultipleBlocks covers overlap filtering across two
// sequential blocks on the same contig, each built from an independent
// Block accumulation cycle.
func TestArchiveRoundTripMultipleBlocks(t *testing.T) {
	header := integrationHeader()
	codec := compress.NewNoOpCompressor()

	var buf bytes.Buffer
	w, err := NewArchiveWriter(&buf, header, 0)
	require.NoError(t, err)

	positions := [][2]uint64{{100, 200}, {5000, 5100}}
	for i, pr := range positions {
		blk := NewBlock(&header, uint32(i), 0, pr[0], false) //nolint:gosec
		require.NoError(t, blk.AddVariant(variant.Record{
			ContigID: 0, Position: pr[0], Ref: "A", Alt: []string{"T"},
			GT: []variant.Call{gtCall(0, 0, true), gtCall(0, 0, true), gtCall(0, 0, true), gtCall(0, 0, true)},
		}))
		require.NoError(t, blk.AddVariant(variant.Record{
			ContigID: 0, Position: pr[1], Ref: "A", Alt: []string{"T"},
			GT: []variant.Call{gtCall(0, 0, true), gtCall(0, 0, true), gtCall(0, 0, true), gtCall(0, 0, true)},
		}))

		data, footer, err := blk.Flush(codec, format.CompressionNone, nil)
		require.NoError(t, err)

		require.NoError(t, w.WriteBlock(index.Entry{
			BlockID: uint32(i), ContigID: 0, VariantCount: footer.VariantCount, //nolint:gosec
			PositionMin: pr[0], PositionMax: pr[1],
		}, data))
	}

	_, err = w.Close()
	require.NoError(t, err)

	r, err := OpenArchive(bytes.NewReader(buf.Bytes()), int64(buf.Len())) //nolint:gosec
	require.NoError(t, err)

	ids, err := r.FindOverlap(0, 150, 160)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, ids)

	ids, err = r.FindOverlap(0, 0, 10_000)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, ids)
}
