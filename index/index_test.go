package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/endian"
)

// TestRoundLengthAlwaysRoundsUp covers a 4,000,000bp contig at the default
// 7 levels: 4^7 = 16384 is smaller than the contig length, so RoundLength
// must advance to the next multiple of 16384 beyond it.
func TestRoundLengthAlwaysRoundsUp(t *testing.T) {
	rounded := RoundLength(4_000_000, DefaultLevels)
	require.Equal(t, uint64(0), rounded%16384)
	require.Greater(t, rounded, uint64(4_000_000))
}

// TestRoundLengthRoundsUpOnExactMultiple covers the edge case where length
// is already an exact multiple of 4^levels: RoundLength must still advance
// a full extra unit rather than returning length unchanged.
func TestRoundLengthRoundsUpOnExactMultiple(t *testing.T) {
	length := uint64(16384 * 3)
	rounded := RoundLength(length, DefaultLevels)
	require.Equal(t, length+16384, rounded)
}

// TestFindOverlapQuadTree covers the literal quad-tree overlap scenario: a
// 4,000,000bp contig at the default levels with three blocks inserted at
// [100,200], [150,250] and [3_000_000,3_000_100].
func TestFindOverlapQuadTree(t *testing.T) {
	bi := NewBlockIndex(DefaultLevels)
	bi.RegisterContig(0, 4_000_000)

	entries := []Entry{
		{BlockID: 0, ContigID: 0, PositionMin: 100, PositionMax: 200},
		{BlockID: 1, ContigID: 0, PositionMin: 150, PositionMax: 250},
		{BlockID: 2, ContigID: 0, PositionMin: 3_000_000, PositionMax: 3_000_100},
	}
	for _, e := range entries {
		require.NoError(t, bi.AddBlock(e))
	}

	got, err := bi.FindOverlap(0, 180, 220)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, got)

	got, err = bi.FindOverlap(0, 200_000, 200_100)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = bi.FindOverlap(0, 2_999_900, 3_000_200)
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, got)
}

// TestFindOverlapUnknownContig ensures querying an unregistered contig
// surfaces an error rather than silently returning no results.
func TestFindOverlapUnknownContig(t *testing.T) {
	bi := NewBlockIndex(0)
	_, err := bi.FindOverlap(99, 0, 10)
	require.Error(t, err)
}

// TestBytesLoadRoundTrip covers the archive-file serialization path:
// Load must reconstruct a BlockIndex whose FindOverlap behaves exactly
// like the original, purely by replaying AddBlock on the stored entries.
func TestBytesLoadRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	bi := NewBlockIndex(DefaultLevels)
	bi.RegisterContig(0, 4_000_000)
	require.NoError(t, bi.AddBlock(Entry{BlockID: 0, ContigID: 0, PositionMin: 100, PositionMax: 200}))
	require.NoError(t, bi.AddBlock(Entry{BlockID: 1, ContigID: 0, PositionMin: 150, PositionMax: 250}))

	data := bi.Bytes(engine)
	loaded, err := Load(data, engine)
	require.NoError(t, err)

	got, err := loaded.FindOverlap(0, 180, 220)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, got)

	want, ok := bi.Meta.Contig(0)
	require.True(t, ok)
	have, ok := loaded.Meta.Contig(0)
	require.True(t, ok)
	require.Equal(t, want.Blocks, have.Blocks)
}
