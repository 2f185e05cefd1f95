package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/index"
	"github.com/arloliu/tachyon/variant"
)

func testVariantHeader() variant.Header {
	return variant.Header{
		Contigs: []variant.Contig{{ID: 0, Name: "chr1", Length: 4_000_000}},
		Samples: []string{"s0", "s1"},
	}
}

// TestWriterReaderRoundTrip covers the archive's round-trip property: a
// Reader opened over what Writer produced must expose the same header,
// the same overlap query results, and byte-identical block contents.
func TestWriterReaderRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	var buf bytes.Buffer

	w, err := NewWriter(&buf, engine, testVariantHeader(), index.DefaultLevels)
	require.NoError(t, err)

	block0 := []byte("serialized-block-bytes-0")
	require.NoError(t, w.WriteBlock(index.Entry{
		BlockID: 0, ContigID: 0, VariantCount: 3,
		PositionMin: 100, PositionMax: 200,
	}, block0))

	block1 := []byte("serialized-block-bytes-1-longer-payload")
	require.NoError(t, w.WriteBlock(index.Entry{
		BlockID: 1, ContigID: 0, VariantCount: 5,
		PositionMin: 150, PositionMax: 250,
	}, block1))

	total, err := w.Close()
	require.NoError(t, err)
	require.Equal(t, uint64(buf.Len()), total) //nolint:gosec

	r, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()), engine) //nolint:gosec
	require.NoError(t, err)

	require.Equal(t, []string{"s0", "s1"}, r.Header().VariantHdr.Samples)

	ids, err := r.FindOverlap(0, 180, 220)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, ids)

	got0, err := r.ReadBlock(0)
	require.NoError(t, err)
	require.Equal(t, block0, got0)

	got1, err := r.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, block1, got1)
}

// TestOpenRejectsBadMagic covers the magic-validation path of Open.
func TestOpenRejectsBadMagic(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	var buf bytes.Buffer

	w, err := NewWriter(&buf, engine, testVariantHeader(), 0)
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)

	corrupted := buf.Bytes()
	corrupted[0] ^= 0xFF

	_, err = Open(bytes.NewReader(corrupted), int64(len(corrupted)), engine)
	require.Error(t, err)
}

// TestReadBlockDetectsCorruption covers per-block digest verification: a
// byte flip inside a block's payload must be caught by ReadBlock even
// though the trailer/header/index digests are all still intact.
func TestReadBlockDetectsCorruption(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	var buf bytes.Buffer

	w, err := NewWriter(&buf, engine, testVariantHeader(), 0)
	require.NoError(t, err)
	require.NoError(t, w.WriteBlock(index.Entry{BlockID: 0, ContigID: 0, PositionMin: 0, PositionMax: 10}, []byte("original-bytes")))
	_, err = w.Close()
	require.NoError(t, err)

	data := append([]byte(nil), buf.Bytes()...)

	probe, err := Open(bytes.NewReader(data), int64(len(data)), engine)
	require.NoError(t, err)
	entry, ok := probe.SeekBlock(0)
	require.True(t, ok)
	require.Greater(t, entry.OffsetEnd, entry.OffsetBegin)

	data[entry.OffsetBegin] ^= 0xFF

	r, err := Open(bytes.NewReader(data), int64(len(data)), engine)
	require.NoError(t, err)

	_, err = r.ReadBlock(0)
	require.Error(t, err)
}
