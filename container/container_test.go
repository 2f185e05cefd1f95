package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/buffer"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/format"
)

// TestSealDowncastsUniformI32 covers an INFO container receiving
// [42,42,42,42] as signed 32-bit: since every value is non-negative and
// no sentinel is present, Seal must downcast to the smallest unsigned
// width (U8, since 0 <= 42 <= 255) and collapse to a single uniform
// byte-width value, with CRC computed over exactly that truncated buffer.
func TestSealDowncastsUniformI32(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)

	for i := 0; i < 4; i++ {
		require.NoError(t, c.AppendI32(42))
	}

	require.NoError(t, c.Seal())

	require.True(t, c.Header.Controller.Uniform())
	require.Equal(t, format.U8, c.Header.Controller.PrimitiveType())
	require.False(t, c.Header.Controller.Signed())
	require.Equal(t, 1, c.data.Len())
	require.Equal(t, uint8(42), c.data.Bytes()[0])
	require.Equal(t, buffer.CRC32(c.data.Bytes()), c.Header.CRC)
}

// TestSealDowncastsSignedWithNegativeValue covers an INFO container that
// mixes negative and positive values: Seal must pick the signed downcast
// (unsigned can't represent negatives) at the smallest width that covers
// the range.
func TestSealDowncastsSignedWithNegativeValue(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)

	for _, v := range []int32{-5, 10, -1, 42} {
		require.NoError(t, c.AppendI32(v))
	}

	require.NoError(t, c.Seal())

	require.Equal(t, format.I8, c.Header.Controller.PrimitiveType())
	require.True(t, c.Header.Controller.Signed())
}

// TestSealDowncastsSignedWhenSentinelPresent covers an INFO container
// whose values are all non-negative but one sample carries a missing
// sentinel: the presence of a sentinel forces the signed downcast branch
// even though every real value is non-negative, since unsigned storage has
// no room for the sentinel encoding.
func TestSealDowncastsSignedWhenSentinelPresent(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)

	require.NoError(t, c.AppendI32(1))
	require.NoError(t, c.AppendI32(sentinelMissingI32))
	require.NoError(t, c.AppendI32(2))

	require.NoError(t, c.Seal())

	require.Equal(t, format.I8, c.Header.Controller.PrimitiveType())
	require.True(t, c.Header.Controller.Signed())
	require.Equal(t, int8(sentinelMissingI8), int8(c.data.Bytes()[1]))
}

// TestSealRejectsDoubleCall ensures Seal is a one-shot operation.
func TestSealRejectsDoubleCall(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)
	require.NoError(t, c.AppendI32(1))
	require.NoError(t, c.Seal())
	require.Error(t, c.Seal())
}

// TestSealEmptyContainerIsUniformBool covers the zero-entry edge case: an
// untouched container seals to the Bool/uniform/no-encoder sentinel state
// rather than attempting a downcast over zero values.
func TestSealEmptyContainerIsUniformBool(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)
	require.NoError(t, c.Seal())

	require.True(t, c.Header.Controller.Uniform())
	require.Equal(t, format.Bool, c.Header.Controller.PrimitiveType())
	require.Equal(t, format.EncoderNone, c.Header.Controller.EncoderID())
}

// TestSealWidensOutOfRangeValues covers values that don't fit the
// narrowest signed widths: downcast must pick the smallest width that
// covers the full observed range.
func TestSealWidensOutOfRangeValues(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c := New(engine, format.I32)
	require.NoError(t, c.AppendI32(-40000))
	require.NoError(t, c.AppendI32(100))
	require.NoError(t, c.Seal())

	require.Equal(t, format.I32, c.Header.Controller.PrimitiveType())
}
