package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPrimitiveTypeWidthAndSigned covers the width/signedness table the
// container downcast logic depends on.
func TestPrimitiveTypeWidthAndSigned(t *testing.T) {
	cases := []struct {
		p      PrimitiveType
		width  int
		signed bool
	}{
		{U8, 1, false}, {I8, 1, true},
		{U16, 2, false}, {I16, 2, true},
		{U32, 4, false}, {I32, 4, true}, {F32, 4, false},
		{U64, 8, false}, {I64, 8, true}, {F64, 8, false},
		{Bool, 0, false},
	}

	for _, c := range cases {
		require.Equal(t, c.width, c.p.Width(), c.p.String())
		require.Equal(t, c.signed, c.p.Signed(), c.p.String())
	}
}

// TestCompressionTypeToEncoderID covers the many-to-one mapping: S2 and LZ4
// both travel under the Zstd encoder slot at the container-header level.
func TestCompressionTypeToEncoderID(t *testing.T) {
	require.Equal(t, EncoderNone, CompressionNone.ToEncoderID())
	require.Equal(t, EncoderZstd, CompressionZstd.ToEncoderID())
	require.Equal(t, EncoderZstd, CompressionS2.ToEncoderID())
	require.Equal(t, EncoderZstd, CompressionLZ4.ToEncoderID())
}

// TestFieldCategoryString covers the four header map categories.
func TestFieldCategoryString(t *testing.T) {
	require.Equal(t, "INFO", CategoryInfo.String())
	require.Equal(t, "FORMAT", CategoryFormat.String())
	require.Equal(t, "FILTER", CategoryFilter.String())
	require.Equal(t, "CONTIG", CategoryContig.String())
}

// TestUnknownEnumValuesStringAsUnknown covers the default branch of every
// String() method for an out-of-range value.
func TestUnknownEnumValuesStringAsUnknown(t *testing.T) {
	require.Equal(t, "Unknown", PrimitiveType(200).String())
	require.Equal(t, "Unknown", EncoderID(200).String())
	require.Equal(t, "Unknown", CompressionType(200).String())
	require.Equal(t, "Unknown", EncryptionID(200).String())
	require.Equal(t, "Unknown", ValueType(200).String())
	require.Equal(t, "Unknown", FieldCategory(200).String())
	require.Equal(t, "Unknown", GTEncoding(200).String())
}
