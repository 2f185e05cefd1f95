package compress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/format"
)

// TestCreateCodecRoundTrip covers every built-in compression type: each
// codec must compress then decompress back to the original bytes.
func TestCreateCodecRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err, ct.String())

		compressed, err := codec.Compress(payload)
		require.NoError(t, err, ct.String())

		got, err := codec.Decompress(compressed)
		require.NoError(t, err, ct.String())
		require.Equal(t, payload, got, ct.String())
	}
}

// TestCreateCodecRejectsUnknownType covers the error path for a
// compression type with no registered codec.
func TestCreateCodecRejectsUnknownType(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(99), "test")
	require.Error(t, err)
}

// TestGetCodecReturnsSharedInstance covers the stateless shared-codec
// lookup used by concurrent container flushing.
func TestGetCodecReturnsSharedInstance(t *testing.T) {
	codec, err := GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = GetCodec(format.CompressionType(99))
	require.Error(t, err)
}
