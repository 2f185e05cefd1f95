// Package compress provides the byte-stream codec capability that the block
// storage engine treats as an external collaborator: every INFO/FORMAT data
// container's sealed payload is pushed through one of these before it
// reaches disk.
//
// The engine itself never picks a compressor based on content; block.Flush
// is handed one Codec and its format.CompressionType and applies them to
// each INFO/FORMAT container. The permutation, meta and genotype streams are
// written uncompressed.
package compress

import (
	"fmt"

	"github.com/arloliu/tachyon/format"
)

// Compressor compresses a sealed, uncompressed container payload.
type Compressor interface {
	// Compress compresses data and returns newly allocated output. The
	// input slice is never modified or retained.
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor.
type Decompressor interface {
	// Decompress restores data previously produced by the matching
	// Compressor. Returns an error if data is corrupt or truncated.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Containers carry only a CompressionType
// tag; the codec manager resolves it to a Codec at seal/read time so the
// container itself never depends on a concrete compression library.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec constructs a fresh Codec for the given compression type. Use
// GetCodec instead when a shared, stateless instance is sufficient, which is
// the common case since these codecs hold no per-call state.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the given compression
// type. All built-in codecs are stateless and safe for concurrent use, which
// is what lets the block writer compress sibling containers from multiple
// worker goroutines without per-goroutine codec instances.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
