// Package hash provides the 64-bit non-cryptographic hashing primitive used
// throughout the archive: pattern identification, uniform-container
// detection and genotype bucket keys all fold down to xxHash64.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given byte slice.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Uint64s computes the xxHash64 of a sequence of uint64 values, used to key
// INFO/FORMAT/FILTER key-set patterns and genotype run buckets by their
// packed representation rather than by re-hashing a derived byte slice.
func Uint64s(values []uint64) uint64 {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}

	return xxhash.Sum64(buf)
}
