package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGetEnginesReturnExpectedByteOrder covers the two engine constructors
// the rest of the module relies on for on-disk encoding.
func TestGetEnginesReturnExpectedByteOrder(t *testing.T) {
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
}

// TestCheckEndiannessMatchesNativeHelpers covers the invariant that exactly
// one of IsNativeLittleEndian/IsNativeBigEndian is true on any host, and
// that it agrees with CheckEndianness.
func TestCheckEndiannessMatchesNativeHelpers(t *testing.T) {
	native := CheckEndianness()
	require.Equal(t, native == binary.LittleEndian, IsNativeLittleEndian())
	require.Equal(t, native == binary.BigEndian, IsNativeBigEndian())
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
}

// TestCompareNativeEndian covers both outcomes of CompareNativeEndian
// against the two concrete engines, exactly one of which should match the
// host's native order.
func TestCompareNativeEndian(t *testing.T) {
	little := CompareNativeEndian(GetLittleEndianEngine())
	big := CompareNativeEndian(GetBigEndianEngine())
	require.NotEqual(t, little, big)
}
