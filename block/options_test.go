package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/endian"
)

// TestWithVariantCapacityHintPreallocatesSlices covers the functional
// option's effect: the block's per-variant slices must start at zero
// length but with the requested capacity, and a non-positive hint must
// leave the default nil slices untouched.
func TestWithVariantCapacityHintPreallocatesSlices(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	blk := Init(engine, testHeader(), 0, 0, 0, false, WithVariantCapacityHint(64))
	require.Equal(t, 0, len(blk.hot))
	require.GreaterOrEqual(t, cap(blk.hot), 64)
	require.GreaterOrEqual(t, cap(blk.cold), 64)
	require.GreaterOrEqual(t, cap(blk.gtRecords), 64)

	plain := Init(engine, testHeader(), 0, 0, 0, false, WithVariantCapacityHint(0))
	require.Nil(t, plain.hot)
}
