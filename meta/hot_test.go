package meta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/endian"
)

// TestHotBytesParseRoundTrip covers the fixed-width hot record's wire
// layout: controller(u16) || ref_alt(u8) || position(u32).
func TestHotBytesParseRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	var ctrl HotController
	ctrl.SetBiallelic(true)
	ctrl.SetSimple(true)
	ctrl.SetDiploid(true)
	ctrl.SetPrimitiveWidth(2)

	h := Hot{
		Controller: ctrl,
		RefAlt:     PackRefAlt(AlleleA, AlleleG),
		Position:   123456,
	}

	data := h.Bytes(engine)
	require.Len(t, data, HotSize)

	got := ParseHot(data, engine)
	require.Equal(t, h, got)
	require.True(t, got.Controller.Biallelic())
	require.True(t, got.Controller.Simple())
	require.True(t, got.Controller.Diploid())
	require.Equal(t, 2, got.Controller.PrimitiveWidth())
	require.False(t, got.Controller.MixedPloidy())
}

// TestPackRefAltUnpackRoundTrip covers the ref/alt nibble packing used by
// the simple-SNV fast path.
func TestPackRefAltUnpackRoundTrip(t *testing.T) {
	packed := PackRefAlt(AlleleG, AlleleC)
	ref, alt := UnpackRefAlt(packed)
	require.Equal(t, AlleleG, ref)
	require.Equal(t, AlleleC, alt)
}

// TestNibbleForAllele covers the single-character mapping and the
// multi-character/unknown fallback to AlleleOther.
func TestNibbleForAllele(t *testing.T) {
	require.Equal(t, AlleleA, NibbleForAllele("A"))
	require.Equal(t, AlleleT, NibbleForAllele("t"))
	require.Equal(t, AlleleG, NibbleForAllele("G"))
	require.Equal(t, AlleleC, NibbleForAllele("c"))
	require.Equal(t, AlleleOther, NibbleForAllele("N"))
	require.Equal(t, AlleleOther, NibbleForAllele("AT"))
}

// TestSetPrimitiveWidthRoundTripsAllClasses covers every width class the
// 2-bit field can express.
func TestSetPrimitiveWidthRoundTripsAllClasses(t *testing.T) {
	var ctrl HotController
	for _, width := range []int{1, 2, 4, 8} {
		ctrl.SetPrimitiveWidth(width)
		require.Equal(t, width, ctrl.PrimitiveWidth())
	}
}
