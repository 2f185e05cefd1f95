package genotype

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/format"
)

// TestRunsFromCallsAndBiallelicSelection covers N=4, genotypes
// [0|0, 0|0, 0|1, 1|1], no missing, uniform phase: the codec must choose
// biallelic-RLE at 1-byte width with exactly three runs.
func TestRunsFromCallsAndBiallelicSelection(t *testing.T) {
	calls := []Call{
		call(0, 0, true, true),
		call(0, 0, true, true),
		call(0, 1, true, true),
		call(1, 1, true, true),
	}

	runs := RunsFromCalls(calls, 2)
	require.Equal(t, []Run{
		{Length: 2, AlleleA: 0, AlleleB: 0, Phase: true},
		{Length: 1, AlleleA: 0, AlleleB: 1, Phase: true},
		{Length: 1, AlleleA: 1, AlleleB: 1, Phase: true},
	}, runs)

	cost := Choose(runs, 4, Stats{AnyMissing: false, MixedPhasing: false, AlleleCount: 2})
	require.Equal(t, format.GTBiallelicRLE, cost.Encoding)
	require.Equal(t, 1, cost.Width)
	require.Equal(t, 3, cost.NumRuns)

	words, err := EncodeBiallelic(runs, cost.Width, false, false)
	require.NoError(t, err)
	require.Equal(t, []uint64{8, 6, 7}, words)
}

// TestNAllelicShiftForEightAlleles covers the A=8 worked example: shift=4,
// per-run header cost 2*4+1=9 bits, and (at width=2, no run compression)
// the n-allelic encoding beats the fixed 2*N*2-byte BCF-packed cost.
func TestNAllelicShiftForEightAlleles(t *testing.T) {
	require.Equal(t, 4, shiftFor(8))

	n := 100
	runs := make([]Run, n)
	for i := range runs {
		runs[i] = Run{Length: 1, AlleleA: int32(i % 8), AlleleB: int32((i + 1) % 8)}
	}

	cost := Choose(runs, n, Stats{AlleleCount: 8})
	require.Equal(t, format.GTNAllelicRLE, cost.Encoding)
	require.Equal(t, 2, cost.Width)
	require.Equal(t, n, cost.NumRuns)
	require.Less(t, cost.NumRuns*cost.Width, 2*n*2)
}

// TestBCFPackedCostFormula pins down the fixed per-sample cost formula
// used when BCF-packed wins: width rounds 9 bits up to 2 bytes, and total
// cost is 2*N*width.
func TestBCFPackedCostFormula(t *testing.T) {
	cost := bcfPackedCost(100, 8)
	require.Equal(t, format.GTBCFPacked, cost.Encoding)
	require.Equal(t, 2, cost.Width)
	require.Equal(t, 200, cost.NumRuns)
	require.Equal(t, 400, cost.NumRuns*cost.Width)
}

func TestEncodeNAllelicRoundTripsShift(t *testing.T) {
	runs := []Run{{Length: 3, AlleleA: 5, AlleleB: 7, Phase: true}}
	words, err := EncodeNAllelic(runs, 2, 4)
	require.NoError(t, err)
	require.Len(t, words, 1)

	word := words[0]
	require.Equal(t, uint64(1), word&1)
	require.Equal(t, uint64(5), (word>>1)&0xF)
	require.Equal(t, uint64(7), (word>>5)&0xF)
	require.Equal(t, uint64(3), word>>9)
}

// TestRunsFromCallsRemapsMissingAboveRealAlleles covers a biallelic site
// (aMax=2, real codes 0,1) where one sample is missing: the missing call
// must remap to aMax (2), not aMax-1 (1), so it never collides with the
// real ALT/ALT homozygous run.
func TestRunsFromCallsRemapsMissingAboveRealAlleles(t *testing.T) {
	calls := []Call{
		call(1, 1, true, true),
		call(AlleleMissing, AlleleMissing, true, true),
		call(AlleleMissing, AlleleEOV, true, true),
	}

	runs := RunsFromCalls(calls, 2)
	require.Equal(t, []Run{
		{Length: 1, AlleleA: 1, AlleleB: 1, Phase: true},
		{Length: 1, AlleleA: 2, AlleleB: 2, Phase: true},
		{Length: 1, AlleleA: 2, AlleleB: 3, Phase: true},
	}, runs)
}

func TestEncodeBCFPackedSampleMajor(t *testing.T) {
	calls := []Call{call(1, 2, false, true), call(0, 0, false, false)}
	words := EncodeBCFPacked(calls, 1, 8)
	require.Len(t, words, 2)
	require.Equal(t, uint64(1)|uint64(1)<<1|uint64(2)<<4, words[0])
	require.Equal(t, uint64(0), words[1])
}
