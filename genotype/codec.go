package genotype

import (
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
)

// widths is the set of legal container primitive widths, in ascending
// order, used throughout the cost model.
var widths = [...]int{1, 2, 4, 8}

// Run is one run-length-encoded genotype group: Length consecutive diploid
// samples share AlleleA/AlleleB/Phase.
type Run struct {
	Length  int
	AlleleA int32
	AlleleB int32
	Phase   bool
}

// RunsFromCalls groups consecutive identical diploid calls (after
// permutation) into runs. Each Call must carry exactly two alleles.
func RunsFromCalls(calls []Call, aMax int) []Run {
	var runs []Run
	for _, c := range calls {
		a := remapAllele(c.Alleles[0], aMax)
		b := a
		if len(c.Alleles) > 1 {
			b = remapAllele(c.Alleles[1], aMax)
		}
		phase := len(c.Phase) > 1 && c.Phase[1]

		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if last.AlleleA == a && last.AlleleB == b && last.Phase == phase {
				last.Length++

				continue
			}
		}
		runs = append(runs, Run{Length: 1, AlleleA: a, AlleleB: b, Phase: phase})
	}

	return runs
}

// Stats summarizes the per-variant flags the cost model needs: whether any
// call carries a missing/EOV allele, and whether phase varies across calls.
type Stats struct {
	AnyMissing   bool
	MixedPhasing bool
	AlleleCount  int // A, the number of distinct alt+ref alleles at this site
}

// Cost is the result of evaluating all three encodings for one variant.
type Cost struct {
	Encoding format.GTEncoding
	Width    int // container primitive width in bytes
	NumRuns  int // words charged by the cost model: emitted runs for the RLE encodings, 2*N for BCF-packed (whose encoder emits N words)
}

// Choose evaluates the biallelic-RLE, n-allelic-RLE and BCF-packed
// encodings for one variant's runs and returns the cheapest by total byte
// cost, per spec's selection rules.
func Choose(runs []Run, n int, stats Stats) Cost {
	var best Cost
	haveBest := false

	if stats.AlleleCount <= 2 {
		if c, ok := biallelicCost(runs, stats); ok {
			best, haveBest = c, true
		}
	}

	if c, ok := nAllelicCost(runs, stats); ok {
		if !haveBest || c.NumRuns*c.Width < best.NumRuns*best.Width {
			best, haveBest = c, true
		}
	}

	bcf := bcfPackedCost(n, stats.AlleleCount)
	if !haveBest || bcf.NumRuns*bcf.Width < best.NumRuns*best.Width {
		best, haveBest = bcf, true
	}

	_ = haveBest

	return best
}

func missingBits(anyMissing bool) int {
	if anyMissing {
		return 2
	}

	return 1
}

func phaseBit(mixed bool) int {
	if mixed {
		return 1
	}

	return 0
}

func biallelicCost(runs []Run, stats Stats) (Cost, bool) {
	m := missingBits(stats.AnyMissing)
	p := phaseBit(stats.MixedPhasing)
	fixed := 2*m + p

	var best Cost
	found := false
	for _, w := range widths {
		maxLen := (1 << uint(8*w-fixed)) - 1
		if maxLen <= 0 {
			continue
		}

		numRuns := 0
		for _, r := range runs {
			numRuns += ceilDiv(r.Length, maxLen)
		}

		cost := numRuns * w
		if !found || cost < best.NumRuns*best.Width {
			best = Cost{Encoding: format.GTBiallelicRLE, Width: w, NumRuns: numRuns}
			found = true
		}
	}

	return best, found
}

func nAllelicCost(runs []Run, stats Stats) (Cost, bool) {
	shift := shiftFor(stats.AlleleCount)
	fixed := 2*shift + 1

	var best Cost
	found := false
	for _, w := range widths {
		maxLen := (1 << uint(8*w-fixed)) - 1
		if maxLen <= 0 {
			continue
		}

		numRuns := 0
		for _, r := range runs {
			numRuns += ceilDiv(r.Length, maxLen)
		}

		cost := numRuns * w
		if !found || cost < best.NumRuns*best.Width {
			best = Cost{Encoding: format.GTNAllelicRLE, Width: w, NumRuns: numRuns}
			found = true
		}
	}

	return best, found
}

// bcfPackedCost estimates the fixed per-sample packed width by reusing the
// n-allelic run header's bit cost (2*shift+1) as the per-sample-word bit
// budget, rounded up to the nearest legal container width. This reproduces
// the worked example in the archive's test scenarios (A=8 -> shift=4 ->
// 9 bits -> 2-byte words -> 2*N*2 bytes total).
func bcfPackedCost(n, alleleCount int) Cost {
	shift := shiftFor(alleleCount)
	bitsNeeded := 2*shift + 1
	w := roundWidth(ceilDiv(bitsNeeded, 8))

	return Cost{Encoding: format.GTBCFPacked, Width: w, NumRuns: 2 * n}
}

// shiftFor returns the bit width needed to hold every ordinary allele code
// (0..alleleCount-1) plus the two remapped sentinel codes (alleleCount and
// alleleCount+1) that remapAllele produces for missing/EOV.
func shiftFor(alleleCount int) int {
	return bitsNeeded(uint64(alleleCount) + 2)
}

func roundWidth(bytesNeeded int) int {
	for _, w := range widths {
		if w >= bytesNeeded {
			return w
		}
	}

	return widths[len(widths)-1]
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}

	return (a + b - 1) / b
}

// EncodeBiallelic packs runs into W-byte little-endian words:
// run_length<<(2m+p) | phase_bit<<2m | allele_b<<m | allele_a.
func EncodeBiallelic(runs []Run, width int, anyMissing, mixedPhasing bool) ([]uint64, error) {
	m := uint(missingBits(anyMissing))
	p := uint(phaseBit(mixedPhasing))
	maxLen := (1 << (8*uint(width) - (2*m + p))) - 1
	if maxLen <= 0 {
		return nil, errs.ErrImpossibleRunLength
	}

	var out []uint64
	for _, r := range runs {
		remaining := r.Length
		for remaining > 0 {
			chunk := remaining
			if chunk > maxLen {
				chunk = maxLen
			}
			var word uint64
			word |= uint64(r.AlleleA) & ((1 << m) - 1)
			word |= (uint64(r.AlleleB) & ((1 << m) - 1)) << m
			if mixedPhasing {
				phaseVal := uint64(0)
				if r.Phase {
					phaseVal = 1
				}
				word |= phaseVal << (2 * m)
			}
			word |= uint64(chunk) << (2*m + p)
			out = append(out, word)
			remaining -= chunk
		}
	}

	return out, nil
}

// EncodeNAllelic packs runs into W-byte words:
// run_length<<(2s+1) | allele_b<<(s+1) | allele_a<<1 | phase_bit.
func EncodeNAllelic(runs []Run, width, shift int) ([]uint64, error) {
	fixed := uint(2*shift + 1)
	maxLen := (1 << (8*uint(width) - fixed)) - 1
	if maxLen <= 0 {
		return nil, errs.ErrImpossibleRunLength
	}

	var out []uint64
	for _, r := range runs {
		remaining := r.Length
		for remaining > 0 {
			chunk := remaining
			if chunk > maxLen {
				chunk = maxLen
			}
			var word uint64
			if r.Phase {
				word |= 1
			}
			word |= uint64(r.AlleleA) << 1
			word |= uint64(r.AlleleB) << uint(shift+1)
			word |= uint64(chunk) << fixed
			out = append(out, word)
			remaining -= chunk
		}
	}

	return out, nil
}

// EncodeBCFPacked packs each sample's call (no run-length compression) as
// allele_b<<(W*4) | allele_a<<1 | phase_bit, sample-major.
func EncodeBCFPacked(calls []Call, width, aMax int) []uint64 {
	half := uint(width * 4)
	out := make([]uint64, 0, len(calls))
	for _, c := range calls {
		a := remapAllele(c.Alleles[0], aMax)
		b := a
		if len(c.Alleles) > 1 {
			b = remapAllele(c.Alleles[1], aMax)
		}
		phase := len(c.Phase) > 1 && c.Phase[1]

		var word uint64
		if phase {
			word |= 1
		}
		word |= uint64(a) << 1
		word |= uint64(b) << half
		out = append(out, word)
	}

	return out
}
