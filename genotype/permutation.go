// Package genotype implements the two FORMAT:GT-specific components of the
// archive: the per-block sample Permutation Array and the per-variant
// Genotype Codec that picks among biallelic-RLE, n-allelic-RLE and
// BCF-packed encodings.
package genotype

import (
	"math/bits"

	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/internal/hash"
)

// Sentinel allele codes recognized in input Call.Alleles, matching the
// BCF convention the external VCF/BCF reader is expected to supply.
const (
	AlleleMissing int32 = -1
	AlleleEOV     int32 = -2
)

// Call is one sample's genotype at one variant: a ploidy-sized vector of
// allele codes (ordinary codes are 0..A-1; AlleleMissing/AlleleEOV are the
// two sentinels) and the phase bit recorded alongside each allele.
type Call struct {
	Alleles []int32
	Phase   []bool
}

// Record is one variant's full set of per-sample genotype calls, indexed by
// original sample position (not permuted); Sort looks calls up by sample ID.
type Record struct {
	Calls []Call
}

// bucket tracks the samples that hashed to the same packed representative
// within one record's reordering pass.
type bucket struct {
	repr    uint64
	samples []uint32
}

// Sort computes the Permutation Array P for a block: P[i] is the original
// sample index that should occupy position i so that samples with
// identical genotype patterns cluster together.
//
// maxAlleleCount is A_max, the largest alt+1 allele count observed across
// every diploid-or-higher FORMAT:GT record in the block (the caller
// computes this while scanning variants, since it is needed before the
// first call here).
func Sort(records []Record, n int, maxAlleleCount int) ([]uint32, error) {
	p := make([]uint32, n)
	for i := range p {
		p[i] = uint32(i) //nolint:gosec
	}

	if len(records) == 0 {
		return p, nil
	}

	pMax := 0
	for _, rec := range records {
		for _, c := range rec.Calls {
			if len(c.Alleles) > pMax {
				pMax = len(c.Alleles)
			}
		}
	}
	if pMax == 0 {
		return p, nil
	}

	aMax := maxAlleleCount
	w := bitsNeeded(uint64(((aMax + 2) << 1) + 1))
	if w*pMax > 64 {
		return nil, errs.ErrPloidyTooLarge
	}

	for _, rec := range records {
		p = reorderOnce(rec, p, aMax, w)
	}

	return p, nil
}

func reorderOnce(rec Record, p []uint32, aMax, w int) []uint32 {
	buckets := make(map[uint64]*bucket)
	order := make([]uint64, 0, len(p))

	for _, sampleID := range p {
		var call Call
		if int(sampleID) < len(rec.Calls) {
			call = rec.Calls[sampleID]
		}

		var repr uint64
		for slot, allele := range call.Alleles {
			remapped := remapAllele(allele, aMax)
			phase := uint64(0)
			if slot < len(call.Phase) && call.Phase[slot] {
				phase = 1
			}
			code := (uint64(remapped) << 1) | phase
			repr = (repr << uint(w)) | (code & ((1 << uint(w)) - 1))
		}

		h := hash.Uint64s([]uint64{repr})
		b, ok := buckets[h]
		if !ok {
			b = &bucket{repr: repr}
			buckets[h] = b
			order = append(order, h)
		}
		b.samples = append(b.samples, sampleID)
	}

	// sort bucket keys by packed representative ascending
	sortedKeys := make([]uint64, len(order))
	copy(sortedKeys, order)
	for i := 1; i < len(sortedKeys); i++ {
		for j := i; j > 0 && buckets[sortedKeys[j-1]].repr > buckets[sortedKeys[j]].repr; j-- {
			sortedKeys[j-1], sortedKeys[j] = sortedKeys[j], sortedKeys[j-1]
		}
	}

	out := make([]uint32, 0, len(p))
	for _, key := range sortedKeys {
		out = append(out, buckets[key].samples...)
	}

	return out
}

// remapAllele maps "missing" to aMax and "end-of-vector" to aMax+1, the two
// codes immediately above the largest real allele index (aMax-1, since real
// codes run 0..aMax-1 for a site with aMax distinct alleles). Both sentinels
// therefore sort after every ordinary allele code without colliding with the
// site's last real allele.
func remapAllele(allele int32, aMax int) int32 {
	switch allele {
	case AlleleMissing:
		return int32(aMax) //nolint:gosec
	case AlleleEOV:
		return int32(aMax + 1) //nolint:gosec
	default:
		return allele
	}
}

func bitsNeeded(v uint64) int {
	if v <= 1 {
		return 1
	}

	return bits.Len64(v - 1)
}

// PackedWidth returns the byte width, rounded up to {1,2,4,8}, needed to
// store N distinct permutation indices.
func PackedWidth(n int) int {
	bitsN := bitsNeeded(uint64(n) + 1)
	bytesN := (bitsN + 7) / 8
	switch {
	case bytesN <= 1:
		return 1
	case bytesN <= 2:
		return 2
	case bytesN <= 4:
		return 4
	default:
		return 8
	}
}
