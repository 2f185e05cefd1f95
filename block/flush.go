package block

import (
	"github.com/arloliu/tachyon/compress"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/genotype"
	"github.com/arloliu/tachyon/keychain"
)

// Flush seals every accumulated container, encodes the genotype streams,
// assembles the INFO/FORMAT/FILTER pattern matrices, compresses (and, when
// kc is non-nil, encrypts) each INFO/FORMAT container with codec, and
// serializes the whole block: permutation ∥ meta-hot ∥ meta-cold ∥ GT-RLE ∥
// GT-BCF ∥ GT-support ∥ GT-stride ∥ each INFO container ∥ each FORMAT
// container ∥ footer ∥ BlockEOF. The permutation, meta-hot, meta-cold and
// GT streams are written uncompressed and unencrypted. The block
// transitions Accumulating -> Sealed -> Serialized and cannot be flushed
// again.
func (b *Block) Flush(codec compress.Codec, compressionType format.CompressionType, kc *keychain.Keychain) ([]byte, *Footer, error) {
	if b.state != Accumulating {
		return nil, nil, errs.ErrBlockNotAccumulating
	}
	if len(b.hot) == 0 {
		return nil, nil, errs.ErrNoVariantsAdded
	}

	b.state = Sealed

	n := len(b.header.Samples)
	perm, err := b.derivePermutation(n)
	if err != nil {
		return nil, nil, err
	}

	var footer Footer
	footer.Controller.SetHasGTPermuted(b.anyGT && b.permute)
	footer.VariantCount = uint32(len(b.hot)) //nolint:gosec

	var body []byte
	var off uint32

	appendSection := func(data []byte) (uint32, uint32) {
		o := off
		body = append(body, data...)
		off += uint32(len(data)) //nolint:gosec

		return o, uint32(len(data)) //nolint:gosec
	}

	permBytes := encodePermutation(perm, genotype.PackedWidth(n), b.engine)
	footer.PermutationOffset, footer.PermutationLength = appendSection(permBytes)

	var hotBytes []byte
	for i := range b.hot {
		hotBytes = append(hotBytes, b.hot[i].Bytes(b.engine)...)
	}
	footer.HotOffset, footer.HotLength = appendSection(hotBytes)

	var coldBytes []byte
	for i := range b.cold {
		cb, err := b.cold[i].Bytes(b.engine)
		if err != nil {
			return nil, nil, err
		}
		coldBytes = append(coldBytes, cb...)
	}
	footer.ColdOffset, footer.ColdLength = appendSection(coldBytes)

	rleWords, bcfWords, support, strides, err := b.encodeGenotypes(perm)
	if err != nil {
		return nil, nil, err
	}
	footer.GTRLEOffset, footer.GTRLELength = appendSection(rleWords)
	footer.GTBCFOffset, footer.GTBCFLength = appendSection(bcfWords)
	footer.GTSupportOffset, footer.GTSupportLength = appendSection(support)
	footer.GTStrideOffset, footer.GTStrideLength = appendSection(strides)

	infoOffsets, err := b.flushKeyStream(b.info, codec, compressionType, kc, appendSection)
	if err != nil {
		return nil, nil, err
	}
	footer.InfoStreams = infoOffsets

	formatOffsets, err := b.flushKeyStream(b.format, codec, compressionType, kc, appendSection)
	if err != nil {
		return nil, nil, err
	}
	footer.FormatStreams = formatOffsets

	globalInfoKeys := b.infoPatterns.GlobalKeys()
	infoRows, _ := b.infoPatterns.Matrix(globalInfoKeys)
	footer.InfoPatterns = toPatternEntries(globalInfoKeys, infoRows)

	globalFormatKeys := b.formatPatterns.GlobalKeys()
	formatRows, _ := b.formatPatterns.Matrix(globalFormatKeys)
	footer.FormatPatterns = toPatternEntries(globalFormatKeys, formatRows)

	globalFilterKeys := b.filterPatterns.GlobalKeys()
	filterRows, _ := b.filterPatterns.Matrix(globalFilterKeys)
	footer.FilterPatterns = toPatternEntries(globalFilterKeys, filterRows)

	footerBytes := footer.Bytes(b.engine)
	footer.EndOffset = uint64(len(body)) + uint64(len(footerBytes)) + uint64(len(BlockEOF))

	// EndOffset is part of the footer's own trailing field, so it must be
	// recomputed and re-serialized once its own length is known.
	footerBytes = footer.Bytes(b.engine)

	out := make([]byte, 0, len(body)+len(footerBytes)+len(BlockEOF))
	out = append(out, body...)
	out = append(out, footerBytes...)
	out = append(out, BlockEOF[:]...)

	b.state = Serialized

	return out, &footer, nil
}

func (b *Block) derivePermutation(n int) ([]uint32, error) {
	if b.permute && b.anyGT && n > 0 {
		return genotype.Sort(b.gtRecords, n, b.gtAlleleMax)
	}

	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i) //nolint:gosec
	}

	return perm, nil
}

func encodePermutation(perm []uint32, width int, engine endian.EndianEngine) []byte {
	out := make([]byte, 0, len(perm)*width)
	for _, v := range perm {
		out = appendWord(out, engine, width, uint64(v))
	}

	return out
}

func appendWord(buf []byte, engine endian.EndianEngine, width int, v uint64) []byte {
	switch width {
	case 1:
		return append(buf, byte(v))
	case 2:
		var tmp [2]byte
		engine.PutUint16(tmp[:], uint16(v))

		return append(buf, tmp[:]...)
	case 4:
		var tmp [4]byte
		engine.PutUint32(tmp[:], uint32(v))

		return append(buf, tmp[:]...)
	default:
		var tmp [8]byte
		engine.PutUint64(tmp[:], v)

		return append(buf, tmp[:]...)
	}
}

// widthClass maps a legal container width to its 2-bit support-stream class.
func widthClass(w int) uint8 {
	switch w {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	default:
		return 3
	}
}

// encodeGenotypes runs the per-variant genotype codec over every GT record
// (in permuted sample order), returning the concatenated RLE words, BCF-packed
// words, one support byte per record, and one stride (run/sample count) per
// record. Variants that carried no FORMAT:GT contribute nothing to any of
// the four streams.
func (b *Block) encodeGenotypes(perm []uint32) (rle, bcf, support, strides []byte, err error) {
	for i, rec := range b.gtRecords {
		permuted := permuteCalls(rec.Calls, perm)
		aMax := b.gtAlleleCounts[i]

		stats := gtStats(permuted, aMax)
		runs := genotype.RunsFromCalls(permuted, aMax)
		cost := genotype.Choose(runs, len(permuted), stats)

		supportByte := uint8(cost.Encoding)<<2 | widthClass(cost.Width) //nolint:gosec
		support = append(support, supportByte)

		var strideVal uint32
		switch cost.Encoding {
		case format.GTBiallelicRLE:
			words, encErr := genotype.EncodeBiallelic(runs, cost.Width, stats.AnyMissing, stats.MixedPhasing)
			if encErr != nil {
				return nil, nil, nil, nil, encErr
			}
			for _, w := range words {
				rle = appendWord(rle, b.engine, cost.Width, w)
			}
			strideVal = uint32(len(words)) //nolint:gosec
		case format.GTNAllelicRLE:
			shift := bitsNeededForAlleles(aMax)
			words, encErr := genotype.EncodeNAllelic(runs, cost.Width, shift)
			if encErr != nil {
				return nil, nil, nil, nil, encErr
			}
			for _, w := range words {
				rle = appendWord(rle, b.engine, cost.Width, w)
			}
			strideVal = uint32(len(words)) //nolint:gosec
		default: // GTBCFPacked
			words := genotype.EncodeBCFPacked(permuted, cost.Width, aMax)
			for _, w := range words {
				bcf = appendWord(bcf, b.engine, cost.Width, w)
			}
			strideVal = uint32(len(words)) //nolint:gosec
		}

		strides = appendWord(strides, b.engine, 4, uint64(strideVal))
	}

	return rle, bcf, support, strides, nil
}

// bitsNeededForAlleles mirrors genotype.shiftFor: it must reserve room for
// the two remapped sentinel codes (aMax, aMax+1) above the real allele
// codes (0..aMax-1), matching whatever shift genotype.Choose assumed when
// costing the n-allelic encoding.
func bitsNeededForAlleles(aMax int) int {
	n := uint64(aMax) + 2
	shift := 0
	for (uint64(1) << uint(shift)) < n {
		shift++
	}
	if shift == 0 {
		shift = 1
	}

	return shift
}

func permuteCalls(calls []genotype.Call, perm []uint32) []genotype.Call {
	out := make([]genotype.Call, len(perm))
	for i, sampleID := range perm {
		if int(sampleID) < len(calls) {
			out[i] = calls[sampleID]
		}
	}

	return out
}

func gtStats(calls []genotype.Call, aMax int) genotype.Stats {
	var stats genotype.Stats
	stats.AlleleCount = aMax

	var firstPhase *bool
	for _, c := range calls {
		for _, a := range c.Alleles {
			if a == genotype.AlleleMissing || a == genotype.AlleleEOV {
				stats.AnyMissing = true
			}
		}
		if len(c.Phase) > 1 {
			p := c.Phase[1]
			if firstPhase == nil {
				firstPhase = &p
			} else if *firstPhase != p {
				stats.MixedPhasing = true
			}
		}
	}

	return stats
}

// flushKeyStream seals, compresses and (optionally) encrypts every container
// in ks, appending each via appendSection and recording its key id and
// region in a StreamOffset, in the key stream's first-seen key order.
func (b *Block) flushKeyStream(ks *keyStream, codec compress.Codec, compressionType format.CompressionType, kc *keychain.Keychain, appendSection func([]byte) (uint32, uint32)) ([]StreamOffset, error) {
	offsets := make([]StreamOffset, 0, len(ks.order))
	for _, key := range ks.order {
		c := ks.containers[key]
		serialized, err := sealAndSerialize(c, b.engine, codec, compressionType, kc)
		if err != nil {
			return nil, err
		}
		o, l := appendSection(serialized)
		offsets = append(offsets, StreamOffset{Key: key, Offset: o, Length: l})
		c.Release()
	}

	return offsets, nil
}

func toPatternEntries(keys []int32, rows [][]byte) []PatternEntry {
	out := make([]PatternEntry, len(rows))
	for i, row := range rows {
		out[i] = PatternEntry{Keys: keys, Bits: row}
	}

	return out
}
