// Package meta implements the per-variant Meta-Hot and Meta-Cold record
// layouts: the compact fixed-width stream every variant contributes to
// (Hot) and the variable-width stream holding id/allele strings and
// quality (Cold).
package meta

import (
	"github.com/arloliu/tachyon/endian"
)

// Allele nibble codes, per spec.md §6.
const (
	AlleleA      uint8 = 0
	AlleleT      uint8 = 1
	AlleleG      uint8 = 2
	AlleleC      uint8 = 3
	AlleleOther  uint8 = 4 // N: non-SNV or multi-character allele
)

// HotController packs the per-variant flags that accompany every Meta-Hot
// record: any-missing-GT, global-phase, any-NA-GT, mixed-phasing,
// biallelic, simple (SNV-only), rle-encoded, primitive-width class,
// diploid, mixed-ploidy.
type HotController uint16

const (
	hotAnyMissingGT  = 1 << 0
	hotGlobalPhase   = 1 << 1
	hotAnyNAGT       = 1 << 2
	hotMixedPhasing  = 1 << 3
	hotBiallelic     = 1 << 4
	hotSimple        = 1 << 5
	hotRLEEncoded    = 1 << 6
	hotDiploid       = 1 << 7
	hotMixedPloidy   = 1 << 8
	hotWidthShift    = 9
	hotWidthMask     = 0x3 // 2 bits: encodes {1,2,4,8} -> {0,1,2,3}
)

func boolBit(c *HotController, bit HotController, v bool) {
	if v {
		*c |= bit
	} else {
		*c &^= bit
	}
}

func (c HotController) AnyMissingGT() bool { return c&hotAnyMissingGT != 0 }
func (c *HotController) SetAnyMissingGT(v bool) { boolBit(c, hotAnyMissingGT, v) }

func (c HotController) GlobalPhase() bool { return c&hotGlobalPhase != 0 }
func (c *HotController) SetGlobalPhase(v bool) { boolBit(c, hotGlobalPhase, v) }

func (c HotController) AnyNAGT() bool { return c&hotAnyNAGT != 0 }
func (c *HotController) SetAnyNAGT(v bool) { boolBit(c, hotAnyNAGT, v) }

func (c HotController) MixedPhasing() bool { return c&hotMixedPhasing != 0 }
func (c *HotController) SetMixedPhasing(v bool) { boolBit(c, hotMixedPhasing, v) }

func (c HotController) Biallelic() bool { return c&hotBiallelic != 0 }
func (c *HotController) SetBiallelic(v bool) { boolBit(c, hotBiallelic, v) }

// Simple is set only when both ref and alt alleles have length 1 (a true
// SNV->SNV site); never inferred from any other condition.
func (c HotController) Simple() bool { return c&hotSimple != 0 }
func (c *HotController) SetSimple(v bool) { boolBit(c, hotSimple, v) }

func (c HotController) RLEEncoded() bool { return c&hotRLEEncoded != 0 }
func (c *HotController) SetRLEEncoded(v bool) { boolBit(c, hotRLEEncoded, v) }

func (c HotController) Diploid() bool { return c&hotDiploid != 0 }
func (c *HotController) SetDiploid(v bool) { boolBit(c, hotDiploid, v) }

func (c HotController) MixedPloidy() bool { return c&hotMixedPloidy != 0 }
func (c *HotController) SetMixedPloidy(v bool) { boolBit(c, hotMixedPloidy, v) }

// PrimitiveWidth returns the GT primitive width class in bytes: one of
// {1,2,4,8}.
func (c HotController) PrimitiveWidth() int {
	classes := [4]int{1, 2, 4, 8}

	return classes[(c>>hotWidthShift)&hotWidthMask]
}

func (c *HotController) SetPrimitiveWidth(width int) {
	var class HotController
	switch width {
	case 1:
		class = 0
	case 2:
		class = 1
	case 4:
		class = 2
	default:
		class = 3
	}
	*c &^= hotWidthMask << hotWidthShift
	*c |= class << hotWidthShift
}

// Hot is the fixed-width per-variant hot-meta record:
// controller(u16) || ref_alt(u8) || position(u32).
type Hot struct {
	Controller HotController
	RefAlt     uint8 // two packed 4-bit nibbles
	Position   uint32
}

// PackRefAlt packs two allele nibble codes into one byte, high nibble ref,
// low nibble alt.
func PackRefAlt(ref, alt uint8) uint8 {
	return (ref << 4) | (alt & 0x0F)
}

// UnpackRefAlt splits a packed ref/alt byte back into its two nibbles.
func UnpackRefAlt(b uint8) (ref, alt uint8) {
	return b >> 4, b & 0x0F
}

// NibbleForAllele maps a single-character allele string to its nibble code.
// Multi-character or unrecognized alleles map to AlleleOther.
func NibbleForAllele(allele string) uint8 {
	if len(allele) != 1 {
		return AlleleOther
	}
	switch allele[0] {
	case 'A', 'a':
		return AlleleA
	case 'T', 't':
		return AlleleT
	case 'G', 'g':
		return AlleleG
	case 'C', 'c':
		return AlleleC
	default:
		return AlleleOther
	}
}

const HotSize = 7 // controller(2) + ref_alt(1) + position(4)

func (h *Hot) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HotSize)
	engine.PutUint16(b[0:2], uint16(h.Controller))
	b[2] = h.RefAlt
	engine.PutUint32(b[3:7], h.Position)

	return b
}

func ParseHot(data []byte, engine endian.EndianEngine) Hot {
	return Hot{
		Controller: HotController(engine.Uint16(data[0:2])),
		RefAlt:     data[2],
		Position:   engine.Uint32(data[3:7]),
	}
}
