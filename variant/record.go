// Package variant defines the Go shape of the external VCF/BCF reader
// contract spec.md treats as an out-of-scope collaborator: the archive
// engine consumes variant.Record values and a variant.Header describing
// the contigs, samples and INFO/FORMAT/FILTER key vocabulary, but performs
// no VCF/BCF text or binary parsing itself.
package variant

import "github.com/arloliu/tachyon/format"

// Contig is a named reference sequence with a base-pair length.
type Contig struct {
	ID     uint32
	Name   string
	Length uint64
	Blocks uint32
}

// MapEntry is one entry in the archive header's INFO/FORMAT/FILTER/CONTIG
// vocabulary: a string ID assigned an integer IDX for compact per-variant
// key references, its category, and its value type.
type MapEntry struct {
	ID       string
	IDX      int32
	Category format.FieldCategory
	Type     format.ValueType
}

// Header is the archive-level, write-once header: contigs, samples, and
// the map entries that assign integer IDX values to INFO/FORMAT/FILTER
// keys.
type Header struct {
	Contigs []Contig
	Samples []string
	Entries []MapEntry
}

// ByIDX indexes Entries by their IDX for O(1) lookup during ingestion.
func (h *Header) ByIDX() map[int32]MapEntry {
	out := make(map[int32]MapEntry, len(h.Entries))
	for _, e := range h.Entries {
		out[e.IDX] = e
	}

	return out
}

// FieldValue is one INFO or per-sample FORMAT field's typed payload for a
// single variant. Kind determines which of the slices is populated.
type FieldValue struct {
	Kind     format.ValueType
	Ints     []int32
	Floats   []float32
	Chars    []byte
	Strings  []string
}

// Call is one sample's FORMAT:GT genotype at a variant, using the same
// sentinel convention as the genotype package.
type Call struct {
	Alleles []int32
	Phase   []bool
}

// Record is one input variant as the external VCF/BCF reader supplies it:
// contig id, 0-based position, id string, alleles, quality, filter ids,
// and typed INFO/per-sample FORMAT payloads keyed by map IDX.
type Record struct {
	ContigID uint32
	Position uint64
	ID       string
	Ref      string
	Alt      []string
	Quality  float32
	Filters  []int32 // map IDX values

	Info   map[int32]FieldValue
	Format map[int32][]FieldValue // per-sample, indexed by sample position
	GT     []Call                 // per-sample genotype calls, nil if site has no GT
}
