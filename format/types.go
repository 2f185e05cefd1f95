// Package format defines the small enumerations shared by every layer of the
// tachyon archive format: primitive wire types, container encoders, stream
// compressors and container ciphers. Keeping them in one leaf package avoids
// import cycles between buffer, container, block and archive.
package format

// PrimitiveType identifies the physical width and interpretation of the values
// stored in a data container. It is the tagged-variant replacement for the
// original implementation's per-type template instantiation.
type PrimitiveType uint8

const (
	U8     PrimitiveType = 0
	U16    PrimitiveType = 1
	U32    PrimitiveType = 2
	U64    PrimitiveType = 3
	I8     PrimitiveType = 4
	I16    PrimitiveType = 5
	I32    PrimitiveType = 6
	I64    PrimitiveType = 7
	F32    PrimitiveType = 8
	F64    PrimitiveType = 9
	Bool   PrimitiveType = 10
	Char   PrimitiveType = 11
	Struct PrimitiveType = 12
)

// Width returns the byte width of a single logical value of this primitive
// type. Bool and Struct have no fixed width: Bool carries zero data bytes by
// definition, Struct is mixed and callers must consult the container's stride.
func (p PrimitiveType) Width() int {
	switch p {
	case U8, I8, Char:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	case Bool:
		return 0
	default:
		return -1
	}
}

func (p PrimitiveType) Signed() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (p PrimitiveType) String() string {
	switch p {
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case Bool:
		return "Bool"
	case Char:
		return "Char"
	case Struct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// EncoderID identifies the byte-stream codec applied to a container's
// payload during seal. NONE means the compressed bytes equal the
// uncompressed bytes verbatim.
type EncoderID uint8

const (
	EncoderNone EncoderID = 0
	EncoderZstd EncoderID = 1
)

func (e EncoderID) String() string {
	switch e {
	case EncoderNone:
		return "None"
	case EncoderZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// CompressionType selects the concrete Codec implementation used by the
// codec manager. It is a superset of EncoderID because the engine also
// supports S2 and LZ4 as alternates to Zstd for the same container slot.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0
	CompressionZstd CompressionType = 1
	CompressionS2   CompressionType = 2
	CompressionLZ4  CompressionType = 3
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ToEncoderID maps a compression selection onto the 5-bit EncoderID stored
// in the container header's controller. S2 and LZ4 both travel under the
// Zstd encoder slot at the container-header level because the controller
// only records whether *some* entropy coder ran; the concrete algorithm is
// a codec-manager-level configuration, not a per-container fact, mirroring
// how the original format recorded a single generic "compressed" bit.
func (c CompressionType) ToEncoderID() EncoderID {
	if c == CompressionNone {
		return EncoderNone
	}

	return EncoderZstd
}

// EncryptionID identifies the cipher, if any, applied to a container's data
// bytes after sealing.
type EncryptionID uint8

const (
	EncryptionNone   EncryptionID = 0
	EncryptionAES128 EncryptionID = 1
	EncryptionAES256 EncryptionID = 2
	EncryptionRSA4096 EncryptionID = 3
)

func (e EncryptionID) String() string {
	switch e {
	case EncryptionNone:
		return "None"
	case EncryptionAES128:
		return "AES-128"
	case EncryptionAES256:
		return "AES-256"
	case EncryptionRSA4096:
		return "RSA-4096"
	default:
		return "Unknown"
	}
}

// ValueType identifies the VCF-level semantic type of an INFO/FORMAT field,
// as carried in the archive header's map entries. This is distinct from
// PrimitiveType, which describes the physical on-disk encoding a container
// settled on after down-casting.
type ValueType uint8

const (
	ValueInteger   ValueType = 0
	ValueFloat     ValueType = 1
	ValueFlag      ValueType = 2
	ValueCharacter ValueType = 3
	ValueString    ValueType = 4
)

func (v ValueType) String() string {
	switch v {
	case ValueInteger:
		return "Integer"
	case ValueFloat:
		return "Float"
	case ValueFlag:
		return "Flag"
	case ValueCharacter:
		return "Character"
	case ValueString:
		return "String"
	default:
		return "Unknown"
	}
}

// FieldCategory identifies which header map a key belongs to.
type FieldCategory uint8

const (
	CategoryInfo FieldCategory = iota
	CategoryFormat
	CategoryFilter
	CategoryContig
)

func (c FieldCategory) String() string {
	switch c {
	case CategoryInfo:
		return "INFO"
	case CategoryFormat:
		return "FORMAT"
	case CategoryFilter:
		return "FILTER"
	case CategoryContig:
		return "CONTIG"
	default:
		return "Unknown"
	}
}

// GTEncoding identifies which of the three genotype encodings a variant's
// FORMAT:GT stream used, as recorded in the GT support stream.
type GTEncoding uint8

const (
	GTBiallelicRLE GTEncoding = 0
	GTNAllelicRLE  GTEncoding = 1
	GTBCFPacked    GTEncoding = 2
)

func (g GTEncoding) String() string {
	switch g {
	case GTBiallelicRLE:
		return "BiallelicRLE"
	case GTNAllelicRLE:
		return "NAllelicRLE"
	case GTBCFPacked:
		return "BCFPacked"
	default:
		return "Unknown"
	}
}
