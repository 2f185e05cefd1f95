package container

import (
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
)

// HeaderSize is the fixed portion of a data container header, not counting
// the variable-length extra field.
//
//	controller(2) stride(2) offset(4) cLength(4) uLength(4) crc(4) n_extra(2)
const HeaderSize = 22

// StrideHeaderSize is the fixed portion of the optional stride sub-header,
// which omits stride and offset relative to the main header.
//
//	controller(2) cLength(4) uLength(4) crc(4) n_extra(2)
const StrideHeaderSize = 16

// Header is the on-disk prefix of one data container: everything the reader
// needs to locate, decompress and verify the payload without touching its
// contents.
type Header struct {
	Controller Controller
	// Stride is the fixed number of primitive values per logical entry, or
	// -1 when entries have heterogeneous strides (MixedStride is set on
	// Controller and the stride sub-stream carries per-entry values).
	Stride int16
	// Offset is serialized with the header, but this package always writes
	// it as zero; containers are located through the block footer's
	// StreamOffset table.
	Offset uint32
	// CLength is the compressed length in bytes.
	CLength uint32
	// ULength is the uncompressed length in bytes.
	ULength uint32
	// CRC is the CRC32 of the uncompressed payload.
	CRC uint32
	// Extra carries the keychain identifier (8 bytes, little/big-endian
	// per the container's engine) when Controller.Encrypted() is true,
	// and is empty otherwise.
	Extra []byte
}

// Bytes serializes the header using the given byte order.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HeaderSize+len(h.Extra))
	engine.PutUint16(b[0:2], uint16(h.Controller))
	engine.PutUint16(b[2:4], uint16(h.Stride))
	engine.PutUint32(b[4:8], h.Offset)
	engine.PutUint32(b[8:12], h.CLength)
	engine.PutUint32(b[12:16], h.ULength)
	engine.PutUint32(b[16:20], h.CRC)
	engine.PutUint16(b[20:22], uint16(len(h.Extra))) //nolint: gosec
	copy(b[22:], h.Extra)

	return b
}

// ParseHeader parses a Header (and its extra bytes) from data, returning the
// number of bytes consumed.
func ParseHeader(data []byte, engine endian.EndianEngine) (Header, int, error) {
	if len(data) < HeaderSize {
		return Header{}, 0, errs.ErrInvalidHeaderSize
	}

	h := Header{
		Controller: Controller(engine.Uint16(data[0:2])),
		Stride:     int16(engine.Uint16(data[2:4])),
		Offset:     engine.Uint32(data[4:8]),
		CLength:    engine.Uint32(data[8:12]),
		ULength:    engine.Uint32(data[12:16]),
		CRC:        engine.Uint32(data[16:20]),
	}

	nExtra := int(engine.Uint16(data[20:22]))
	if len(data) < HeaderSize+nExtra {
		return Header{}, 0, errs.ErrInvalidHeaderSize
	}
	if nExtra > 0 {
		h.Extra = append([]byte(nil), data[HeaderSize:HeaderSize+nExtra]...)
	}

	return h, HeaderSize + nExtra, nil
}

// StrideHeader is the on-disk prefix of a container's optional stride
// sub-stream, used only when Controller.MixedStride() is true.
type StrideHeader struct {
	Controller Controller
	CLength    uint32
	ULength    uint32
	CRC        uint32
	Extra      []byte
}

func (h *StrideHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, StrideHeaderSize+len(h.Extra))
	engine.PutUint16(b[0:2], uint16(h.Controller))
	engine.PutUint32(b[2:6], h.CLength)
	engine.PutUint32(b[6:10], h.ULength)
	engine.PutUint32(b[10:14], h.CRC)
	engine.PutUint16(b[14:16], uint16(len(h.Extra))) //nolint: gosec
	copy(b[16:], h.Extra)

	return b
}

func ParseStrideHeader(data []byte, engine endian.EndianEngine) (StrideHeader, int, error) {
	if len(data) < StrideHeaderSize {
		return StrideHeader{}, 0, errs.ErrInvalidHeaderSize
	}

	h := StrideHeader{
		Controller: Controller(engine.Uint16(data[0:2])),
		CLength:    engine.Uint32(data[2:6]),
		ULength:    engine.Uint32(data[6:10]),
		CRC:        engine.Uint32(data[10:14]),
	}

	nExtra := int(engine.Uint16(data[14:16]))
	if len(data) < StrideHeaderSize+nExtra {
		return StrideHeader{}, 0, errs.ErrInvalidHeaderSize
	}
	if nExtra > 0 {
		h.Extra = append([]byte(nil), data[StrideHeaderSize:StrideHeaderSize+nExtra]...)
	}

	return h, StrideHeaderSize + nExtra, nil
}
