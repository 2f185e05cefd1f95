package meta

import (
	"math"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
)

// Cold is the variable-width per-variant cold-meta record:
// body_length(u32) || quality(f32) || n_alleles(u16) || n_id(u16) ||
// id_bytes[n_id] || (u16 l, bytes[l]) × n_alleles.
//
// BodyLength is recomputed by Bytes and is not meaningful on a Cold value
// the caller is still building.
type Cold struct {
	BodyLength uint32
	Quality    float32
	ID         string
	Alleles    []string
}

// maxAlleles is the largest allele count accepted in the u16 allele count
// field; exceeding it is a corruption/oversize condition on both write and
// read.
const maxAlleles = 32767

// Bytes serializes the record, recomputing BodyLength.
func (c *Cold) Bytes(engine endian.EndianEngine) ([]byte, error) {
	if len(c.Alleles) > maxAlleles {
		return nil, errs.ErrTooManyAlleles
	}

	body := make([]byte, 0, 4+2+2+len(c.ID))
	var tmp [4]byte
	engine.PutUint32(tmp[:], math.Float32bits(c.Quality))
	body = append(body, tmp[:]...)

	var tmp2 [2]byte
	engine.PutUint16(tmp2[:], uint16(len(c.Alleles))) //nolint:gosec
	body = append(body, tmp2[:]...)
	engine.PutUint16(tmp2[:], uint16(len(c.ID)))
	body = append(body, tmp2[:]...)
	body = append(body, []byte(c.ID)...)

	for _, a := range c.Alleles {
		engine.PutUint16(tmp2[:], uint16(len(a))) //nolint:gosec
		body = append(body, tmp2[:]...)
		body = append(body, []byte(a)...)
	}

	out := make([]byte, 4, 4+len(body))
	engine.PutUint32(out[0:4], uint32(len(body))) //nolint:gosec
	out = append(out, body...)

	return out, nil
}

// ParseCold parses one Cold record starting at data[0], returning the
// number of bytes consumed.
func ParseCold(data []byte, engine endian.EndianEngine) (Cold, int, error) {
	if len(data) < 4 {
		return Cold{}, 0, errs.ErrTruncatedStream
	}
	bodyLen := engine.Uint32(data[0:4])
	total := 4 + int(bodyLen)
	if len(data) < total {
		return Cold{}, 0, errs.ErrTruncatedStream
	}

	body := data[4:total]
	if len(body) < 8 {
		return Cold{}, 0, errs.ErrTruncatedStream
	}

	c := Cold{BodyLength: bodyLen}
	c.Quality = math.Float32frombits(engine.Uint32(body[0:4]))
	nAlleles := int(engine.Uint16(body[4:6]))
	if nAlleles > maxAlleles {
		return Cold{}, 0, errs.ErrTooManyAlleles
	}
	nID := int(engine.Uint16(body[6:8]))

	offset := 8
	if len(body) < offset+nID {
		return Cold{}, 0, errs.ErrTruncatedStream
	}
	c.ID = string(body[offset : offset+nID])
	offset += nID

	c.Alleles = make([]string, 0, nAlleles)
	for i := 0; i < nAlleles; i++ {
		if len(body) < offset+2 {
			return Cold{}, 0, errs.ErrTruncatedStream
		}
		l := int(engine.Uint16(body[offset : offset+2]))
		offset += 2
		if len(body) < offset+l {
			return Cold{}, 0, errs.ErrTruncatedStream
		}
		c.Alleles = append(c.Alleles, string(body[offset:offset+l]))
		offset += l
	}

	return c, total, nil
}
