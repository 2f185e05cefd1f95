package archive

import (
	"crypto/sha512"

	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/errs"
)

// digestSize is the SHA-512 digest length in bytes.
const digestSize = sha512.Size

// blockDigest pairs a block id with the SHA-512 digest of its serialized
// bytes, letting a reader verify one block without rehashing the others.
type blockDigest struct {
	BlockID uint32
	Sum     [digestSize]byte
}

func computeDigest(data []byte) [digestSize]byte {
	return sha512.Sum512(data)
}

// digests is the archive's Digests Section: one entry per block plus a
// digest over the header and the index, so corruption in any of the three
// regions is detectable independent of the others.
type digests struct {
	blocks       []blockDigest
	headerDigest [digestSize]byte
	indexDigest  [digestSize]byte
}

func (d *digests) Bytes(engine endian.EndianEngine) []byte {
	var out []byte
	var tmp4 [4]byte

	engine.PutUint32(tmp4[:], uint32(len(d.blocks))) //nolint:gosec
	out = append(out, tmp4[:]...)
	for _, b := range d.blocks {
		engine.PutUint32(tmp4[:], b.BlockID)
		out = append(out, tmp4[:]...)
		out = append(out, b.Sum[:]...)
	}
	out = append(out, d.headerDigest[:]...)
	out = append(out, d.indexDigest[:]...)

	return out
}

func parseDigests(data []byte, engine endian.EndianEngine) (digests, error) {
	var d digests
	if len(data) < 4 {
		return d, errs.ErrTruncatedStream
	}
	n := int(engine.Uint32(data[0:4]))
	off := 4
	d.blocks = make([]blockDigest, 0, n)
	for i := 0; i < n; i++ {
		if len(data) < off+4+digestSize {
			return d, errs.ErrTruncatedStream
		}
		id := engine.Uint32(data[off : off+4])
		off += 4
		var sum [digestSize]byte
		copy(sum[:], data[off:off+digestSize])
		off += digestSize
		d.blocks = append(d.blocks, blockDigest{BlockID: id, Sum: sum})
	}

	if len(data) < off+2*digestSize {
		return d, errs.ErrTruncatedStream
	}
	copy(d.headerDigest[:], data[off:off+digestSize])
	off += digestSize
	copy(d.indexDigest[:], data[off:off+digestSize])

	return d, nil
}
