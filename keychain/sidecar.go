package keychain

import (
	"encoding/binary"

	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
)

// sidecarMagic identifies a standalone keychain stream, independent of the
// archive magic, so a keychain can be persisted and reloaded as its own
// file: MAGIC || n_entries(u64) || n_capacity(u64) || entries[*].
var sidecarMagic = [8]byte{'Y', 'O', 'N', 'K', 'E', 'Y', 'S', '1'}

const entrySize = 1 + 8 + keyLength + ivLength + tagLength // cipher, field_id, key, iv, tag

// WriteSidecar serializes the keychain into the standalone sidecar stream
// format: MAGIC || n_entries(u64) || n_capacity(u64) || entries[*], each
// entry cipher_type(u8) || field_id(u64) || key(32) || iv(16) || tag(16).
func (k *Keychain) WriteSidecar() []byte {
	k.mu.Lock()
	defer k.mu.Unlock()

	n := len(k.entries)
	out := make([]byte, 0, 8+8+8+n*entrySize)
	out = append(out, sidecarMagic[:]...)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(n)) //nolint:gosec
	out = append(out, lenBuf[:]...)
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(n)) //nolint:gosec
	out = append(out, lenBuf[:]...)

	for _, e := range k.entries {
		out = append(out, byte(e.Cipher))
		binary.LittleEndian.PutUint64(lenBuf[:], e.ID)
		out = append(out, lenBuf[:]...)
		out = append(out, e.Key[:]...)
		out = append(out, e.IV[:]...)
		out = append(out, e.Tag[:]...)
	}

	return out
}

// ReadSidecar parses a keychain previously produced by WriteSidecar.
// Entries whose cipher type is not recognized cause ErrUnknownCipherID.
func ReadSidecar(data []byte) (*Keychain, error) {
	if len(data) < 24 || string(data[0:8]) != string(sidecarMagic[:]) {
		return nil, errs.ErrInvalidMagic
	}

	n := binary.LittleEndian.Uint64(data[8:16])
	_ = binary.LittleEndian.Uint64(data[16:24]) // capacity, informational only

	offset := 24
	k := New()
	for i := uint64(0); i < n; i++ {
		if offset+entrySize > len(data) {
			return nil, errs.ErrTruncatedStream
		}

		cipher := format.EncryptionID(data[offset])
		if cipher != format.EncryptionAES256 {
			return nil, errs.ErrUnknownCipherID
		}
		offset++

		var entry Entry
		entry.Cipher = cipher
		entry.ID = binary.LittleEndian.Uint64(data[offset : offset+8])
		offset += 8
		copy(entry.Key[:], data[offset:offset+keyLength])
		offset += keyLength
		copy(entry.IV[:], data[offset:offset+ivLength])
		offset += ivLength
		copy(entry.Tag[:], data[offset:offset+tagLength])
		offset += tagLength

		if err := k.Add(entry); err != nil {
			return nil, err
		}
	}

	return k, nil
}
