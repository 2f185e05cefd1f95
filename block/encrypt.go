package block

import (
	"github.com/arloliu/tachyon/compress"
	"github.com/arloliu/tachyon/container"
	"github.com/arloliu/tachyon/endian"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/keychain"
)

// sealAndSerialize seals c, compresses it, and — when kc is non-nil —
// encrypts the result under AES-256-GCM, applying the "mask header in
// encrypted message" technique: the plaintext the keychain seals is the
// container's own (pre-encryption) header bytes concatenated with the
// compressed data and stride bytes, so the header travels inside the
// AEAD-protected region. This module has no read path that opens an
// encrypted container or restores its header from the plaintext.
func sealAndSerialize(c *container.Container, engine endian.EndianEngine, codec compress.Codec, compressionType format.CompressionType, kc *keychain.Keychain) ([]byte, error) {
	if err := c.Seal(); err != nil {
		return nil, err
	}

	if kc == nil {
		return c.Compress(codec, compressionType)
	}

	serialized, err := c.Compress(codec, compressionType)
	if err != nil {
		return nil, err
	}

	plaintext := serialized[:container.HeaderSize] // masked pre-encryption header
	plaintext = append(append([]byte(nil), plaintext...), serialized[container.HeaderSize:]...)

	id, ciphertext, err := kc.Seal(nil, plaintext)
	if err != nil {
		return nil, err
	}

	var idBytes [8]byte
	engine.PutUint64(idBytes[:], id)

	c.Header.Controller.SetEncryptionID(format.EncryptionAES256)
	c.Header.Extra = idBytes[:]
	c.Header.CLength = uint32(len(ciphertext)) //nolint:gosec

	out := c.Header.Bytes(engine)
	out = append(out, ciphertext...)

	return out, nil
}
