// Package keychain implements the archive's encryption-key ledger: an
// append-only table mapping a 64-bit identifier to the AEAD key/IV/tag
// tuple needed to decrypt one data container. Containers never carry key
// material themselves, only the identifier; the keychain is the single
// owner of everything secret.
package keychain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"sync"

	"github.com/arloliu/tachyon/errs"
	"github.com/arloliu/tachyon/format"
	"github.com/arloliu/tachyon/internal/hash"
)

const (
	keyLength = 32
	ivLength  = 16
	tagLength = 16
)

// Entry is one keychain record: the identifier plus everything needed to
// open an AEAD-sealed container payload.
type Entry struct {
	ID     uint64
	Cipher format.EncryptionID
	Key    [keyLength]byte
	IV     [ivLength]byte
	Tag    [tagLength]byte
}

// Keychain is an append-only, concurrency-safe identifier → Entry table.
// Identifier allocation is guarded by a mutex rather than a hand-rolled
// spinlock: the Go scheduler already multiplexes goroutines over OS
// threads, so a busy-wait loop buys nothing a futex-backed mutex doesn't
// already provide, and it risks starving the allocating goroutine's own
// M under GOMAXPROCS=1.
type Keychain struct {
	mu      sync.Mutex
	entries map[uint64]Entry
}

// New creates an empty Keychain.
func New() *Keychain {
	return &Keychain{entries: make(map[uint64]Entry)}
}

// NewIdentifier samples a fresh 64-bit identifier, guaranteed non-zero and
// not already present in this keychain.
func (k *Keychain) NewIdentifier() (uint64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for {
		var raw [32]byte
		if _, err := rand.Read(raw[:]); err != nil {
			return 0, err
		}
		id := hash.Bytes(raw[:])
		if id == 0 {
			continue
		}
		if _, exists := k.entries[id]; exists {
			continue
		}

		return id, nil
	}
}

// Add inserts entry into the keychain. Returns ErrDuplicateKeyID if the
// identifier is already present.
func (k *Keychain) Add(entry Entry) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.entries[entry.ID]; exists {
		return errs.ErrDuplicateKeyID
	}
	k.entries[entry.ID] = entry

	return nil
}

// Lookup returns the entry for id, or ErrKeyNotFound.
func (k *Keychain) Lookup(id uint64) (Entry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[id]
	if !ok {
		return Entry{}, errs.ErrKeyNotFound
	}

	return e, nil
}

// Len returns the number of entries currently held.
func (k *Keychain) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.entries)
}

// Seal issues a fresh identifier and key material, AEAD-encrypts plaintext
// under AES-256-GCM with aad as associated data, appends the resulting
// Entry to the keychain, and returns (identifier, ciphertext). The GCM tag
// is not part of the returned ciphertext; it is kept in the Entry.
//
// plaintext is expected to be the concatenation of the container's sealed
// header bytes, data bytes and stride bytes, per the "mask header in
// encrypted message" technique: the header travels inside the ciphertext so
// tampering with it is caught by the AEAD tag. Open returns those header
// bytes as part of the plaintext; nothing in this package parses them.
func (k *Keychain) Seal(aad, plaintext []byte) (id uint64, ciphertext []byte, err error) {
	id, err = k.NewIdentifier()
	if err != nil {
		return 0, nil, err
	}

	var entry Entry
	entry.ID = id
	entry.Cipher = format.EncryptionAES256
	if _, err = rand.Read(entry.Key[:]); err != nil {
		return 0, nil, err
	}
	if _, err = rand.Read(entry.IV[:]); err != nil {
		return 0, nil, err
	}

	block, err := aes.NewCipher(entry.Key[:])
	if err != nil {
		return 0, nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return 0, nil, err
	}

	sealed := gcm.Seal(nil, entry.IV[:], plaintext, aad)
	ctLen := len(sealed) - tagLength
	copy(entry.Tag[:], sealed[ctLen:])

	if err = k.Add(entry); err != nil {
		return 0, nil, err
	}

	return id, sealed[:ctLen], nil
}

// Open looks up id, verifies and decrypts ciphertext (without its trailing
// tag, which is supplied separately from the Entry) under aad, and returns
// the original plaintext the container was sealed with.
func (k *Keychain) Open(id uint64, aad, ciphertext []byte) ([]byte, error) {
	entry, err := k.Lookup(id)
	if err != nil {
		return nil, err
	}
	if entry.Cipher != format.EncryptionAES256 {
		return nil, errs.ErrWrongCipher
	}

	block, err := aes.NewCipher(entry.Key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+tagLength)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, entry.Tag[:]...)

	plaintext, err := gcm.Open(nil, entry.IV[:], sealed, aad)
	if err != nil {
		return nil, errs.ErrTagMismatch
	}

	return plaintext, nil
}
