package keychain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tachyon/errs"
)

func TestSealOpenRoundTrip(t *testing.T) {
	k := New()
	plaintext := []byte("meta-hot and meta-cold bytes for one container")

	id, ciphertext, err := k.Seal(nil, plaintext)
	require.NoError(t, err)
	require.Equal(t, 1, k.Len())

	entry, err := k.Lookup(id)
	require.NoError(t, err)
	require.Equal(t, id, entry.ID)

	got, err := k.Open(id, nil, ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

// TestOpenDetectsTamperedCiphertext covers the AEAD tamper-detection
// scenario: flipping any byte of the ciphertext must make Open fail
// rather than return partial or corrupted plaintext.
func TestOpenDetectsTamperedCiphertext(t *testing.T) {
	k := New()
	plaintext := []byte("container header + data + stride bytes")

	id, ciphertext, err := k.Seal(nil, plaintext)
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0xFF

	got, err := k.Open(id, nil, tampered)
	require.ErrorIs(t, err, errs.ErrTagMismatch)
	require.Nil(t, got)
}

// TestOpenDetectsTamperedAAD covers tampering the associated data instead
// of the ciphertext: the AEAD tag binds both, so it must fail the same way.
func TestOpenDetectsTamperedAAD(t *testing.T) {
	k := New()
	id, ciphertext, err := k.Seal([]byte("aad-v1"), []byte("payload"))
	require.NoError(t, err)

	_, err = k.Open(id, []byte("aad-v2"), ciphertext)
	require.ErrorIs(t, err, errs.ErrTagMismatch)
}

func TestLookupUnknownIdentifier(t *testing.T) {
	k := New()
	_, err := k.Lookup(12345)
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestNewIdentifierNeverZeroOrDuplicate(t *testing.T) {
	k := New()
	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		id, err := k.NewIdentifier()
		require.NoError(t, err)
		require.NotZero(t, id)
		require.False(t, seen[id])
		seen[id] = true
		require.NoError(t, k.Add(Entry{ID: id}))
	}
}
