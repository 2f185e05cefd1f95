// Package errs centralizes the sentinel errors returned across the archive
// engine so callers can use errors.Is regardless of which layer produced the
// failure. The sentinels are grouped by the kinds in the format's error
// taxonomy: FormatError, CorruptionError, DecryptError, TruncationError,
// InputOrderingError, BoundsError and OversizeError; the final group holds
// encoder/writer state errors that belong to none of these kinds.
package errs

import "errors"

// Format errors: magic mismatch, unknown tags.
var (
	ErrInvalidMagic          = errors.New("tachyon: invalid archive magic")
	ErrInvalidHeaderSize     = errors.New("tachyon: invalid header size")
	ErrInvalidHeaderFlags    = errors.New("tachyon: invalid header flags")
	ErrUnknownPrimitiveType  = errors.New("tachyon: unknown primitive type")
	ErrUnknownEncoderID      = errors.New("tachyon: unknown encoder id")
	ErrUnknownCipherID       = errors.New("tachyon: unknown cipher id")
	ErrUnknownCompressionID  = errors.New("tachyon: unknown compression id")
	ErrInvalidIndexEntrySize = errors.New("tachyon: invalid index entry size")
)

// Corruption errors: checksum mismatches, impossible arithmetic.
var (
	ErrCRCMismatch          = errors.New("tachyon: crc32 mismatch")
	ErrBlockEOFMismatch     = errors.New("tachyon: block eof sentinel mismatch")
	ErrArchiveEOFMismatch   = errors.New("tachyon: archive eof sentinel mismatch")
	ErrTooManyAlleles       = errors.New("tachyon: allele count exceeds 32767")
	ErrImpossibleRunLength  = errors.New("tachyon: impossible run-length arithmetic")
	ErrCorruptDigest        = errors.New("tachyon: trailer digest mismatch")
)

// Decrypt errors: keychain miss, AEAD tag failure, wrong cipher.
var (
	ErrKeyNotFound      = errors.New("tachyon: keychain identifier not found")
	ErrTagMismatch      = errors.New("tachyon: AEAD tag verification failed")
	ErrWrongCipher      = errors.New("tachyon: cipher id does not match keychain entry")
	ErrDuplicateKeyID   = errors.New("tachyon: keychain identifier already in use")
)

// Truncation errors: stream ends before declared length is consumed.
var (
	ErrTruncatedStream = errors.New("tachyon: stream truncated before declared length")
)

// Input ordering errors: writer receives out-of-order records.
var (
	ErrOutOfOrder = errors.New("tachyon: record position decreases within contig")
)

// Bounds errors: unknown contig, out-of-range position.
var (
	ErrUnknownContig    = errors.New("tachyon: unknown contig id")
	ErrPositionOutOfRange = errors.New("tachyon: position outside contig length")
)

// Oversize errors: per-block table limits (16-bit fields) exceeded.
var (
	ErrTooManyPatterns  = errors.New("tachyon: pattern table exceeds 65536 entries")
	ErrTooManyKeys      = errors.New("tachyon: key table exceeds 65536 entries")
)

// Encoder/writer state errors, mirroring the teacher's style of precise,
// per-call-site sentinels rather than one catch-all.
var (
	ErrBlockNotAccumulating = errors.New("tachyon: block is not in accumulating state")
	ErrBlockAlreadySealed   = errors.New("tachyon: block already sealed")
	ErrNoVariantsAdded      = errors.New("tachyon: no variants added to block")
	ErrMixedContig          = errors.New("tachyon: variant belongs to a different contig")
	ErrContainerSealed      = errors.New("tachyon: container already sealed")
	ErrContainerNotSealed   = errors.New("tachyon: container not sealed")
	ErrStrideMismatch       = errors.New("tachyon: append width does not match declared primitive type")
	ErrPloidyTooLarge       = errors.New("tachyon: ploidy * allele width exceeds 64 bits")
)
