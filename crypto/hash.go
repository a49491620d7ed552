package crypto

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Hash is a 32-byte Keccak-256 digest. It is the type of board commitments,
// randomness commitments, game ids and the move hash chain.
type Hash [32]byte

// ZeroHash is the all-zero digest, used as "unset".
var ZeroHash Hash

// Keccak256 hashes the concatenation of chunks.
func Keccak256(chunks ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		d.Write(c)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}

// IsZero reports whether h is the zero digest.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Hex returns the lowercase hex encoding of h.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// MarshalText encodes h as lowercase hex for JSON.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText decodes a 64-char hex string.
func (h *Hash) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(b) != len(h) {
		return fmt.Errorf("hash must be %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return nil
}

// HashFromHex decodes a hex-encoded digest.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	err := h.UnmarshalText([]byte(s))
	return h, err
}
