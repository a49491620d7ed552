package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Address is a 20-byte identity derived from a secp256k1 public key: the
// trailing 20 bytes of Keccak256(uncompressed pubkey without the 0x04 prefix).
// Session keys are per-game signing identities distinct from account keys;
// they authenticate off-chain move batches cheaply via signature recovery.
type Address [20]byte

// ZeroAddress is the all-zero address, used as "unset".
var ZeroAddress Address

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex returns the lowercase hex encoding of a.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// MarshalText encodes a as lowercase hex for JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText decodes a 40-char hex string.
func (a *Address) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid address hex: %w", err)
	}
	if len(b) != len(a) {
		return fmt.Errorf("address must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return nil
}

// AddressFromHex decodes a hex-encoded address.
func AddressFromHex(s string) (Address, error) {
	var a Address
	err := a.UnmarshalText([]byte(s))
	return a, err
}

// SessionKey is a secp256k1 private key used to sign move-batch hashes.
type SessionKey struct {
	priv *secp256k1.PrivateKey
}

// GenerateSessionKey creates a fresh per-game session key.
func GenerateSessionKey() (*SessionKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &SessionKey{priv: priv}, nil
}

// SessionKeyFromBytes restores a session key from its 32-byte secret.
func SessionKeyFromBytes(b []byte) *SessionKey {
	return &SessionKey{priv: secp256k1.PrivKeyFromBytes(b)}
}

// Serialize returns the 32-byte private key secret.
func (k *SessionKey) Serialize() []byte {
	return k.priv.Serialize()
}

// Address returns the signing identity recovered by RecoverSession.
func (k *SessionKey) Address() Address {
	return pubKeyAddress(k.priv.PubKey())
}

// SignHash produces a 65-byte compact recoverable signature over h.
func (k *SessionKey) SignHash(h Hash) []byte {
	return secpecdsa.SignCompact(k.priv, h[:], false)
}

// RecoverSession recovers the signer address from a compact signature over h.
// Malformed signatures fail explicitly; a wrong identity is never returned
// silently as success.
func RecoverSession(h Hash, sig []byte) (Address, error) {
	pub, _, err := secpecdsa.RecoverCompact(sig, h[:])
	if err != nil {
		return ZeroAddress, fmt.Errorf("recover session signature: %w", err)
	}
	return pubKeyAddress(pub), nil
}

func pubKeyAddress(pub *secp256k1.PublicKey) Address {
	raw := pub.SerializeUncompressed() // 0x04 || X || Y
	h := Keccak256(raw[1:])
	var a Address
	copy(a[:], h[12:])
	return a
}
