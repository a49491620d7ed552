package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyCommitment(t *testing.T) {
	secret := []byte("the fleet hides at dawn")
	commitment := Keccak256(secret)

	assert.True(t, VerifyCommitment(commitment, secret))
	assert.False(t, VerifyCommitment(commitment, []byte("wrong secret")))
	assert.False(t, VerifyCommitment(ZeroHash, secret))
}

func TestKeccak256ChunksEquivalentToConcat(t *testing.T) {
	a, b := []byte("foo"), []byte("bar")
	assert.Equal(t, Keccak256([]byte("foobar")), Keccak256(a, b))
}

func TestHashHexRoundTrip(t *testing.T) {
	h := Keccak256([]byte("round trip"))
	parsed, err := HashFromHex(h.Hex())
	assert.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = HashFromHex("nothex")
	assert.Error(t, err)
}
