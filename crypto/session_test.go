package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSignAndRecover(t *testing.T) {
	key, err := GenerateSessionKey()
	require.NoError(t, err)

	h := Keccak256([]byte("move history head"))
	sig := key.SignHash(h)
	require.Len(t, sig, 65)

	addr, err := RecoverSession(h, sig)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), addr)
}

func TestRecoverSessionWrongHashYieldsDifferentAddress(t *testing.T) {
	key, err := GenerateSessionKey()
	require.NoError(t, err)

	sig := key.SignHash(Keccak256([]byte("signed head")))
	addr, err := RecoverSession(Keccak256([]byte("other head")), sig)
	if err == nil {
		assert.NotEqual(t, key.Address(), addr)
	}
}

func TestRecoverSessionMalformedSignature(t *testing.T) {
	_, err := RecoverSession(Keccak256([]byte("x")), []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSessionKeySerializeRoundTrip(t *testing.T) {
	key, err := GenerateSessionKey()
	require.NoError(t, err)

	restored := SessionKeyFromBytes(key.Serialize())
	assert.Equal(t, key.Address(), restored.Address())
}

func TestAddressHexRoundTrip(t *testing.T) {
	key, err := GenerateSessionKey()
	require.NoError(t, err)

	addr := key.Address()
	var parsed Address
	require.NoError(t, parsed.UnmarshalText([]byte(addr.Hex())))
	assert.Equal(t, addr, parsed)
}
