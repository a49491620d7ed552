package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

func TestKeystoreRoundTrip(t *testing.T) {
	w, err := Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.key")
	require.NoError(t, SaveKey(path, "hunter2", w.PrivKey()))

	priv, err := LoadKey(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, w.PubKey(), New(priv).PubKey())
}

func TestKeystoreWrongPassword(t *testing.T) {
	w, err := Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.key")
	require.NoError(t, SaveKey(path, "correct", w.PrivKey()))

	_, err = LoadKey(path, "wrong")
	assert.Error(t, err)
}

func TestNewOpIsSignedAndVerifiable(t *testing.T) {
	w, err := Generate()
	require.NoError(t, err)

	tx, err := w.Deposit("testnet", 3, 100)
	require.NoError(t, err)
	assert.Equal(t, w.PubKey(), tx.From)
	assert.Equal(t, uint64(3), tx.Nonce)
	assert.NoError(t, tx.Verify())
}

func TestConsentToJoinVerifies(t *testing.T) {
	creator, err := Generate()
	require.NoError(t, err)

	id := crypto.Keccak256([]byte("game"))
	sig := creator.ConsentToJoin(id, 1234, "joiner-pubkey")

	pub, err := crypto.PubKeyFromHex(creator.PubKey())
	require.NoError(t, err)
	h := core.JoinConsentHash(id, 1234, "joiner-pubkey")
	assert.NoError(t, crypto.Verify(pub, h[:], sig))

	other := core.JoinConsentHash(id, 1235, "joiner-pubkey")
	assert.Error(t, crypto.Verify(pub, other[:], sig))
}

func TestSessionWalletSignsChainHeads(t *testing.T) {
	sess, err := NewSession()
	require.NoError(t, err)

	prev := crypto.Keccak256([]byte("head"))
	item := &core.GameStatusItem{Kind: core.ItemShot, Position: 5}
	head := sess.SignItem(prev, item)

	assert.Equal(t, core.ExtendStatusHash(prev, item), head)
	addr, err := crypto.RecoverSession(head, item.Signature)
	require.NoError(t, err)
	assert.Equal(t, sess.Address(), addr)
}

func TestSessionWalletRestores(t *testing.T) {
	sess, err := NewSession()
	require.NoError(t, err)
	restored := SessionFromBytes(sess.Serialize())
	assert.Equal(t, sess.Address(), restored.Address())
}
