package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

func TestTransactionSignAndVerify(t *testing.T) {
	priv, pub, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	tx, err := NewTransaction("testnet", TxDeposit, pub.Hex(), 0, DepositPayload{Amount: 100})
	require.NoError(t, err)
	tx.Sign(priv)

	assert.NotEmpty(t, tx.ID)
	assert.NoError(t, tx.Verify())
}

func TestTransactionTamperDetection(t *testing.T) {
	priv, pub, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	tx, err := NewTransaction("testnet", TxDeposit, pub.Hex(), 0, DepositPayload{Amount: 100})
	require.NoError(t, err)
	tx.Sign(priv)

	tx.Nonce = 1
	assert.Error(t, tx.Verify())
}

func TestTransactionForeignSignerRejected(t *testing.T) {
	priv, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, otherPub, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	// From claims one identity, the signature comes from another.
	tx, err := NewTransaction("testnet", TxDeposit, otherPub.Hex(), 0, DepositPayload{Amount: 1})
	require.NoError(t, err)
	tx.Sign(priv)

	assert.Error(t, tx.Verify())
}
