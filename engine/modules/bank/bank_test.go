package bank

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/internal/testutil"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
	"github.com/jayden-sudo/ZK-Battleship/wallet"
)

func newBankEnv(t *testing.T, transfer ledger.Transferer) (*engine.Executor, core.State, *wallet.Wallet) {
	t.Helper()
	state := testutil.NewStateDB()
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	exec := engine.NewExecutor(state, events.NewEmitter(), engine.Options{
		ChainID:  "testnet",
		Clock:    mock,
		Transfer: transfer,
	})
	w, err := wallet.Generate()
	require.NoError(t, err)
	return exec, state, w
}

func TestDepositCreditsBalance(t *testing.T) {
	exec, state, w := newBankEnv(t, nil)

	tx, err := w.Deposit("testnet", 0, 500)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx))

	b, err := state.GetBalance(w.PubKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(500), b.Total)
}

func TestDepositZeroRejected(t *testing.T) {
	exec, _, w := newBankEnv(t, nil)

	tx, err := w.Deposit("testnet", 0, 0)
	require.NoError(t, err)
	assert.Error(t, exec.Execute(tx))
}

func TestWithdrawMovesValueOut(t *testing.T) {
	var gotRecipient string
	var gotAmount uint64
	exec, state, w := newBankEnv(t, ledger.TransferFunc(func(recipient string, amount uint64) error {
		gotRecipient, gotAmount = recipient, amount
		return nil
	}))

	dep, err := w.Deposit("testnet", 0, 500)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(dep))

	wd, err := w.Withdraw("testnet", 1, 200, "external-account")
	require.NoError(t, err)
	require.NoError(t, exec.Execute(wd))

	assert.Equal(t, "external-account", gotRecipient)
	assert.Equal(t, uint64(200), gotAmount)

	b, _ := state.GetBalance(w.PubKey())
	assert.Equal(t, uint64(300), b.Total)
}

func TestWithdrawRollsBackOnTransferFailure(t *testing.T) {
	exec, state, w := newBankEnv(t, ledger.TransferFunc(func(string, uint64) error {
		return errors.New("bridge offline")
	}))

	dep, err := w.Deposit("testnet", 0, 500)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(dep))

	wd, err := w.Withdraw("testnet", 1, 200, "")
	require.NoError(t, err)
	require.Error(t, exec.Execute(wd))

	// The debit rolled back with everything else.
	b, _ := state.GetBalance(w.PubKey())
	assert.Equal(t, uint64(500), b.Total)
	assert.Equal(t, uint64(1), b.Nonce)
}

func TestWithdrawExceedingAvailableRejected(t *testing.T) {
	exec, _, w := newBankEnv(t, ledger.TransferFunc(func(string, uint64) error { return nil }))

	dep, err := w.Deposit("testnet", 0, 100)
	require.NoError(t, err)
	require.NoError(t, exec.Execute(dep))

	wd, err := w.Withdraw("testnet", 1, 200, "")
	require.NoError(t, err)
	assert.ErrorIs(t, exec.Execute(wd), core.ErrInsufficientFunds)
}
