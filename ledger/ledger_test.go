package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/internal/testutil"
)

func TestDepositAndBalance(t *testing.T) {
	lgr := New(testutil.NewStateDB(), nil)

	require.NoError(t, lgr.Deposit("alice", 500))
	require.NoError(t, lgr.Deposit("alice", 250))

	b, err := lgr.Balance("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(750), b.Total)
	assert.Equal(t, uint64(0), b.Locked)
	assert.Equal(t, uint64(750), b.Available())
}

func TestWithdrawRespectsLockedStake(t *testing.T) {
	state := testutil.NewStateDB()
	var sent uint64
	lgr := New(state, TransferFunc(func(recipient string, amount uint64) error {
		sent += amount
		return nil
	}))

	require.NoError(t, lgr.Deposit("alice", 1000))
	require.NoError(t, lgr.Lock("alice", 600))

	err := lgr.Withdraw("alice", 500, "alice")
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	require.NoError(t, lgr.Withdraw("alice", 400, "alice"))
	assert.Equal(t, uint64(400), sent)

	b, _ := lgr.Balance("alice")
	assert.Equal(t, uint64(600), b.Total)
	assert.Equal(t, uint64(600), b.Locked)
	assert.Equal(t, uint64(0), b.Available())
}

func TestWithdrawTransferFailurePropagates(t *testing.T) {
	lgr := New(testutil.NewStateDB(), TransferFunc(func(string, uint64) error {
		return errors.New("bridge offline")
	}))

	require.NoError(t, lgr.Deposit("alice", 100))
	assert.Error(t, lgr.Withdraw("alice", 50, "alice"))
}

func TestLockUnlock(t *testing.T) {
	lgr := New(testutil.NewStateDB(), nil)

	require.NoError(t, lgr.Deposit("bob", 300))
	assert.ErrorIs(t, lgr.Lock("bob", 400), core.ErrInsufficientFunds)

	require.NoError(t, lgr.Lock("bob", 300))
	assert.Error(t, lgr.Unlock("bob", 301))
	require.NoError(t, lgr.Unlock("bob", 300))

	b, _ := lgr.Balance("bob")
	assert.Equal(t, uint64(300), b.Available())
}

func TestSettleMovesStakeToWinner(t *testing.T) {
	lgr := New(testutil.NewStateDB(), nil)

	require.NoError(t, lgr.Deposit("winner", 100))
	require.NoError(t, lgr.Deposit("loser", 100))
	require.NoError(t, lgr.Lock("winner", 40))
	require.NoError(t, lgr.Lock("loser", 40))

	require.NoError(t, lgr.Settle("winner", "loser", 40))

	wb, _ := lgr.Balance("winner")
	lb, _ := lgr.Balance("loser")
	assert.Equal(t, uint64(140), wb.Total)
	assert.Equal(t, uint64(0), wb.Locked)
	assert.Equal(t, uint64(60), lb.Total)
	assert.Equal(t, uint64(0), lb.Locked)
}

func TestSettleInvariantBreach(t *testing.T) {
	lgr := New(testutil.NewStateDB(), nil)
	require.NoError(t, lgr.Deposit("winner", 100))
	require.NoError(t, lgr.Deposit("loser", 100))
	// Nothing locked: settle must refuse rather than mint.
	assert.Error(t, lgr.Settle("winner", "loser", 40))
}
