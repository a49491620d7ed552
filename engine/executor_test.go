package engine

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/internal/testutil"
	"github.com/jayden-sudo/ZK-Battleship/wallet"
)

// Test-only operations exercising the dispatch/rollback machinery without
// pulling in the real modules.
const (
	txTestCredit core.TxType = "test_credit"
	txTestFail   core.TxType = "test_fail"
	txTestNow    core.TxType = "test_now"
)

var capturedNow int64

func init() {
	Register(txTestCredit, func(ctx *Context, payload json.RawMessage) error {
		var p core.DepositPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		b, err := ctx.State.GetBalance(ctx.Tx.From)
		if err != nil {
			return err
		}
		b.Total += p.Amount
		return ctx.State.SetBalance(b)
	})
	Register(txTestFail, func(ctx *Context, payload json.RawMessage) error {
		// Dirty the state, then fail: the executor must roll this back.
		b, _ := ctx.State.GetBalance(ctx.Tx.From)
		b.Total = 999999
		_ = ctx.State.SetBalance(b)
		return errors.New("handler failed")
	})
	Register(txTestNow, func(ctx *Context, payload json.RawMessage) error {
		capturedNow = ctx.Now
		return nil
	})
}

func newTestExecutor(t *testing.T) (*Executor, core.State, *wallet.Wallet, *clock.Mock) {
	t.Helper()
	state := testutil.NewStateDB()
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	exec := NewExecutor(state, events.NewEmitter(), Options{
		ChainID: "testnet",
		Clock:   mock,
	})
	w, err := wallet.Generate()
	require.NoError(t, err)
	return exec, state, w, mock
}

func TestExecuteAppliesAndBumpsNonce(t *testing.T) {
	exec, state, w, _ := newTestExecutor(t)

	tx, err := w.NewOp("testnet", txTestCredit, 0, core.DepositPayload{Amount: 100})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx))

	b, err := state.GetBalance(w.PubKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), b.Total)
	assert.Equal(t, uint64(1), b.Nonce)
}

func TestExecuteRejectsChainIDMismatch(t *testing.T) {
	exec, _, w, _ := newTestExecutor(t)

	tx, err := w.NewOp("othernet", txTestCredit, 0, core.DepositPayload{Amount: 1})
	require.NoError(t, err)
	assert.ErrorContains(t, exec.Execute(tx), "chain ID mismatch")
}

func TestExecuteRejectsTamperedEnvelope(t *testing.T) {
	exec, _, w, _ := newTestExecutor(t)

	tx, err := w.NewOp("testnet", txTestCredit, 0, core.DepositPayload{Amount: 1})
	require.NoError(t, err)
	tx.Nonce = 5
	assert.ErrorIs(t, exec.Execute(tx), core.ErrInvalidSignature)
}

func TestExecuteRejectsNonceReplay(t *testing.T) {
	exec, state, w, _ := newTestExecutor(t)

	tx, err := w.NewOp("testnet", txTestCredit, 0, core.DepositPayload{Amount: 100})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx))

	// Same signed op again: the nonce has moved on.
	assert.ErrorContains(t, exec.Execute(tx), "invalid nonce")

	next, err := w.NewOp("testnet", txTestCredit, 1, core.DepositPayload{Amount: 50})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(next))

	b, _ := state.GetBalance(w.PubKey())
	assert.Equal(t, uint64(150), b.Total)
}

func TestExecuteRollsBackFailedOperation(t *testing.T) {
	exec, state, w, _ := newTestExecutor(t)

	seed, err := w.NewOp("testnet", txTestCredit, 0, core.DepositPayload{Amount: 100})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(seed))
	rootBefore := state.ComputeRoot()

	fail, err := w.NewOp("testnet", txTestFail, 1, struct{}{})
	require.NoError(t, err)
	require.Error(t, exec.Execute(fail))

	// All of it rolled back, including the nonce bump.
	b, _ := state.GetBalance(w.PubKey())
	assert.Equal(t, uint64(100), b.Total)
	assert.Equal(t, uint64(1), b.Nonce)
	assert.Equal(t, rootBefore, state.ComputeRoot())
}

func TestExecuteClockNeverRunsBackwards(t *testing.T) {
	exec, _, w, mock := newTestExecutor(t)

	tx, err := w.NewOp("testnet", txTestNow, 0, struct{}{})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx))
	first := capturedNow

	// Wall clock regression must not surface to handlers.
	mock.Set(time.Unix(1_600_000_000, 0))
	tx2, err := w.NewOp("testnet", txTestNow, 1, struct{}{})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx2))

	assert.GreaterOrEqual(t, capturedNow, first)
}

func TestExecuteEmitsOpExecuted(t *testing.T) {
	state := testutil.NewStateDB()
	emitter := events.NewEmitter()
	var got []events.Event
	emitter.Subscribe(events.EventOpExecuted, func(ev events.Event) { got = append(got, ev) })

	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	exec := NewExecutor(state, emitter, Options{ChainID: "testnet", Clock: mock})

	w, err := wallet.Generate()
	require.NoError(t, err)
	tx, err := w.NewOp("testnet", txTestCredit, 0, core.DepositPayload{Amount: 5})
	require.NoError(t, err)
	require.NoError(t, exec.Execute(tx))

	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].OpID)
	assert.Equal(t, state.ComputeRoot(), got[0].Data["state_root"])
}
