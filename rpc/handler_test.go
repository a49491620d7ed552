package rpc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/indexer"
	"github.com/jayden-sudo/ZK-Battleship/internal/testutil"
	"github.com/jayden-sudo/ZK-Battleship/wallet"

	_ "github.com/jayden-sudo/ZK-Battleship/engine/modules/bank"
	_ "github.com/jayden-sudo/ZK-Battleship/engine/modules/game"
)

func newTestHandler(t *testing.T) (*Handler, core.State) {
	t.Helper()
	state := testutil.NewStateDB()
	emitter := events.NewEmitter()
	idx := indexer.New(testutil.NewMemDB(), emitter)
	mock := clock.NewMock()
	mock.Set(time.Unix(1_700_000_000, 0))
	exec := engine.NewExecutor(state, emitter, engine.Options{ChainID: "testnet", Clock: mock})
	return NewHandler(exec, state, idx, "testnet"), state
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestDispatchMethodNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := h.Dispatch(Request{JSONRPC: "2.0", ID: 1, Method: "explode"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestGetBalance(t *testing.T) {
	h, state := newTestHandler(t)
	require.NoError(t, state.SetBalance(&core.UserBalance{User: "alice", Total: 100, Locked: 40}))

	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "getBalance",
		Params: mustParams(t, map[string]string{"user": "alice"}),
	})
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]any)
	assert.Equal(t, uint64(100), result["total"])
	assert.Equal(t, uint64(40), result["locked"])
	assert.Equal(t, uint64(60), result["available"])
}

func TestGetBalanceMissingUser(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "getBalance",
		Params: mustParams(t, map[string]string{}),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestSendOpExecutesDeposit(t *testing.T) {
	h, state := newTestHandler(t)
	w, err := wallet.Generate()
	require.NoError(t, err)

	tx, err := w.Deposit("testnet", 0, 500)
	require.NoError(t, err)

	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "sendOp",
		Params: mustParams(t, tx),
	})
	require.Nil(t, resp.Error, "sendOp: %+v", resp.Error)

	b, err := state.GetBalance(w.PubKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(500), b.Total)
}

func TestSendOpRejectsForeignChain(t *testing.T) {
	h, _ := newTestHandler(t)
	w, err := wallet.Generate()
	require.NoError(t, err)

	tx, err := w.Deposit("othernet", 0, 500)
	require.NoError(t, err)

	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "sendOp",
		Params: mustParams(t, tx),
	})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "chain ID mismatch")
}

func TestGetActiveGameEmpty(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "getActiveGame",
		Params: mustParams(t, map[string]string{"user": "nobody"}),
	})
	require.Nil(t, resp.Error)
	assert.Nil(t, resp.Result)
}

func TestListWaitingGamesEmpty(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := h.Dispatch(Request{JSONRPC: "2.0", ID: 1, Method: "listWaitingGames"})
	require.Nil(t, resp.Error)
	assert.Empty(t, resp.Result)
}

func TestGetGameUnknownID(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := h.Dispatch(Request{
		JSONRPC: "2.0", ID: 1, Method: "getGame",
		Params: mustParams(t, map[string]string{"id": crypto.Keccak256([]byte("missing")).Hex()}),
	})
	require.NotNil(t, resp.Error)
}

func TestGetStateRoot(t *testing.T) {
	h, state := newTestHandler(t)
	resp := h.Dispatch(Request{JSONRPC: "2.0", ID: 1, Method: "getStateRoot"})
	require.Nil(t, resp.Error)
	assert.Equal(t, state.ComputeRoot(), resp.Result)
}
