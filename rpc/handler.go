package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/indexer"
	"github.com/jayden-sudo/ZK-Battleship/registry"
)

// Handler holds all dependencies needed to serve RPC methods.
type Handler struct {
	exec    *engine.Executor
	state   core.State
	indexer *indexer.Indexer
	chainID string // expected chain_id; used to reject cross-chain replay operations
}

// NewHandler creates an RPC Handler.
func NewHandler(exec *engine.Executor, state core.State, idx *indexer.Indexer, chainID string) *Handler {
	return &Handler{exec: exec, state: state, indexer: idx, chainID: chainID}
}

// Dispatch routes an RPC request to the correct method.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "getBalance":
		return h.getBalance(req)

	case "getGame":
		return h.getGame(req)

	case "getActiveGame":
		return h.getActiveGame(req)

	case "listWaitingGames":
		return h.listWaitingGames(req)

	case "getGamesByPlayer":
		return h.getGamesByPlayer(req)

	case "getStateRoot":
		return okResponse(req.ID, h.state.ComputeRoot())

	case "sendOp":
		return h.sendOp(req)

	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (h *Handler) getBalance(req Request) Response {
	var params struct {
		User string `json:"user"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.User == "" {
		return errResponse(req.ID, CodeInvalidParams, "user is required")
	}
	bal, err := h.state.GetBalance(params.User)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]any{
		"user":      bal.User,
		"total":     bal.Total,
		"locked":    bal.Locked,
		"available": bal.Available(),
		"nonce":     bal.Nonce,
	})
}

func (h *Handler) getGame(req Request) Response {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	id, err := crypto.HashFromHex(params.ID)
	if err != nil {
		return errResponse(req.ID, CodeInvalidParams, "id: "+err.Error())
	}
	g, err := h.state.GetGame(id)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, g)
}

func (h *Handler) getActiveGame(req Request) Response {
	var params struct {
		User string `json:"user"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.User == "" {
		return errResponse(req.ID, CodeInvalidParams, "user is required")
	}
	id, err := h.state.GetActiveGame(params.User)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	if id.IsZero() {
		return okResponse(req.ID, nil)
	}
	return okResponse(req.ID, id.Hex())
}

func (h *Handler) listWaitingGames(req Request) Response {
	var params struct {
		Cursor string `json:"cursor"`
		Limit  int    `json:"limit"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errResponse(req.ID, CodeInvalidParams, err.Error())
		}
	}
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 100
	}
	cursor := crypto.ZeroHash
	if params.Cursor != "" {
		var err error
		cursor, err = crypto.HashFromHex(params.Cursor)
		if err != nil {
			return errResponse(req.ID, CodeInvalidParams, "cursor: "+err.Error())
		}
	}
	ids, err := registry.New(h.state).ListWaiting(cursor, params.Limit)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.Hex()
	}
	return okResponse(req.ID, hexIDs)
}

func (h *Handler) getGamesByPlayer(req Request) Response {
	var params struct {
		Player string `json:"player"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Player == "" {
		return errResponse(req.ID, CodeInvalidParams, "player is required")
	}
	ids, err := h.indexer.GetGamesByPlayer(params.Player)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, ids)
}

func (h *Handler) sendOp(req Request) Response {
	var tx core.Transaction
	if err := json.Unmarshal(req.Params, &tx); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	// Reject operations destined for a different network to prevent
	// cross-chain replay attacks.
	if tx.ChainID != h.chainID {
		return errResponse(req.ID, CodeInvalidParams,
			fmt.Sprintf("chain ID mismatch: got %q want %q", tx.ChainID, h.chainID))
	}
	// Recompute the ID server-side; do not trust the client-provided value.
	tx.ID = tx.SigningHash().Hex()
	if err := h.exec.Execute(&tx); err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]string{"op_id": tx.ID})
}
