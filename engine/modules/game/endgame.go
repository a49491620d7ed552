package game

import (
	"encoding/json"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
	"github.com/jayden-sudo/ZK-Battleship/registry"
)

// handleSurrender ends an in-progress game in the opponent's favor. With an
// empty signature the caller surrenders themselves; otherwise the signature
// is a relayed session signature over the surrender digest and identifies
// the surrendering side regardless of who submits it.
func handleSurrender(ctx *engine.Context, payload json.RawMessage) error {
	var p core.SurrenderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("surrender: decode payload: %w", err)
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if !g.Next.InProgress() {
		return fmt.Errorf("%w: game %s is %s", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if _, err := roleOf(g, ctx.Tx.From); err != nil {
		return err
	}

	loser := ctx.Tx.From
	if len(p.Signature) > 0 {
		addr, err := crypto.RecoverSession(core.SurrenderHash(g.ID), p.Signature)
		if err != nil {
			return fmt.Errorf("%w: surrender: %v", core.ErrInvalidSignature, err)
		}
		switch addr {
		case g.CreatorSessionKey:
			loser = g.Creator
		case g.JoinerSessionKey:
			loser = g.Joiner
		default:
			return fmt.Errorf("%w: surrender not signed by a player's session key", core.ErrInvalidSignature)
		}
	}

	return finalize(ctx, g, g.Opponent(loser), "surrender")
}

// handleOpponentLeave forfeits an opponent who has let their phase window
// expire. Only the party NOT on the move may invoke it.
func handleOpponentLeave(ctx *engine.Context, payload json.RawMessage) error {
	var p core.OpponentLeavePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("opponent_leave: decode payload: %w", err)
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if !g.Next.InProgress() {
		return fmt.Errorf("%w: game %s is %s", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	r, err := roleOf(g, ctx.Tx.From)
	if err != nil {
		return err
	}

	// Whose action is the game waiting on?
	idle := roleCreator // reveal phase waits on the creator
	if tr, ok := transitions[g.Next]; ok {
		idle = tr.mover
	}
	if idle == r {
		return fmt.Errorf("%w: the pending action is yours", core.ErrUnauthorized)
	}
	if ctx.Now-g.LastActiveAt <= ctx.Timeouts.For(g.Next) {
		return fmt.Errorf("%w: phase window has %ds left",
			core.ErrTimeoutNotElapsed, g.LastActiveAt+ctx.Timeouts.For(g.Next)-ctx.Now)
	}

	return finalize(ctx, g, ctx.Tx.From, "opponent timed out")
}

// handleCloseIdleGame lets a creator abandon a game still waiting for a
// joiner, unlocking the stake and freeing the id.
func handleCloseIdleGame(ctx *engine.Context, payload json.RawMessage) error {
	var p core.CloseIdleGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("close_idle_game: decode payload: %w", err)
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if g.Next != core.StateJoin {
		return fmt.Errorf("%w: game %s is %s, not waiting for a joiner", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if ctx.Tx.From != g.Creator {
		return fmt.Errorf("%w: only the creator may close", core.ErrUnauthorized)
	}

	reg := registry.New(ctx.State)
	if err := reg.RemoveWaiting(g.ID); err != nil {
		return err
	}
	if err := reg.Clear(g.Creator); err != nil {
		return err
	}
	if err := ledger.New(ctx.State, nil).Unlock(g.Creator, g.Stake); err != nil {
		return err
	}
	// The record is deleted outright: an unjoined game has no history worth
	// a tombstone, and the id returns to Blank.
	if err := reg.Delete(g.ID); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventGameClosed,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data:      map[string]any{"game_id": g.ID.Hex(), "creator": g.Creator},
	})
	return nil
}
