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

func handleJoinGame(ctx *engine.Context, payload json.RawMessage) error {
	var p core.JoinGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("join_game: decode payload: %w", err)
	}
	if p.BoardCommitment.IsZero() {
		return fmt.Errorf("join_game: board commitment must be non-zero")
	}
	if p.SessionKey == crypto.ZeroAddress {
		return fmt.Errorf("join_game: session key must be non-zero")
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if g.Next != core.StateJoin {
		return fmt.Errorf("%w: game %s is %s, not joinable", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if ctx.Tx.From == g.Creator {
		return fmt.Errorf("%w: creator cannot join own game", core.ErrUnauthorized)
	}
	// A session key shared between both players would let either side sign
	// "opponent" items in a relayed batch for themselves.
	if p.SessionKey == g.CreatorSessionKey {
		return fmt.Errorf("%w: session key is already the creator's", core.ErrInvalidSignature)
	}

	// The creator consented off-chain to this specific joiner; the consent
	// expires at EndTime by the trusted clock.
	if ctx.Now > p.EndTime {
		return fmt.Errorf("%w: join consent expired at %d", core.ErrUnauthorized, p.EndTime)
	}
	creatorPub, err := crypto.PubKeyFromHex(g.Creator)
	if err != nil {
		return fmt.Errorf("corrupt creator identity: %w", err)
	}
	consent := core.JoinConsentHash(g.ID, p.EndTime, ctx.Tx.From)
	if err := crypto.Verify(creatorPub, consent[:], p.CreatorSignature); err != nil {
		return fmt.Errorf("%w: join consent: %v", core.ErrInvalidSignature, err)
	}

	reg := registry.New(ctx.State)
	lgr := ledger.New(ctx.State, nil)

	if err := reg.Assign(ctx.Tx.From, g.ID); err != nil {
		return err
	}
	if err := lgr.Lock(ctx.Tx.From, g.Stake); err != nil {
		return err
	}
	if err := reg.RemoveWaiting(g.ID); err != nil {
		return err
	}

	g.Joiner = ctx.Tx.From
	g.JoinerBoardCommitment = p.BoardCommitment
	g.JoinerSessionKey = p.SessionKey
	g.Next = core.StateRevealRandomness
	g.LastActiveAt = ctx.Now
	if err := reg.Save(g); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventGameJoined,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id": g.ID.Hex(),
			"joiner":  ctx.Tx.From,
			"stake":   g.Stake,
		},
	})
	return nil
}
