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

func handleCreateGame(ctx *engine.Context, payload json.RawMessage) error {
	var p core.CreateGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("create_game: decode payload: %w", err)
	}
	if p.RandomnessCommitment.IsZero() || p.BoardCommitment.IsZero() {
		return fmt.Errorf("create_game: commitments must be non-zero")
	}
	if p.SessionKey == crypto.ZeroAddress {
		return fmt.Errorf("create_game: session key must be non-zero")
	}

	reg := registry.New(ctx.State)
	lgr := ledger.New(ctx.State, nil)

	id := registry.DeriveID(ctx.Tx.From, &p)

	// One active game per user: a creator cannot open a second game while
	// one is live or waiting.
	if err := reg.Assign(ctx.Tx.From, id); err != nil {
		return err
	}
	if err := lgr.Lock(ctx.Tx.From, p.Stake); err != nil {
		return err
	}

	g := &core.Game{
		ID:                          id,
		Creator:                     ctx.Tx.From,
		CreatorRandomnessCommitment: p.RandomnessCommitment,
		CreatorBoardCommitment:      p.BoardCommitment,
		CreatorSessionKey:           p.SessionKey,
		Stake:                       p.Stake,
		LastActiveAt:                ctx.Now,

		// The move hash chain is seeded with the game id so signed chain
		// heads can never be replayed into another game.
		PreviousStatusHash: id,
		CurrentStatusHash:  id,

		Next: core.StateJoin,
	}
	if err := reg.Create(g); err != nil {
		return err
	}
	if err := reg.AddWaiting(id); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventGameCreated,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id": id.Hex(),
			"creator": ctx.Tx.From,
			"stake":   p.Stake,
		},
	})
	return nil
}
