package game

import (
	"encoding/json"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/registry"
)

func handleRevealRandomness(ctx *engine.Context, payload json.RawMessage) error {
	var p core.RevealRandomnessPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("reveal_randomness: decode payload: %w", err)
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if g.Next != core.StateRevealRandomness {
		return fmt.Errorf("%w: game %s is %s, not awaiting reveal", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if ctx.Tx.From != g.Creator {
		return fmt.Errorf("%w: only the creator reveals", core.ErrUnauthorized)
	}
	if !crypto.VerifyCommitment(g.CreatorRandomnessCommitment, p.Secret) {
		return fmt.Errorf("%w: secret does not open randomness commitment", core.ErrInvalidCommitment)
	}

	// Initiative mixes the creator's pre-committed secret with the joiner's
	// board commitment, which the creator could not have known at commit
	// time. Neither side can bias the coin.
	coin := crypto.Keccak256(p.Secret, g.JoinerBoardCommitment[:])
	if coin[31]&1 == 1 {
		g.Next = core.StateCreatorFire
	} else {
		g.Next = core.StateJoinerFire
	}
	g.LastActiveAt = ctx.Now

	if err := registry.New(ctx.State).Save(g); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventRandomnessRevealed,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id":     g.ID.Hex(),
			"first_mover": accountOf(g, transitions[g.Next].mover),
		},
	})
	return nil
}
