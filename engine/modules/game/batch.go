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

// handleSubmitGameStatus settles a batch of off-chain moves against the move
// hash chain. Authorization is positional:
//
//   - an item produced by the submitter's opponent must carry the opponent's
//     session signature over the chain head that includes the item;
//   - the submitter's own items mid-batch need no signature, because a later
//     opponent-signed head commits to them transitively;
//   - the submitter's own shot may stand unsigned as the final item only in a
//     single-item batch (the envelope signature authorizes it);
//   - the submitter's own report can never be the final item here: claims
//     about one's own board require the proof-backed report operation.
func handleSubmitGameStatus(ctx *engine.Context, payload json.RawMessage) error {
	var p core.SubmitGameStatusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("submit_game_status: decode payload: %w", err)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("submit_game_status: empty batch")
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	if _, err := roleOf(g, ctx.Tx.From); err != nil {
		return err
	}
	if _, ok := transitions[g.Next]; !ok {
		return fmt.Errorf("%w: game %s is %s, no moves accepted", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if p.ExpectedStatusHash != g.CurrentStatusHash {
		return fmt.Errorf("%w: expected %s, chain head is %s",
			core.ErrStaleStatusHash, p.ExpectedStatusHash.Hex(), g.CurrentStatusHash.Hex())
	}

	caller := ctx.Tx.From
	processed := 0
	var winner string

	for i, it := range p.Items {
		tr, ok := transitions[g.Next]
		if !ok {
			// The game completed earlier in this batch; trailing items
			// are void.
			break
		}
		if it.Kind != tr.kind {
			return fmt.Errorf("%w: item %d: phase %s expects kind %d, got %d",
				core.ErrInvalidState, i, g.Next, tr.kind, it.Kind)
		}

		newHash := core.ExtendStatusHash(g.CurrentStatusHash, it)
		own := accountOf(g, tr.mover) == caller
		last := i == len(p.Items)-1

		if own {
			if last && it.Kind == core.ItemShot && len(p.Items) > 1 {
				return fmt.Errorf("%w: an unsigned own shot must be the sole item", core.ErrInvalidSignature)
			}
			if last && it.Kind == core.ItemReport {
				return fmt.Errorf("%w: own report requires a shot-result proof", core.ErrInvalidProof)
			}
		} else {
			addr, err := crypto.RecoverSession(newHash, it.Signature)
			if err != nil {
				return fmt.Errorf("%w: item %d: %v", core.ErrInvalidSignature, i, err)
			}
			if addr != sessionKeyOf(g, tr.mover) {
				return fmt.Errorf("%w: item %d signed by %s, want %s's session key",
					core.ErrInvalidSignature, i, addr.Hex(), accountOf(g, tr.mover))
			}
		}

		switch it.Kind {
		case core.ItemShot:
			if it.Position >= core.BoardCells {
				return fmt.Errorf("%w: item %d: position %d", core.ErrPositionOutOfRange, i, it.Position)
			}
			if hitsOf(g, tr.defender).IsSet(it.Position) {
				return fmt.Errorf("%w: item %d: cell %d already hit", core.ErrPositionTargeted, i, it.Position)
			}
			g.FireAt = it.Position
		case core.ItemReport:
			if !it.Result.Valid() {
				return fmt.Errorf("item %d: invalid shot result %d", i, it.Result)
			}
			if it.Result == core.ShotHit || it.Result == core.ShotSunk {
				b := hitsOf(g, tr.defender)
				*b = b.SetBit(g.FireAt)
				if b.PopCount() >= core.HitsToWin {
					winner = accountOf(g, tr.mover.other())
				}
			}
		}

		g.PreviousStatusHash = g.CurrentStatusHash
		g.CurrentStatusHash = newHash
		g.Next = tr.next
		g.LastActiveAt = ctx.Now
		processed++

		if winner != "" {
			if err := finalize(ctx, g, winner, "all ships sunk"); err != nil {
				return err
			}
			break
		}
	}

	if winner == "" {
		if err := registry.New(ctx.State).Save(g); err != nil {
			return err
		}
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventGameStatusSubmit,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id":   g.ID.Hex(),
			"submitter": caller,
			"processed": processed,
			"head":      g.CurrentStatusHash.Hex(),
		},
	})
	return nil
}
