package game

import (
	"encoding/json"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/registry"
	"github.com/jayden-sudo/ZK-Battleship/zk"
)

// handleReportShotResult settles the caller's own pending report with a
// zero-knowledge proof instead of an opponent counter-signature. The proof
// binds the claimed outcome, the fire position, and the caller's post-update
// hit mask to the caller's board commitment.
func handleReportShotResult(ctx *engine.Context, payload json.RawMessage) error {
	var p core.ReportShotResultPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("report_shot_result: decode payload: %w", err)
	}

	g, err := loadGame(ctx, p.GameID)
	if err != nil {
		return err
	}
	tr, ok := transitions[g.Next]
	if !ok || tr.kind != core.ItemReport {
		return fmt.Errorf("%w: game %s is %s, no report pending", core.ErrInvalidState, g.ID.Hex(), g.Next)
	}
	if ctx.Tx.From != accountOf(g, tr.mover) {
		return fmt.Errorf("%w: the pending report belongs to %s", core.ErrUnauthorized, accountOf(g, tr.mover))
	}
	if p.ExpectedStatusHash != g.CurrentStatusHash {
		return fmt.Errorf("%w: expected %s, chain head is %s",
			core.ErrStaleStatusHash, p.ExpectedStatusHash.Hex(), g.CurrentStatusHash.Hex())
	}
	if !p.Result.Valid() {
		return fmt.Errorf("invalid shot result %d", p.Result)
	}

	board := *hitsOf(g, tr.defender)
	if p.Result == core.ShotHit || p.Result == core.ShotSunk {
		board = board.SetBit(g.FireAt)
	}

	packed := zk.PackShotInputs(p.Result, g.FireAt, board, p.SunkHead, p.SunkEnd)
	inputs := zk.ShotInputs(boardCommitmentOf(g, tr.mover), packed)
	valid, err := ctx.Proof.VerifyShot(p.Proof, inputs)
	if err != nil {
		return fmt.Errorf("verify shot proof: %w", err)
	}
	if !valid {
		return fmt.Errorf("%w: shot result proof rejected", core.ErrInvalidProof)
	}

	item := &core.GameStatusItem{
		Kind:     core.ItemReport,
		Result:   p.Result,
		SunkHead: p.SunkHead,
		SunkEnd:  p.SunkEnd,
	}
	g.PreviousStatusHash = g.CurrentStatusHash
	g.CurrentStatusHash = core.ExtendStatusHash(g.CurrentStatusHash, item)
	*hitsOf(g, tr.defender) = board
	g.Next = tr.next
	g.LastActiveAt = ctx.Now

	if board.PopCount() >= core.HitsToWin {
		if err := finalize(ctx, g, accountOf(g, tr.mover.other()), "all ships sunk"); err != nil {
			return err
		}
	} else if err := registry.New(ctx.State).Save(g); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventShotResultReported,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id":  g.ID.Hex(),
			"reporter": ctx.Tx.From,
			"result":   p.Result.String(),
			"position": g.FireAt,
		},
	})
	return nil
}

// handleReportCheating ends the game against an opponent who signed a shot
// report for a fire position that is not the position actually on the chain.
// The signature itself is the evidence; no proof system is involved.
func handleReportCheating(ctx *engine.Context, payload json.RawMessage) error {
	var p core.ReportCheatingPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("report_cheating: decode payload: %w", err)
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

	if p.FirePosition == g.FireAt {
		return fmt.Errorf("%w: claimed position matches the actual shot", core.ErrInvalidProof)
	}
	claim := core.CheatClaimHash(g.PreviousStatusHash, p.FirePosition)
	addr, err := crypto.RecoverSession(claim, p.Signature)
	if err != nil {
		return fmt.Errorf("%w: cheat claim: %v", core.ErrInvalidSignature, err)
	}
	if addr != sessionKeyOf(g, r.other()) {
		return fmt.Errorf("%w: claim not signed by the opponent's session key", core.ErrInvalidSignature)
	}

	return finalize(ctx, g, ctx.Tx.From, "opponent signed a report for a forged fire position")
}
