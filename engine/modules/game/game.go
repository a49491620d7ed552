// Package game implements the match lifecycle: creation, joining, the
// initiative reveal, batched move settlement, proof-backed shot reports, and
// the endgame paths (surrender, cheating claims, timeouts, idle close).
package game

import (
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
	"github.com/jayden-sudo/ZK-Battleship/registry"
)

func init() {
	engine.Register(core.TxCreateGame, handleCreateGame)
	engine.Register(core.TxJoinGame, handleJoinGame)
	engine.Register(core.TxRevealRandomness, handleRevealRandomness)
	engine.Register(core.TxSubmitGameStatus, handleSubmitGameStatus)
	engine.Register(core.TxReportShotResult, handleReportShotResult)
	engine.Register(core.TxReportCheating, handleReportCheating)
	engine.Register(core.TxSurrender, handleSurrender)
	engine.Register(core.TxOpponentLeave, handleOpponentLeave)
	engine.Register(core.TxCloseIdleGame, handleCloseIdleGame)
}

func loadGame(ctx *engine.Context, id crypto.Hash) (*core.Game, error) {
	g, err := ctx.State.GetGame(id)
	if err == core.ErrNotFound {
		return nil, fmt.Errorf("%w: game %s", core.ErrNotFound, id.Hex())
	}
	return g, err
}

func roleOf(g *core.Game, user string) (role, error) {
	switch user {
	case g.Creator:
		return roleCreator, nil
	case g.Joiner:
		if g.Joiner != "" {
			return roleJoiner, nil
		}
	}
	return 0, fmt.Errorf("%w: %s is not a player of game %s", core.ErrUnauthorized, user, g.ID.Hex())
}

func accountOf(g *core.Game, r role) string {
	if r == roleCreator {
		return g.Creator
	}
	return g.Joiner
}

func sessionKeyOf(g *core.Game, r role) crypto.Address {
	if r == roleCreator {
		return g.CreatorSessionKey
	}
	return g.JoinerSessionKey
}

func boardCommitmentOf(g *core.Game, r role) crypto.Hash {
	if r == roleCreator {
		return g.CreatorBoardCommitment
	}
	return g.JoinerBoardCommitment
}

// hitsOf returns a pointer to the bitmask of confirmed hits against r's board.
func hitsOf(g *core.Game, r role) *core.BitBoard {
	if r == roleCreator {
		return &g.CreatorBoard
	}
	return &g.JoinerBoard
}

// finalize ends an in-progress game. An empty winner means a draw-style
// close: both stakes unlock. Otherwise the loser's stake moves to the winner.
// Either way both players are freed for new games and the record stays in
// Completed as a tombstone.
func finalize(ctx *engine.Context, g *core.Game, winner, reason string) error {
	reg := registry.New(ctx.State)
	lgr := ledger.New(ctx.State, nil)

	if err := reg.Clear(g.Creator); err != nil {
		return err
	}
	if g.Joiner != "" {
		if err := reg.Clear(g.Joiner); err != nil {
			return err
		}
	}

	if winner == "" {
		if err := lgr.Unlock(g.Creator, g.Stake); err != nil {
			return err
		}
		if g.Joiner != "" {
			if err := lgr.Unlock(g.Joiner, g.Stake); err != nil {
				return err
			}
		}
	} else {
		loser := g.Opponent(winner)
		if err := lgr.Settle(winner, loser, g.Stake); err != nil {
			return err
		}
	}

	g.Next = core.StateCompleted
	g.LastActiveAt = ctx.Now
	if err := reg.Save(g); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventGameEnded,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data: map[string]any{
			"game_id": g.ID.Hex(),
			"winner":  winner,
			"reason":  reason,
		},
	})
	return nil
}
