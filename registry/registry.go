// Package registry provides keyed storage of game records, the
// one-active-game-per-user constraint, and the ordered index of games
// awaiting a second player.
package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// sentinel anchors the circular waiting ring. Real ids are Keccak-256
// outputs, so a fixed low constant can never collide with one.
var sentinel = crypto.Hash{31: 0x01}

// Registry wraps a core.State with game-record bookkeeping.
type Registry struct {
	state core.State
}

// New creates a Registry over state.
func New(state core.State) *Registry {
	return &Registry{state: state}
}

// DeriveID computes the deterministic game id from the creating user and the
// creation parameters. Replaying an identical create call derives the same
// id and is rejected instead of silently duplicated.
func DeriveID(creator string, p *core.CreateGamePayload) crypto.Hash {
	var stake [8]byte
	binary.BigEndian.PutUint64(stake[:], p.Stake)
	return crypto.Keccak256(
		[]byte(creator),
		p.RandomnessCommitment[:],
		p.BoardCommitment[:],
		stake[:],
		p.SessionKey[:],
	)
}

// Create stores a new game record. A Blank game is an absent record, so any
// existing record at the id means the id is taken.
func (r *Registry) Create(g *core.Game) error {
	if _, err := r.state.GetGame(g.ID); err == nil {
		return fmt.Errorf("%w: id %s", core.ErrAlreadyExists, g.ID.Hex())
	} else if err != core.ErrNotFound {
		return err
	}
	return r.state.SetGame(g)
}

// Get loads a game record.
func (r *Registry) Get(id crypto.Hash) (*core.Game, error) {
	return r.state.GetGame(id)
}

// Save persists an updated game record.
func (r *Registry) Save(g *core.Game) error {
	return r.state.SetGame(g)
}

// Delete removes a game record, returning the id to Blank.
func (r *Registry) Delete(id crypto.Hash) error {
	return r.state.DeleteGame(id)
}

// Assign maps user to the given game id, enforcing one active game per user.
func (r *Registry) Assign(user string, id crypto.Hash) error {
	cur, err := r.state.GetActiveGame(user)
	if err != nil {
		return err
	}
	if !cur.IsZero() {
		return fmt.Errorf("%w: %s in game %s", core.ErrAlreadyInGame, user, cur.Hex())
	}
	return r.state.SetActiveGame(user, id)
}

// Clear removes the user's active-game mapping.
func (r *Registry) Clear(user string) error {
	return r.state.ClearActiveGame(user)
}

// ActiveGame returns the user's current game id, or ZeroHash.
func (r *Registry) ActiveGame(user string) (crypto.Hash, error) {
	return r.state.GetActiveGame(user)
}

// ---- waiting ring ----
//
// Games awaiting a joiner sit on a circular linked list anchored at the
// sentinel. A prev-pointer map sits alongside the next-pointer map so that
// removal of an arbitrary id stays O(1).

func (r *Registry) nextOf(id crypto.Hash) (crypto.Hash, error) {
	n, err := r.state.GetWaitingNext(id)
	if err == core.ErrNotFound {
		if id == sentinel {
			return sentinel, nil // empty ring
		}
		return crypto.ZeroHash, err
	}
	return n, err
}

func (r *Registry) prevOf(id crypto.Hash) (crypto.Hash, error) {
	p, err := r.state.GetWaitingPrev(id)
	if err == core.ErrNotFound {
		if id == sentinel {
			return sentinel, nil
		}
		return crypto.ZeroHash, err
	}
	return p, err
}

// AddWaiting links id into the ring right after the sentinel. O(1).
func (r *Registry) AddWaiting(id crypto.Hash) error {
	head, err := r.nextOf(sentinel)
	if err != nil {
		return err
	}
	if err := r.state.SetWaitingNext(id, head); err != nil {
		return err
	}
	if err := r.state.SetWaitingPrev(id, sentinel); err != nil {
		return err
	}
	if err := r.state.SetWaitingPrev(head, id); err != nil {
		return err
	}
	return r.state.SetWaitingNext(sentinel, id)
}

// RemoveWaiting unlinks id from the ring. O(1); a no-op for ids not in the
// ring.
func (r *Registry) RemoveWaiting(id crypto.Hash) error {
	n, err := r.state.GetWaitingNext(id)
	if err == core.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	p, err := r.prevOf(id)
	if err != nil {
		return err
	}
	if err := r.state.SetWaitingNext(p, n); err != nil {
		return err
	}
	if err := r.state.SetWaitingPrev(n, p); err != nil {
		return err
	}
	if err := r.state.DeleteWaitingNext(id); err != nil {
		return err
	}
	return r.state.DeleteWaitingPrev(id)
}

// ListWaiting walks the ring starting after cursor (ZeroHash = from the
// head) and returns up to limit waiting game ids. The last returned id is
// the cursor for the next page.
func (r *Registry) ListWaiting(cursor crypto.Hash, limit int) ([]crypto.Hash, error) {
	start := cursor
	if start.IsZero() {
		start = sentinel
	}
	var ids []crypto.Hash
	cur, err := r.nextOf(start)
	if err != nil {
		return nil, err
	}
	for cur != sentinel && len(ids) < limit {
		ids = append(ids, cur)
		cur, err = r.nextOf(cur)
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
