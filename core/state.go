package core

import "github.com/jayden-sudo/ZK-Battleship/crypto"

// State is the full engine state interface. Implementations must be
// snapshot-able so the executor can roll back failed operations; an
// operation either fully commits or leaves all state exactly as before.
type State interface {
	// Games
	GetGame(id crypto.Hash) (*Game, error)
	SetGame(g *Game) error
	DeleteGame(id crypto.Hash) error

	// Balances. GetBalance returns a zero-value record for unknown users.
	GetBalance(user string) (*UserBalance, error)
	SetBalance(b *UserBalance) error

	// One-active-game-per-user mapping. GetActiveGame returns ZeroHash when
	// the user has no active game.
	GetActiveGame(user string) (crypto.Hash, error)
	SetActiveGame(user string, id crypto.Hash) error
	ClearActiveGame(user string) error

	// Waiting-ring pointers (games awaiting a joiner). Absent keys return
	// ErrNotFound.
	GetWaitingNext(id crypto.Hash) (crypto.Hash, error)
	SetWaitingNext(id, next crypto.Hash) error
	DeleteWaitingNext(id crypto.Hash) error
	GetWaitingPrev(id crypto.Hash) (crypto.Hash, error)
	SetWaitingPrev(id, prev crypto.Hash) error
	DeleteWaitingPrev(id crypto.Hash) error

	// Snapshot / rollback / commit
	Snapshot() (int, error)
	RevertToSnapshot(id int) error
	// ComputeRoot returns the deterministic root of the full state from the
	// current write buffer without flushing.
	ComputeRoot() string
	// Commit flushes the write buffer to the underlying DB and clears it.
	Commit() error
}
