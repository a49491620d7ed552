package core

import (
	"encoding/binary"

	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// ShotStatus is a reported shot outcome.
type ShotStatus uint8

const (
	ShotNone ShotStatus = iota
	ShotMiss
	ShotHit
	ShotSunk
)

var shotNames = map[ShotStatus]string{
	ShotNone: "none",
	ShotMiss: "miss",
	ShotHit:  "hit",
	ShotSunk: "sunk",
}

func (s ShotStatus) String() string {
	if n, ok := shotNames[s]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether s is a reportable outcome.
func (s ShotStatus) Valid() bool {
	return s == ShotMiss || s == ShotHit || s == ShotSunk
}

// ItemKind tags a GameStatusItem.
type ItemKind uint8

const (
	ItemShot   ItemKind = 1
	ItemReport ItemKind = 2
)

// GameStatusItem is one atomic move unit: either a shot at a target cell or
// a report of the last shot's outcome (with sunk-ship head/end cells when the
// outcome is Sunk). Signature, when present, is a 65-byte compact session
// signature over the chain head that results from appending this item —
// i.e. over the accumulated history, not the item alone.
type GameStatusItem struct {
	Kind      ItemKind   `json:"kind"`
	Position  uint8      `json:"position,omitempty"` // shot target cell
	Result    ShotStatus `json:"result,omitempty"`   // report outcome
	SunkHead  uint8      `json:"sunk_head,omitempty"`
	SunkEnd   uint8      `json:"sunk_end,omitempty"`
	Signature []byte     `json:"signature,omitempty"`
}

// Encode returns the item's deterministic binary form. The signature is
// excluded: it covers the encoding, it is not part of it.
func (it *GameStatusItem) Encode() []byte {
	switch it.Kind {
	case ItemShot:
		return []byte{byte(ItemShot), it.Position}
	case ItemReport:
		return []byte{byte(ItemReport), byte(it.Result), it.SunkHead, it.SunkEnd}
	}
	return []byte{0}
}

// ExtendStatusHash appends one item to the move hash chain:
// next = Keccak256(prev || Encode(item)). The chain head is a commitment to
// the entire ordered history since game start, which is what lets a single
// signature over the head authenticate a whole batch of moves.
func ExtendStatusHash(prev crypto.Hash, it *GameStatusItem) crypto.Hash {
	return crypto.Keccak256(prev[:], it.Encode())
}

// VerifyChain folds items over the accumulator starting at initial and
// returns the final head. Off-chain clients use it to predict the head a
// batch will produce before signing it.
func VerifyChain(initial crypto.Hash, items []*GameStatusItem) crypto.Hash {
	h := initial
	for _, it := range items {
		h = ExtendStatusHash(h, it)
	}
	return h
}

// SurrenderHash is the message a session key signs to surrender game id.
func SurrenderHash(id crypto.Hash) crypto.Hash {
	return crypto.Keccak256(id[:], []byte("I surrender"))
}

// JoinConsentHash is the message a creator's account key signs off-chain to
// let a specific joiner take the open seat in game id until endTime.
func JoinConsentHash(id crypto.Hash, endTime int64, joiner string) crypto.Hash {
	var deadline [8]byte
	binary.BigEndian.PutUint64(deadline[:], uint64(endTime))
	return crypto.Keccak256(id[:], deadline[:], []byte(joiner))
}

// CheatClaimHash is the message a session key signs when reporting an
// outcome for a claimed fire position: Keccak256(prevHead || position).
// A valid opponent signature over a position that differs from the game's
// actual last shot is proof of cheating.
func CheatClaimHash(prev crypto.Hash, position uint8) crypto.Hash {
	return crypto.Keccak256(prev[:], []byte{position})
}
