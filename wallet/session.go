package wallet

import (
	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// SessionWallet wraps an ephemeral per-game session key. Session signatures
// authenticate the fast off-chain move exchange; the account key never
// touches individual moves.
type SessionWallet struct {
	key *crypto.SessionKey
}

// NewSession creates a SessionWallet with a fresh session key.
func NewSession() (*SessionWallet, error) {
	key, err := crypto.GenerateSessionKey()
	if err != nil {
		return nil, err
	}
	return &SessionWallet{key: key}, nil
}

// SessionFromBytes restores a SessionWallet from a serialized key.
func SessionFromBytes(b []byte) *SessionWallet {
	return &SessionWallet{key: crypto.SessionKeyFromBytes(b)}
}

// Address returns the 20-byte address registered in the game record.
func (s *SessionWallet) Address() crypto.Address {
	return s.key.Address()
}

// Serialize returns the raw private key bytes (handle with care).
func (s *SessionWallet) Serialize() []byte {
	return s.key.Serialize()
}

// SignItem signs the chain head that results from appending item to prev and
// stores the signature on the item. It returns the new head so callers can
// chain further items.
func (s *SessionWallet) SignItem(prev crypto.Hash, item *core.GameStatusItem) crypto.Hash {
	head := core.ExtendStatusHash(prev, item)
	item.Signature = s.key.SignHash(head)
	return head
}

// SignSurrender produces the relayable surrender signature for gameID.
func (s *SessionWallet) SignSurrender(gameID crypto.Hash) []byte {
	return s.key.SignHash(core.SurrenderHash(gameID))
}

// SignCheatClaim signs a shot-report claim for a fire position against the
// chain head preceding the shot being reported. Honest clients sign only the
// position actually fired at.
func (s *SessionWallet) SignCheatClaim(prev crypto.Hash, position uint8) []byte {
	return s.key.SignHash(core.CheatClaimHash(prev, position))
}
