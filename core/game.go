package core

import "github.com/jayden-sudo/ZK-Battleship/crypto"

// NextTurnState is the game lifecycle phase. It fully determines whose
// signature or action is valid next. Blank and Completed are absorbing.
type NextTurnState uint8

const (
	StateBlank NextTurnState = iota
	StateJoin
	StateRevealRandomness
	StateCreatorFire
	StateJoinerFire
	StateCreatorReport
	StateJoinerReport
	StateCompleted
)

var stateNames = map[NextTurnState]string{
	StateBlank:            "blank",
	StateJoin:             "join",
	StateRevealRandomness: "reveal_randomness",
	StateCreatorFire:      "creator_fire",
	StateJoinerFire:       "joiner_fire",
	StateCreatorReport:    "creator_report",
	StateJoinerReport:     "joiner_report",
	StateCompleted:        "completed",
}

func (s NextTurnState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// InProgress reports whether both players are committed and the game has not
// ended. These are the states surrender, reportCheating and opponentLeave
// operate on.
func (s NextTurnState) InProgress() bool {
	return s >= StateRevealRandomness && s <= StateJoinerReport
}

// Game is one match record. Board layouts never appear here — only their
// commitments and the bitmasks of confirmed hits.
type Game struct {
	ID      crypto.Hash `json:"id"`
	Creator string      `json:"creator"`          // account pubkey hex
	Joiner  string      `json:"joiner,omitempty"` // empty until joined

	CreatorRandomnessCommitment crypto.Hash `json:"creator_randomness_commitment"`
	CreatorBoardCommitment      crypto.Hash `json:"creator_board_commitment"`
	JoinerBoardCommitment       crypto.Hash `json:"joiner_board_commitment"`

	// Hash-chain accumulator over the move sequence. Current is the chain
	// head; Previous is the head before the most recent extension (needed to
	// check counter-signed cheating claims). The chain starts at the game id
	// so signed heads can never be replayed across games.
	PreviousStatusHash crypto.Hash `json:"previous_status_hash"`
	CurrentStatusHash  crypto.Hash `json:"current_status_hash"`

	CreatorSessionKey crypto.Address `json:"creator_session_key"`
	JoinerSessionKey  crypto.Address `json:"joiner_session_key"`

	Stake        uint64 `json:"stake"`
	LastActiveAt int64  `json:"last_active_at"` // unix seconds, trusted clock

	// Confirmed hits against each player's own board.
	CreatorBoard BitBoard `json:"creator_board"`
	JoinerBoard  BitBoard `json:"joiner_board"`

	Next   NextTurnState `json:"next_turn_state"`
	FireAt uint8         `json:"fire_at"` // most recent shot target, pending report
}

// IsPlayer reports whether user is one of the two parties.
func (g *Game) IsPlayer(user string) bool {
	return user == g.Creator || (g.Joiner != "" && user == g.Joiner)
}

// Opponent returns the other party's identity, or "" if user is not a player.
func (g *Game) Opponent(user string) string {
	switch user {
	case g.Creator:
		return g.Joiner
	case g.Joiner:
		return g.Creator
	}
	return ""
}

// TimeoutPolicy holds per-phase idle-forfeiture windows in seconds. The
// reveal phase gets a longer window than a standard round.
type TimeoutPolicy struct {
	RevealTimeout int64 `json:"reveal_timeout"`
	RoundTimeout  int64 `json:"round_timeout"`
}

// DefaultTimeouts returns 24h for the reveal phase and 1h per round.
func DefaultTimeouts() TimeoutPolicy {
	return TimeoutPolicy{RevealTimeout: 24 * 3600, RoundTimeout: 3600}
}

// For returns the idle window for the given phase.
func (p TimeoutPolicy) For(s NextTurnState) int64 {
	if s == StateRevealRandomness {
		return p.RevealTimeout
	}
	return p.RoundTimeout
}
