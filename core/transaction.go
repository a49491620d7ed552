package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// TxType identifies the operation a transaction performs.
type TxType string

const (
	TxDeposit          TxType = "deposit"
	TxWithdraw         TxType = "withdraw"
	TxCreateGame       TxType = "create_game"
	TxJoinGame         TxType = "join_game"
	TxRevealRandomness TxType = "reveal_randomness"
	TxCloseIdleGame    TxType = "close_idle_game"
	TxOpponentLeave    TxType = "opponent_leave"
	TxSurrender        TxType = "surrender"
	TxSubmitGameStatus TxType = "submit_game_status"
	TxReportCheating   TxType = "report_cheating"
	TxReportShotResult TxType = "report_shot_result"
)

// Transaction is the signed envelope every externally-triggered operation
// arrives in. From holds the caller's hex-encoded ed25519 account public key.
// Signature covers all fields except ID and Signature itself.
type Transaction struct {
	ID        string          `json:"id"`
	ChainID   string          `json:"chain_id"`
	Type      TxType          `json:"type"`
	From      string          `json:"from"` // account pubkey hex
	Nonce     uint64          `json:"nonce"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
}

// signingBody holds the fields covered by the signature.
type signingBody struct {
	ChainID   string          `json:"chain_id"`
	Type      TxType          `json:"type"`
	From      string          `json:"from"`
	Nonce     uint64          `json:"nonce"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// SigningHash returns the deterministic digest of the envelope sans ID and
// Signature.
func (tx *Transaction) SigningHash() crypto.Hash {
	body := signingBody{
		ChainID:   tx.ChainID,
		Type:      tx.Type,
		From:      tx.From,
		Nonce:     tx.Nonce,
		Timestamp: tx.Timestamp,
		Payload:   tx.Payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return crypto.ZeroHash // cannot happen: every field marshals
	}
	return crypto.Keccak256(data)
}

// Sign computes the signature and sets ID.
func (tx *Transaction) Sign(priv crypto.PrivateKey) {
	h := tx.SigningHash()
	tx.Signature = crypto.Sign(priv, h[:])
	tx.ID = h.Hex()
}

// Verify checks the signature and that From is a valid account public key.
func (tx *Transaction) Verify() error {
	if tx.From == "" {
		return errors.New("missing from field")
	}
	pub, err := crypto.PubKeyFromHex(tx.From)
	if err != nil {
		return fmt.Errorf("invalid from (must be ed25519 pubkey hex): %w", err)
	}
	h := tx.SigningHash()
	return crypto.Verify(pub, h[:], tx.Signature)
}

// NewTransaction creates an unsigned envelope with the current timestamp.
func NewTransaction(chainID string, typ TxType, from string, nonce uint64, payload any) (*Transaction, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Transaction{
		ChainID:   chainID,
		Type:      typ,
		From:      from,
		Nonce:     nonce,
		Timestamp: time.Now().Unix(),
		Payload:   raw,
	}, nil
}

// ---- Payload types ----

// DepositPayload credits the caller's total balance.
type DepositPayload struct {
	Amount uint64 `json:"amount"`
}

// WithdrawPayload moves unlocked balance out to a recipient.
type WithdrawPayload struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

// CreateGamePayload opens a game in Join state and locks the creator's stake.
type CreateGamePayload struct {
	RandomnessCommitment crypto.Hash    `json:"randomness_commitment"`
	BoardCommitment      crypto.Hash    `json:"board_commitment"`
	Stake                uint64         `json:"stake"`
	SessionKey           crypto.Address `json:"session_key"`
}

// JoinGamePayload joins a waiting game. CreatorSignature is the creator's
// account signature over the join-consent digest, binding off-chain
// matchmaking consent to this specific joiner until EndTime.
type JoinGamePayload struct {
	GameID           crypto.Hash    `json:"game_id"`
	BoardCommitment  crypto.Hash    `json:"board_commitment"`
	SessionKey       crypto.Address `json:"session_key"`
	EndTime          int64          `json:"end_time"`
	CreatorSignature string         `json:"creator_signature"`
}

// RevealRandomnessPayload opens the creator's initiative commitment.
type RevealRandomnessPayload struct {
	GameID crypto.Hash `json:"game_id"`
	Secret []byte      `json:"secret"`
}

// SubmitGameStatusPayload applies a batch of off-chain moves.
type SubmitGameStatusPayload struct {
	GameID             crypto.Hash       `json:"game_id"`
	ExpectedStatusHash crypto.Hash       `json:"expected_status_hash"`
	Items              []*GameStatusItem `json:"items"`
}

// ReportShotResultPayload reports the caller's own shot result with a proof.
type ReportShotResultPayload struct {
	GameID             crypto.Hash `json:"game_id"`
	ExpectedStatusHash crypto.Hash `json:"expected_status_hash"`
	Result             ShotStatus  `json:"result"`
	SunkHead           uint8       `json:"sunk_head,omitempty"`
	SunkEnd            uint8       `json:"sunk_end,omitempty"`
	Proof              []byte      `json:"proof"`
}

// ReportCheatingPayload proves the opponent signed a report for the wrong
// fire position.
type ReportCheatingPayload struct {
	GameID       crypto.Hash `json:"game_id"`
	FirePosition uint8       `json:"fire_position"`
	Signature    []byte      `json:"signature"` // opponent compact session sig
}

// OpponentLeavePayload forfeits an idle opponent after the phase timeout.
type OpponentLeavePayload struct {
	GameID crypto.Hash `json:"game_id"`
}

// SurrenderPayload ends the game in the opponent's favor. Empty Signature
// means the caller surrenders themselves; otherwise Signature is a relayed
// compact session signature over the surrender digest from either side.
type SurrenderPayload struct {
	GameID    crypto.Hash `json:"game_id"`
	Signature []byte      `json:"signature,omitempty"`
}

// CloseIdleGamePayload lets the creator abandon a game nobody joined.
type CloseIdleGamePayload struct {
	GameID crypto.Hash `json:"game_id"`
}
