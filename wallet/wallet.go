package wallet

import (
	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// Wallet holds an account key pair and provides operation-building helpers.
type Wallet struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv crypto.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(priv), nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() crypto.PrivateKey {
	return w.priv
}

// PubKey returns the hex-encoded ed25519 public key (the account identity).
func (w *Wallet) PubKey() string {
	return w.pub.Hex()
}

// NewOp creates a signed operation envelope. chainID must match the target
// network; nonce must match the account's current nonce.
func (w *Wallet) NewOp(chainID string, typ core.TxType, nonce uint64, payload any) (*core.Transaction, error) {
	tx, err := core.NewTransaction(chainID, typ, w.pub.Hex(), nonce, payload)
	if err != nil {
		return nil, err
	}
	tx.Sign(w.priv)
	return tx, nil
}

// Deposit builds a signed deposit operation.
func (w *Wallet) Deposit(chainID string, nonce, amount uint64) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxDeposit, nonce, core.DepositPayload{Amount: amount})
}

// Withdraw builds a signed withdraw operation. Empty recipient withdraws to
// the caller.
func (w *Wallet) Withdraw(chainID string, nonce, amount uint64, recipient string) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxWithdraw, nonce, core.WithdrawPayload{Amount: amount, Recipient: recipient})
}

// CreateGame builds a signed game-creation operation. The commitments are
// computed off-chain from the board layout and the initiative secret.
func (w *Wallet) CreateGame(chainID string, nonce uint64, p core.CreateGamePayload) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxCreateGame, nonce, p)
}

// JoinGame builds a signed join operation carrying the creator's consent
// signature obtained off-chain.
func (w *Wallet) JoinGame(chainID string, nonce uint64, p core.JoinGamePayload) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxJoinGame, nonce, p)
}

// ConsentToJoin produces the creator-side account signature that authorizes
// joiner to take the open seat of gameID until endTime.
func (w *Wallet) ConsentToJoin(gameID crypto.Hash, endTime int64, joiner string) string {
	h := core.JoinConsentHash(gameID, endTime, joiner)
	return crypto.Sign(w.priv, h[:])
}

// RevealRandomness builds the creator's initiative-reveal operation.
func (w *Wallet) RevealRandomness(chainID string, nonce uint64, gameID crypto.Hash, secret []byte) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxRevealRandomness, nonce, core.RevealRandomnessPayload{GameID: gameID, Secret: secret})
}

// SubmitGameStatus builds a batch-settlement operation.
func (w *Wallet) SubmitGameStatus(chainID string, nonce uint64, p core.SubmitGameStatusPayload) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxSubmitGameStatus, nonce, p)
}

// ReportShotResult builds a proof-backed shot-report operation.
func (w *Wallet) ReportShotResult(chainID string, nonce uint64, p core.ReportShotResultPayload) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxReportShotResult, nonce, p)
}

// ReportCheating builds a cheating-claim operation.
func (w *Wallet) ReportCheating(chainID string, nonce uint64, p core.ReportCheatingPayload) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxReportCheating, nonce, p)
}

// OpponentLeave builds a timeout-forfeit operation.
func (w *Wallet) OpponentLeave(chainID string, nonce uint64, gameID crypto.Hash) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxOpponentLeave, nonce, core.OpponentLeavePayload{GameID: gameID})
}

// Surrender builds a surrender operation. sig may be nil (the caller
// surrenders themselves) or a relayed session signature over the surrender
// digest.
func (w *Wallet) Surrender(chainID string, nonce uint64, gameID crypto.Hash, sig []byte) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxSurrender, nonce, core.SurrenderPayload{GameID: gameID, Signature: sig})
}

// CloseIdleGame builds the creator's abandon-unjoined-game operation.
func (w *Wallet) CloseIdleGame(chainID string, nonce uint64, gameID crypto.Hash) (*core.Transaction, error) {
	return w.NewOp(chainID, core.TxCloseIdleGame, nonce, core.CloseIdleGamePayload{GameID: gameID})
}
