package core

// UserBalance holds a participant's stake-custody bookkeeping and the
// replay-protection nonce for the operation envelope.
// Invariant: Locked <= Total after every operation.
type UserBalance struct {
	User   string `json:"user"` // account pubkey hex
	Total  uint64 `json:"total"`
	Locked uint64 `json:"locked"`
	Nonce  uint64 `json:"nonce"`
}

// Available returns the withdrawable amount.
func (b *UserBalance) Available() uint64 {
	return b.Total - b.Locked
}
