// Package ledger implements per-user total/locked balance bookkeeping:
// stake escrow during a game's lifetime and settlement on completion.
package ledger

import (
	"fmt"
	"math"

	"github.com/jayden-sudo/ZK-Battleship/core"
)

// Transferer moves withdrawn value out of the engine. It is an external
// collaborator; a failed transfer must fail the whole withdraw operation so
// the executor's snapshot rolls the debit back.
type Transferer interface {
	Transfer(recipient string, amount uint64) error
}

// TransferFunc adapts a function to the Transferer interface.
type TransferFunc func(recipient string, amount uint64) error

func (f TransferFunc) Transfer(recipient string, amount uint64) error {
	return f(recipient, amount)
}

// Ledger mutates balances through transfer-style operations only. All checks
// happen before any mutation, so a later failure in the same operation never
// leaves a balance half-updated.
type Ledger struct {
	state    core.State
	transfer Transferer // only needed for Withdraw
}

// New creates a Ledger over state. transfer may be nil when the caller never
// withdraws.
func New(state core.State, transfer Transferer) *Ledger {
	return &Ledger{state: state, transfer: transfer}
}

// Balance returns the user's record (zero-value for unknown users).
func (l *Ledger) Balance(user string) (*core.UserBalance, error) {
	return l.state.GetBalance(user)
}

// Deposit credits the user's total balance. Always succeeds short of
// overflow.
func (l *Ledger) Deposit(user string, amount uint64) error {
	b, err := l.state.GetBalance(user)
	if err != nil {
		return err
	}
	if b.Total > math.MaxUint64-amount {
		return fmt.Errorf("deposit overflows balance of %s", user)
	}
	b.Total += amount
	return l.state.SetBalance(b)
}

// Withdraw debits the user's unlocked balance and hands the value to the
// external transferer.
func (l *Ledger) Withdraw(user string, amount uint64, recipient string) error {
	b, err := l.state.GetBalance(user)
	if err != nil {
		return err
	}
	if amount > b.Available() {
		return fmt.Errorf("%w: have %d unlocked, need %d", core.ErrInsufficientFunds, b.Available(), amount)
	}
	b.Total -= amount
	if err := l.state.SetBalance(b); err != nil {
		return err
	}
	if l.transfer == nil {
		return fmt.Errorf("no transferer configured for withdraw")
	}
	return l.transfer.Transfer(recipient, amount)
}

// Lock moves amount from the user's unlocked headroom into escrow.
func (l *Ledger) Lock(user string, amount uint64) error {
	b, err := l.state.GetBalance(user)
	if err != nil {
		return err
	}
	if amount > b.Available() {
		return fmt.Errorf("%w: have %d unlocked, need %d", core.ErrInsufficientFunds, b.Available(), amount)
	}
	b.Locked += amount
	return l.state.SetBalance(b)
}

// Unlock releases amount of the user's escrow back to unlocked headroom.
func (l *Ledger) Unlock(user string, amount uint64) error {
	b, err := l.state.GetBalance(user)
	if err != nil {
		return err
	}
	if amount > b.Locked {
		return fmt.Errorf("unlock %d exceeds locked %d for %s", amount, b.Locked, user)
	}
	b.Locked -= amount
	return l.state.SetBalance(b)
}

// Settle releases both players' escrowed stakes and transfers the loser's
// stake to the winner. The caller guarantees both sides hold stake in
// escrow; a shortfall here is an invariant breach, not a user error.
func (l *Ledger) Settle(winner, loser string, stake uint64) error {
	wb, err := l.state.GetBalance(winner)
	if err != nil {
		return err
	}
	lb, err := l.state.GetBalance(loser)
	if err != nil {
		return err
	}
	if wb.Locked < stake || lb.Locked < stake {
		return fmt.Errorf("settle invariant breach: locked %d/%d below stake %d", wb.Locked, lb.Locked, stake)
	}
	wb.Locked -= stake
	lb.Locked -= stake
	wb.Total += stake
	lb.Total -= stake
	if err := l.state.SetBalance(wb); err != nil {
		return err
	}
	return l.state.SetBalance(lb)
}
