// Package bank implements the deposit and withdraw operations over the
// platform ledger.
package bank

import (
	"encoding/json"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
)

func init() {
	engine.Register(core.TxDeposit, handleDeposit)
	engine.Register(core.TxWithdraw, handleWithdraw)
}

func handleDeposit(ctx *engine.Context, payload json.RawMessage) error {
	var p core.DepositPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("deposit: decode payload: %w", err)
	}
	if p.Amount == 0 {
		return fmt.Errorf("deposit: amount must be positive")
	}

	lgr := ledger.New(ctx.State, ctx.Transfer)
	if err := lgr.Deposit(ctx.Tx.From, p.Amount); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventDeposited,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data:      map[string]any{"user": ctx.Tx.From, "amount": p.Amount},
	})
	return nil
}

func handleWithdraw(ctx *engine.Context, payload json.RawMessage) error {
	var p core.WithdrawPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("withdraw: decode payload: %w", err)
	}
	if p.Amount == 0 {
		return fmt.Errorf("withdraw: amount must be positive")
	}
	recipient := p.Recipient
	if recipient == "" {
		recipient = ctx.Tx.From
	}

	// Locked stakes stay locked; only the available balance may leave. If
	// the external transfer fails the executor rolls the debit back.
	lgr := ledger.New(ctx.State, ctx.Transfer)
	if err := lgr.Withdraw(ctx.Tx.From, p.Amount, recipient); err != nil {
		return err
	}

	ctx.Emitter.Emit(events.Event{
		Type:      events.EventWithdrawn,
		OpID:      ctx.Tx.ID,
		Timestamp: ctx.Now,
		Data:      map[string]any{"user": ctx.Tx.From, "recipient": recipient, "amount": p.Amount},
	})
	return nil
}
