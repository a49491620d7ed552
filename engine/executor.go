package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
	"github.com/jayden-sudo/ZK-Battleship/zk"
)

// Context is passed to every Handler and provides access to the engine
// state, the triggering transaction, the trusted clock reading, and the
// external collaborators.
type Context struct {
	State    core.State
	Tx       *core.Transaction
	Emitter  *events.Emitter
	Now      int64 // unix seconds, monotonically non-decreasing across ops
	Timeouts core.TimeoutPolicy
	Proof    zk.Verifier
	Transfer ledger.Transferer
}

// Options configures an Executor. Zero fields get safe defaults: a real
// clock, default timeouts, and a proof verifier that rejects everything.
type Options struct {
	ChainID  string
	Clock    clock.Clock
	Timeouts core.TimeoutPolicy
	Proof    zk.Verifier
	Transfer ledger.Transferer
}

// Executor applies operations to the state using the global Handler
// registry. It is the single serialized writer: operations never interleave,
// and each either fully commits or reverts to its entry snapshot.
type Executor struct {
	mu       sync.Mutex
	state    core.State
	emitter  *events.Emitter
	chainID  string
	clock    clock.Clock
	timeouts core.TimeoutPolicy
	proof    zk.Verifier
	transfer ledger.Transferer
	lastNow  int64
}

// NewExecutor creates an Executor over state.
func NewExecutor(state core.State, emitter *events.Emitter, opts Options) *Executor {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Timeouts == (core.TimeoutPolicy{}) {
		opts.Timeouts = core.DefaultTimeouts()
	}
	if opts.Proof == nil {
		opts.Proof = zk.StubVerifier{Accept: false}
	}
	return &Executor{
		state:    state,
		emitter:  emitter,
		chainID:  opts.ChainID,
		clock:    opts.Clock,
		timeouts: opts.Timeouts,
		proof:    opts.Proof,
		transfer: opts.Transfer,
	}
}

// Execute verifies and applies a single operation with snapshot/rollback,
// then flushes the write buffer. Any error means no state changed.
func (e *Executor) Execute(tx *core.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tx.ChainID != e.chainID {
		return fmt.Errorf("chain ID mismatch: got %q want %q", tx.ChainID, e.chainID)
	}
	if err := tx.Verify(); err != nil {
		return fmt.Errorf("%w: envelope: %v", core.ErrInvalidSignature, err)
	}

	// Timeouts are judged against this trusted reading, never against a
	// participant-supplied timestamp.
	now := e.clock.Now().Unix()
	if now < e.lastNow {
		now = e.lastNow
	}
	e.lastNow = now

	snapID, err := e.state.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := e.apply(tx, now); err != nil {
		if revertErr := e.state.RevertToSnapshot(snapID); revertErr != nil {
			return fmt.Errorf("revert snapshot after op failure: %w (revert: %v)", err, revertErr)
		}
		return err
	}

	root := e.state.ComputeRoot()
	if err := e.state.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if e.emitter != nil {
		e.emitter.Emit(events.Event{
			Type:      events.EventOpExecuted,
			OpID:      tx.ID,
			Timestamp: now,
			Data:      map[string]any{"type": string(tx.Type), "from": tx.From, "state_root": root},
		})
	}
	return nil
}

// apply checks the nonce, bumps it, then dispatches to the handler.
func (e *Executor) apply(tx *core.Transaction, now int64) error {
	bal, err := e.state.GetBalance(tx.From)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if bal.Nonce != tx.Nonce {
		return fmt.Errorf("invalid nonce: expected %d got %d", bal.Nonce, tx.Nonce)
	}
	if bal.Nonce == math.MaxUint64 {
		return fmt.Errorf("nonce overflow for %s", tx.From)
	}
	bal.Nonce++
	if err := e.state.SetBalance(bal); err != nil {
		return err
	}

	ctx := &Context{
		State:    e.state,
		Tx:       tx,
		Emitter:  e.emitter,
		Now:      now,
		Timeouts: e.timeouts,
		Proof:    e.proof,
		Transfer: e.transfer,
	}
	return globalRegistry.Execute(tx.Type, ctx, tx.Payload)
}
