package core

import "errors"

// ErrNotFound is returned when a record does not exist in state.
var ErrNotFound = errors.New("not found")

// Rejection taxonomy. Every operation fails fast and whole: an error from a
// handler means no state was mutated (the executor reverts its snapshot).
var (
	// ErrInvalidState — operation is not legal in the game's current state.
	ErrInvalidState = errors.New("operation not valid in current game state")

	// ErrUnauthorized — the caller is not the party the state expects.
	ErrUnauthorized = errors.New("caller is not the expected party")

	// ErrInvalidCommitment — revealed secret does not hash to the commitment.
	ErrInvalidCommitment = errors.New("revealed secret does not match commitment")

	// ErrInvalidSignature — a required signature is missing, malformed, or
	// recovers to the wrong identity.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidProof — the zero-knowledge proof did not verify.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrInsufficientFunds — amount exceeds the caller's unlocked balance.
	ErrInsufficientFunds = errors.New("insufficient unlocked balance")

	// ErrAlreadyExists — a game record already exists at the derived id.
	ErrAlreadyExists = errors.New("game already exists")

	// ErrAlreadyInGame — the user is already mapped to an active game.
	ErrAlreadyInGame = errors.New("user already in an active game")

	// ErrTimeoutNotElapsed — the phase timeout window has not passed yet.
	ErrTimeoutNotElapsed = errors.New("timeout has not elapsed")

	// ErrPositionTargeted — the shot targets a cell already confirmed hit.
	ErrPositionTargeted = errors.New("position already targeted")

	// ErrPositionOutOfRange — the shot targets a cell outside the board.
	ErrPositionOutOfRange = errors.New("position outside the board")

	// ErrStaleStatusHash — the submitted expected hash does not match the
	// current chain head; the batch was built against outdated state.
	ErrStaleStatusHash = errors.New("expected status hash does not match chain head")
)
