// Package zk defines the engine's view of the zero-knowledge proof system.
// Proof generation and the circuit itself live outside this repository; the
// engine only packs public inputs and consumes a black-box verifier.
package zk

import (
	"log"
	"math/big"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// Verifier checks that a claimed shot result is consistent with a committed
// board layout, given the prover's private witness.
//
// publicInputs[0] is the board commitment; publicInputs[1] is the packed
// value produced by PackShotInputs.
type Verifier interface {
	VerifyShot(proof []byte, publicInputs [2]*big.Int) (bool, error)
}

// Packed public-input bit layout. Binding status, fire position, the board
// snapshot and the sunk-ship endpoints into one value lets the circuit
// enforce all consistency constraints in a single proof.
const (
	statusShift   = 0  // [0:3]   shot status
	positionShift = 4  // [4:11]  fire position
	boardShift    = 12 // [12:47] 36-bit board snapshot (post-update)
	sunkHeadShift = 48 // [48:55] sunk ship head cell
	sunkEndShift  = 56 // [56:63] sunk ship end cell
)

// PackShotInputs packs a claimed shot outcome into the circuit's second
// public input. The board is the defender's hit mask after applying the
// shot being proven.
func PackShotInputs(result core.ShotStatus, firePos uint8, board core.BitBoard, sunkHead, sunkEnd uint8) uint64 {
	return uint64(result)<<statusShift |
		uint64(firePos)<<positionShift |
		uint64(board)<<boardShift |
		uint64(sunkHead)<<sunkHeadShift |
		uint64(sunkEnd)<<sunkEndShift
}

// ShotInputs assembles the full public-input vector for VerifyShot.
func ShotInputs(commitment crypto.Hash, packed uint64) [2]*big.Int {
	return [2]*big.Int{
		new(big.Int).SetBytes(commitment[:]),
		new(big.Int).SetUint64(packed),
	}
}

// StubVerifier is a fixed-answer Verifier for development and tests. It is
// never silently wrong: it either accepts everything or rejects everything,
// as configured.
type StubVerifier struct {
	Accept bool
}

func (v StubVerifier) VerifyShot([]byte, [2]*big.Int) (bool, error) {
	return v.Accept, nil
}

// WarnIfStub logs loudly when a node runs with a stub verifier.
func WarnIfStub(v Verifier) {
	if s, ok := v.(StubVerifier); ok {
		if s.Accept {
			log.Println("[zk] WARNING: stub verifier accepts ALL proofs — dev mode only")
		} else {
			log.Println("[zk] stub verifier rejects all proofs; shot results cannot be reported")
		}
	}
}
