package core

// BoardCells is the number of logical cells on a board (6x6 grid).
const BoardCells = 36

// HitsToWin is the confirmed-hit count that ends a game. Evaluated on the
// board after the winning hit is applied.
const HitsToWin = 6

// BitBoard is a 36-cell hit mask stored in the low bits of a uint64. Bit i
// set means cell i holds a confirmed hit against the board's owner.
type BitBoard uint64

// IsSet reports whether cell pos holds a confirmed hit.
func (b BitBoard) IsSet(pos uint8) bool {
	return b&(1<<pos) != 0
}

// SetBit returns b with cell pos marked hit. Idempotent.
func (b BitBoard) SetBit(pos uint8) BitBoard {
	return b | (1 << pos)
}

// PopCount returns the number of confirmed hits. Fixed SWAR popcount: the
// exact same arithmetic is re-derived by off-chain simulators, so it must
// never change.
func (b BitBoard) PopCount() int {
	x := uint64(b)
	x = x - ((x >> 1) & 0x5555555555555555)
	x = (x & 0x3333333333333333) + ((x >> 2) & 0x3333333333333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f0f0f0f0f
	return int((x * 0x0101010101010101) >> 56)
}
