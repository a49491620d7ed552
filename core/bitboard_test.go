package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitBoardSetAndQuery(t *testing.T) {
	var b BitBoard
	assert.False(t, b.IsSet(0))

	b = b.SetBit(0)
	b = b.SetBit(17)
	b = b.SetBit(35)

	assert.True(t, b.IsSet(0))
	assert.True(t, b.IsSet(17))
	assert.True(t, b.IsSet(35))
	assert.False(t, b.IsSet(1))
	assert.Equal(t, 3, b.PopCount())
}

func TestBitBoardSetIsIdempotent(t *testing.T) {
	var b BitBoard
	b = b.SetBit(5)
	again := b.SetBit(5)
	assert.Equal(t, b, again)
	assert.Equal(t, 1, b.PopCount())
}

func TestBitBoardPopCount(t *testing.T) {
	var b BitBoard
	assert.Equal(t, 0, b.PopCount())

	for _, pos := range []uint8{0, 3, 7, 12, 20, 35} {
		b = b.SetBit(pos)
	}
	assert.Equal(t, HitsToWin, b.PopCount())

	full := BitBoard(0)
	for i := uint8(0); i < BoardCells; i++ {
		full = full.SetBit(i)
	}
	assert.Equal(t, int(BoardCells), full.PopCount())
}
