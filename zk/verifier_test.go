package zk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

func TestPackShotInputsLayout(t *testing.T) {
	var board core.BitBoard
	board = board.SetBit(0).SetBit(35)

	packed := PackShotInputs(core.ShotSunk, 35, board, 30, 35)

	assert.Equal(t, uint64(core.ShotSunk), packed&0xf)
	assert.Equal(t, uint64(35), (packed>>positionShift)&0xff)
	assert.Equal(t, uint64(board), (packed>>boardShift)&0xfffffffff)
	assert.Equal(t, uint64(30), (packed>>sunkHeadShift)&0xff)
	assert.Equal(t, uint64(35), packed>>sunkEndShift)
}

func TestPackShotInputsFieldsDoNotOverlap(t *testing.T) {
	a := PackShotInputs(core.ShotHit, 0, 0, 0, 0)
	b := PackShotInputs(core.ShotMiss, 1, 0, 0, 0)
	c := PackShotInputs(core.ShotMiss, 0, 1, 0, 0)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.NotEqual(t, a, c)
}

func TestShotInputsVector(t *testing.T) {
	commitment := crypto.Keccak256([]byte("board"))
	inputs := ShotInputs(commitment, 42)

	require.NotNil(t, inputs[0])
	require.NotNil(t, inputs[1])
	assert.Equal(t, commitment[:], inputs[0].FillBytes(make([]byte, 32)))
	assert.Equal(t, uint64(42), inputs[1].Uint64())
}

func TestStubVerifier(t *testing.T) {
	ok, err := StubVerifier{Accept: true}.VerifyShot(nil, ShotInputs(crypto.ZeroHash, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = StubVerifier{Accept: false}.VerifyShot(nil, ShotInputs(crypto.ZeroHash, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}
