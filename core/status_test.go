package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

func TestExtendStatusHashIsDeterministic(t *testing.T) {
	genesis := crypto.Keccak256([]byte("game"))
	shot := &GameStatusItem{Kind: ItemShot, Position: 14}

	h1 := ExtendStatusHash(genesis, shot)
	h2 := ExtendStatusHash(genesis, shot)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, genesis, h1)
}

func TestExtendStatusHashIgnoresSignature(t *testing.T) {
	genesis := crypto.Keccak256([]byte("game"))
	unsigned := &GameStatusItem{Kind: ItemShot, Position: 9}
	signed := &GameStatusItem{Kind: ItemShot, Position: 9, Signature: []byte{1, 2, 3}}

	assert.Equal(t, ExtendStatusHash(genesis, unsigned), ExtendStatusHash(genesis, signed))
}

func TestExtendStatusHashDistinguishesItems(t *testing.T) {
	genesis := crypto.Keccak256([]byte("game"))

	shotA := ExtendStatusHash(genesis, &GameStatusItem{Kind: ItemShot, Position: 1})
	shotB := ExtendStatusHash(genesis, &GameStatusItem{Kind: ItemShot, Position: 2})
	miss := ExtendStatusHash(genesis, &GameStatusItem{Kind: ItemReport, Result: ShotMiss})
	hit := ExtendStatusHash(genesis, &GameStatusItem{Kind: ItemReport, Result: ShotHit})
	sunk := ExtendStatusHash(genesis, &GameStatusItem{Kind: ItemReport, Result: ShotSunk, SunkHead: 3, SunkEnd: 5})

	heads := []crypto.Hash{shotA, shotB, miss, hit, sunk}
	for i := range heads {
		for j := i + 1; j < len(heads); j++ {
			assert.NotEqual(t, heads[i], heads[j], "items %d and %d collide", i, j)
		}
	}
}

func TestVerifyChainMatchesStepwiseExtension(t *testing.T) {
	genesis := crypto.Keccak256([]byte("game"))
	items := []*GameStatusItem{
		{Kind: ItemShot, Position: 0},
		{Kind: ItemReport, Result: ShotHit},
		{Kind: ItemShot, Position: 7},
		{Kind: ItemReport, Result: ShotMiss},
	}

	want := genesis
	for _, it := range items {
		want = ExtendStatusHash(want, it)
	}
	require.Equal(t, want, VerifyChain(genesis, items))
}

func TestDigestDomainsAreDisjoint(t *testing.T) {
	id := crypto.Keccak256([]byte("id"))

	surrender := SurrenderHash(id)
	claim := CheatClaimHash(id, 4)
	consent := JoinConsentHash(id, 1000, "joiner")

	assert.NotEqual(t, surrender, claim)
	assert.NotEqual(t, surrender, consent)
	assert.NotEqual(t, claim, consent)

	// The consent digest binds every field.
	assert.NotEqual(t, consent, JoinConsentHash(id, 1001, "joiner"))
	assert.NotEqual(t, consent, JoinConsentHash(id, 1000, "other"))
}

func TestShotStatusValid(t *testing.T) {
	assert.False(t, ShotNone.Valid())
	assert.True(t, ShotMiss.Valid())
	assert.True(t, ShotHit.Valid())
	assert.True(t, ShotSunk.Valid())
	assert.False(t, ShotStatus(9).Valid())
}
