package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedIsDeterministicForTheSameParts(t *testing.T) {
	a := Seed("game-1", "5", "player-1")
	b := Seed("game-1", "5", "player-1")
	assert.Equal(t, a, b)
}

func TestSeedDistinguishesConcatenationAmbiguity(t *testing.T) {
	a := Seed("ab", "c")
	b := Seed("a", "bc")
	assert.NotEqual(t, a, b)
}

func TestSeedChangesWithAnyPart(t *testing.T) {
	base := Seed("game-1", "5", "player-1")
	otherTurn := Seed("game-1", "6", "player-1")
	otherPlayer := Seed("game-1", "5", "player-2")

	assert.NotEqual(t, base, otherTurn)
	assert.NotEqual(t, base, otherPlayer)
}

func TestRandForProducesTheSameSequenceForTheSameSeed(t *testing.T) {
	r1 := RandFor("game-1", "5")
	r2 := RandFor("game-1", "5")

	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}

func TestTurnFingerprintIsStableAndSensitiveToInputs(t *testing.T) {
	orders := []string{"move mech-1 to (2,2)", "build planet-1 factory"}
	log := []string{"-- round 1 --", "mech-1 attacks mech-2, rolls 4"}

	a := TurnFingerprint(42, orders, log)
	b := TurnFingerprint(42, orders, log)
	assert.Equal(t, a, b)

	c := TurnFingerprint(42, append(append([]string{}, orders...), "extra"), log)
	assert.NotEqual(t, a, c)

	d := TurnFingerprint(43, orders, log)
	assert.NotEqual(t, a, d)
}
