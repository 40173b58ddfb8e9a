package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRand_Deterministic(t *testing.T) {
	a, seedA := NewRand(42)
	b, seedB := NewRand(42)

	assert.Equal(t, int64(42), seedA)
	assert.Equal(t, seedA, seedB)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}

	_, random := NewRand(0)
	assert.NotZero(t, random)
}

func TestStringToSeed(t *testing.T) {
	assert.Equal(t, StringToSeed("session-1"), StringToSeed("session-1"))
	assert.NotEqual(t, StringToSeed("session-1"), StringToSeed("session-2"))
	assert.GreaterOrEqual(t, StringToSeed("anything"), int64(0))
}

func TestIntInclusive(t *testing.T) {
	rng, _ := NewRand(7)
	seenLo, seenHi := false, false
	for i := 0; i < 2000; i++ {
		v := IntInclusive(rng, 0, 50)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 50)
		seenLo = seenLo || v == 0
		seenHi = seenHi || v == 50
	}
	assert.True(t, seenLo && seenHi, "both bounds are reachable")
	assert.Equal(t, 3, IntInclusive(rng, 3, 3))
}

func TestFloatRange(t *testing.T) {
	rng, _ := NewRand(7)
	for i := 0; i < 1000; i++ {
		v := FloatRange(rng, 300, 500)
		assert.GreaterOrEqual(t, v, 300.0)
		assert.Less(t, v, 500.0)
	}
	assert.Equal(t, 5.0, FloatRange(rng, 5, 5))
}
