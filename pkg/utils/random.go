package utils

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// NewRand создает детерминированный генератор. seed == 0 означает "случайный сид".
// Возвращает генератор и фактически использованный сид (его пишем в реплей).
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// StringToSeed превращает строку (например, ID сессии) в сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}

// IntInclusive возвращает равномерное целое в [lo, hi].
func IntInclusive(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// FloatRange возвращает равномерное число в [lo, hi).
func FloatRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
