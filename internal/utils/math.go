package utils

import (
	"math"
	"math/rand"
)

// RandomFloat returns a random float64 between 0.0 and 1.0
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Game logic randomness, not security critical
}

// RandomUniform returns a random float64 in [min, max].
// rnd supplies the unit draw so callers can inject a deterministic source.
func RandomUniform(rnd func() float64, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rnd()*(max-min)
}

// RoundHalfEven rounds to the nearest integer, ties to even.
// Reward amounts use banker's rounding throughout.
func RoundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FloorInt truncates v towards negative infinity
func FloorInt(v float64) int {
	return int(math.Floor(v))
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
