// Package mathlib implements the PineScript math.* built-ins the generated
// code calls directly on scalar float64 operands (spec.md §6.3).
package mathlib

import (
	"math/rand"

	"math"
)

// Abs returns the absolute value of v.
func Abs(v float64) float64 { return math.Abs(v) }

// Max returns the largest of the given values.
func Max(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	m := vals[0]

	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}

	return m
}

// Min returns the smallest of the given values.
func Min(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	m := vals[0]

	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}

	return m
}

// Round rounds v to the nearest integer, or to the given number of decimal
// places when precision is supplied.
func Round(v float64, precision ...float64) float64 {
	if len(precision) == 0 {
		return math.Round(v)
	}

	scale := math.Pow(10, precision[0])

	return math.Round(v*scale) / scale
}

// Floor returns the largest integer <= v.
func Floor(v float64) float64 { return math.Floor(v) }

// Ceil returns the smallest integer >= v.
func Ceil(v float64) float64 { return math.Ceil(v) }

// Pow returns base**exponent.
func Pow(base, exponent float64) float64 { return math.Pow(base, exponent) }

// Sqrt returns the square root of v.
func Sqrt(v float64) float64 { return math.Sqrt(v) }

// Log returns the natural logarithm of v.
func Log(v float64) float64 { return math.Log(v) }

// Log10 returns the base-10 logarithm of v.
func Log10(v float64) float64 { return math.Log10(v) }

// Sign returns -1, 0 or 1 according to the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Avg returns the arithmetic mean of the given values.
func Avg(vals ...float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	return Sum(vals...) / float64(len(vals))
}

// Sum returns the sum of the given values.
func Sum(vals ...float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}

	return total
}

// Random returns a pseudo-random value in [min, max).
func Random(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 { return degrees * math.Pi / 180 }

// ToDegrees converts radians to degrees.
func ToDegrees(radians float64) float64 { return radians * 180 / math.Pi }
