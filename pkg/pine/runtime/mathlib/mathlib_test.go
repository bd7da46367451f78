package mathlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, 3.0, Abs(-3))
	assert.Equal(t, 3.0, Abs(3))
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 5.0, Max(1, 5, 3))
	assert.Equal(t, 1.0, Min(1, 5, 3))
	assert.Equal(t, 0.0, Max())
	assert.Equal(t, 0.0, Min())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.0, Round(1.6))
	assert.Equal(t, 1.23, Round(1.2345, 2))
}

func TestFloorCeil(t *testing.T) {
	assert.Equal(t, 1.0, Floor(1.9))
	assert.Equal(t, 2.0, Ceil(1.1))
}

func TestPowSqrt(t *testing.T) {
	assert.Equal(t, 8.0, Pow(2, 3))
	assert.Equal(t, 3.0, Sqrt(9))
}

func TestSign(t *testing.T) {
	assert.Equal(t, 1.0, Sign(5))
	assert.Equal(t, -1.0, Sign(-5))
	assert.Equal(t, 0.0, Sign(0))
}

func TestSumAvg(t *testing.T) {
	assert.Equal(t, 6.0, Sum(1, 2, 3))
	assert.Equal(t, 2.0, Avg(1, 2, 3))
	assert.Equal(t, 0.0, Avg())
}

func TestToRadiansToDegrees(t *testing.T) {
	assert.InDelta(t, 3.14159265, ToRadians(180), 1e-6)
	assert.InDelta(t, 180.0, ToDegrees(ToRadians(180)), 1e-6)
}

func TestRandomWithinBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := Random(1, 2)
		assert.True(t, v >= 1 && v < 2)
	}
}
