package ta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepentropy/pine2go/pkg/pine/runtime"
)

func series(vals ...float64) *runtime.Series { return runtime.NewSeries(vals) }

func TestSMA(t *testing.T) {
	src := series(1, 2, 3, 4, 5)
	out := SMA(src, 3)

	assert.True(t, math.IsNaN(out.Get(0)))
	assert.True(t, math.IsNaN(out.Get(1)))
	assert.InDelta(t, 2.0, out.Get(2), 1e-9)
	assert.InDelta(t, 3.0, out.Get(3), 1e-9)
	assert.InDelta(t, 4.0, out.Get(4), 1e-9)
}

func TestEMA_SeededBySMA(t *testing.T) {
	src := series(1, 2, 3, 4, 5, 6)
	out := EMA(src, 3)

	assert.True(t, math.IsNaN(out.Get(0)))
	assert.True(t, math.IsNaN(out.Get(1)))
	assert.InDelta(t, 2.0, out.Get(2), 1e-9) // seeded with SMA(3) at the first full window
}

func TestHighestLowest(t *testing.T) {
	src := series(3, 1, 4, 1, 5)

	assert.InDelta(t, 4.0, Highest(src, 3).Get(2), 1e-9)
	assert.InDelta(t, 1.0, Lowest(src, 3).Get(3), 1e-9)
}

func TestCrossover(t *testing.T) {
	a := series(1, 2, 3)
	b := series(2, 2, 2)

	out := Crossover(a, b)
	assert.Equal(t, 0.0, out.Get(0))
	assert.Equal(t, 0.0, out.Get(1))
	assert.Equal(t, 1.0, out.Get(2))
}

func TestChange(t *testing.T) {
	src := series(1, 3, 6, 10)
	out := Change(src)

	assert.True(t, math.IsNaN(out.Get(0)))
	assert.InDelta(t, 2.0, out.Get(1), 1e-9)
	assert.InDelta(t, 3.0, out.Get(2), 1e-9)
}

func TestVWMA(t *testing.T) {
	src := series(1, 2, 3)
	vol := series(10, 10, 10)

	out := VWMA(src, 2, vol)
	assert.True(t, math.IsNaN(out.Get(0)))
	assert.InDelta(t, 1.5, out.Get(1), 1e-9)
}
