package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeries_Arithmetic(t *testing.T) {
	a := NewSeries([]float64{1, 2, 3})
	b := NewSeries([]float64{10, 20, 30})

	assert.Equal(t, []float64{11, 22, 33}, a.Add(b).Values())
	assert.Equal(t, []float64{-9, -18, -27}, a.Sub(b).Values())
	assert.Equal(t, []float64{10, 40, 90}, a.Mul(b).Values())
	assert.Equal(t, []float64{0.1, 0.1, 0.1}, a.Div(b).Values())
}

func TestSeries_Comparisons(t *testing.T) {
	a := NewSeries([]float64{1, 2, 3})
	b := NewSeries([]float64{3, 2, 1})

	assert.Equal(t, []float64{0, 0, 1}, a.Gt(b).Values())
	assert.Equal(t, []float64{1, 0, 0}, a.Lt(b).Values())
	assert.Equal(t, []float64{0, 1, 0}, a.Eq(b).Values())
}

func TestSeries_Offset(t *testing.T) {
	s := NewSeries([]float64{1, 2, 3, 4})

	shifted := s.Offset(1)
	assert.True(t, math.IsNaN(shifted.Get(0)))
	assert.Equal(t, float64(1), shifted.Get(1))
	assert.Equal(t, float64(3), shifted.Get(3))

	lead := s.Offset(-1)
	assert.Equal(t, float64(2), lead.Get(0))
	assert.True(t, math.IsNaN(lead.Get(3)))
}

func TestSeries_GetOutOfRange(t *testing.T) {
	s := NewSeries([]float64{1, 2})
	assert.True(t, math.IsNaN(s.Get(-1)))
	assert.True(t, math.IsNaN(s.Get(5)))
}

func TestIsNaAndNz(t *testing.T) {
	assert.True(t, IsNa(NaN))
	assert.False(t, IsNa(1.0))
	assert.Equal(t, 0.0, Nz(NaN, 0))
	assert.Equal(t, 5.0, Nz(NaN, 5))
	assert.Equal(t, 3.0, Nz(3.0, 5))
}

func TestSeriesFromArrayAndScalar(t *testing.T) {
	bars := []Bar{{Close: 1}, {Close: 2}, {Close: 3}}

	s := SeriesFromArray(bars, []float64{1, 2, 3})
	assert.Equal(t, 3, s.Len())

	c := SeriesFromScalar(7, len(bars))
	assert.Equal(t, []float64{7, 7, 7}, c.Values())
}

func TestSeriesTernary(t *testing.T) {
	then := NewSeries([]float64{1, 1})
	els := NewSeries([]float64{2, 2})

	assert.Equal(t, then, SeriesTernary(true, then, els))
	assert.Equal(t, els, SeriesTernary(false, then, els))
}

func TestPrevOrNaN(t *testing.T) {
	vals := []float64{10, 20, 30}

	assert.Equal(t, float64(10), PrevOrNaN(vals, 1, 1))
	assert.True(t, math.IsNaN(PrevOrNaN(vals, 0, 1)))
	assert.Equal(t, float64(10), PrevOrNaN(vals, 2, 2))
}
