// Package ta implements the subset of PineScript's ta.* built-in functions
// referenced by the generated-program contract (spec.md §6.3), operating on
// the batch runtime.Series representation.
package ta

import (
	"math"

	"github.com/deepentropy/pine2go/pkg/pine/runtime"
)

func window(s *runtime.Series, length int, f func(vals []float64) float64) *runtime.Series {
	n := s.Len()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		lo := i - length + 1
		if lo < 0 {
			out[i] = runtime.NaN
			continue
		}

		vals := make([]float64, 0, length)
		for j := lo; j <= i; j++ {
			vals = append(vals, s.Get(j))
		}

		out[i] = f(vals)
	}

	return runtime.NewSeries(out)
}

// SMA is the simple moving average over length bars.
func SMA(src *runtime.Series, length float64) *runtime.Series {
	return window(src, int(length), func(vals []float64) float64 {
		sum := 0.0
		for _, v := range vals {
			sum += v
		}

		return sum / float64(len(vals))
	})
}

// EMA is the exponential moving average, seeded by SMA(length) at the
// first fully-windowed bar.
func EMA(src *runtime.Series, length float64) *runtime.Series {
	n := src.Len()
	l := int(length)
	out := make([]float64, n)
	alpha := 2.0 / (length + 1)

	prev := runtime.NaN

	for i := 0; i < n; i++ {
		v := src.Get(i)

		if math.IsNaN(prev) {
			if i+1 < l {
				out[i] = runtime.NaN
				continue
			}

			out[i] = SMA(src, length).Get(i)
			prev = out[i]

			continue
		}

		out[i] = alpha*v + (1-alpha)*prev
		prev = out[i]
	}

	return runtime.NewSeries(out)
}

// RMA is Wilder's running moving average, as used by ta.rsi/ta.atr.
func RMA(src *runtime.Series, length float64) *runtime.Series {
	n := src.Len()
	out := make([]float64, n)
	alpha := 1.0 / length

	prev := runtime.NaN

	for i := 0; i < n; i++ {
		v := src.Get(i)

		if math.IsNaN(prev) {
			out[i] = v
		} else {
			out[i] = alpha*v + (1-alpha)*prev
		}

		prev = out[i]
	}

	return runtime.NewSeries(out)
}

// WMA is the linearly weighted moving average.
func WMA(src *runtime.Series, length float64) *runtime.Series {
	l := int(length)

	return window(src, l, func(vals []float64) float64 {
		if len(vals) < l {
			return runtime.NaN
		}

		var sum, weightSum float64

		for i, v := range vals {
			weight := float64(i + 1)
			sum += v * weight
			weightSum += weight
		}

		return sum / weightSum
	})
}

// VWMA is the volume-weighted moving average; codegen appends volume as
// the third argument for every ta.vwma(src, len) call (spec.md §8).
func VWMA(src *runtime.Series, length float64, volume *runtime.Series) *runtime.Series {
	l := int(length)
	n := src.Len()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		lo := i - l + 1
		if lo < 0 {
			out[i] = runtime.NaN
			continue
		}

		var num, den float64

		for j := lo; j <= i; j++ {
			num += src.Get(j) * volume.Get(j)
			den += volume.Get(j)
		}

		if den == 0 {
			out[i] = runtime.NaN
		} else {
			out[i] = num / den
		}
	}

	return runtime.NewSeries(out)
}

// Stdev is the population standard deviation over length bars.
func Stdev(src *runtime.Series, length float64) *runtime.Series {
	l := int(length)

	return window(src, l, func(vals []float64) float64 {
		if len(vals) < l {
			return runtime.NaN
		}

		mean := 0.0
		for _, v := range vals {
			mean += v
		}

		mean /= float64(len(vals))

		variance := 0.0
		for _, v := range vals {
			d := v - mean
			variance += d * d
		}

		variance /= float64(len(vals))

		return math.Sqrt(variance)
	})
}

// Variance is the population variance over length bars.
func Variance(src *runtime.Series, length float64) *runtime.Series {
	l := int(length)

	return window(src, l, func(vals []float64) float64 {
		if len(vals) < l {
			return runtime.NaN
		}

		mean := 0.0
		for _, v := range vals {
			mean += v
		}

		mean /= float64(len(vals))

		variance := 0.0
		for _, v := range vals {
			d := v - mean
			variance += d * d
		}

		return variance / float64(len(vals))
	})
}

// Highest is the highest value over length bars.
func Highest(src *runtime.Series, length float64) *runtime.Series {
	l := int(length)

	return window(src, l, func(vals []float64) float64 {
		if len(vals) < l {
			return runtime.NaN
		}

		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}

		return max
	})
}

// Lowest is the lowest value over length bars.
func Lowest(src *runtime.Series, length float64) *runtime.Series {
	l := int(length)

	return window(src, l, func(vals []float64) float64 {
		if len(vals) < l {
			return runtime.NaN
		}

		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}

		return min
	})
}

// RSI is the relative strength index over length bars.
func RSI(src *runtime.Series, length float64) *runtime.Series {
	n := src.Len()
	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 0; i < n; i++ {
		if i == 0 {
			gains[i], losses[i] = 0, 0
			continue
		}

		d := src.Get(i) - src.Get(i-1)
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	avgGain := RMA(runtime.NewSeries(gains), length)
	avgLoss := RMA(runtime.NewSeries(losses), length)

	out := make([]float64, n)

	for i := 0; i < n; i++ {
		ag, al := avgGain.Get(i), avgLoss.Get(i)

		if al == 0 {
			out[i] = 100
			continue
		}

		rs := ag / al
		out[i] = 100 - 100/(1+rs)
	}

	return runtime.NewSeries(out)
}

// MACD returns the MACD line for the given fast/slow lengths (the
// generated program extracts signal/histogram via further ta.ema/ta.sma
// calls over this result, matching how source-level PineScript composes
// ta.macd's tuple return from simpler primitives when not using the
// 3-tuple form directly).
func MACD(src *runtime.Series, fastLength, slowLength float64) *runtime.Series {
	return EMA(src, fastLength).Sub(EMA(src, slowLength))
}

// ATR is the average true range over length bars, computed from the
// context's high/low/close (callers pass the TR series they computed via
// ta.tr).
func ATR(tr *runtime.Series, length float64) *runtime.Series {
	return RMA(tr, length)
}

// TR is the true range, given high/low/close series.
func TR(high, low, close *runtime.Series) *runtime.Series {
	n := high.Len()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		h, l, c := high.Get(i), low.Get(i), close.Get(i-1)

		r := h - l
		if !math.IsNaN(c) {
			r = math.Max(r, math.Max(math.Abs(h-c), math.Abs(l-c)))
		}

		out[i] = r
	}

	return runtime.NewSeries(out)
}

// Change is src - src[1] (or src - src[length]).
func Change(src *runtime.Series, length ...float64) *runtime.Series {
	l := 1
	if len(length) > 0 {
		l = int(length[0])
	}

	return src.Sub(src.Offset(l))
}

// Crossover reports whether a crosses above b on this bar.
func Crossover(a, b *runtime.Series) *runtime.Series {
	return crossing(a, b, func(prevDiff, diff float64) bool { return prevDiff <= 0 && diff > 0 })
}

// Crossunder reports whether a crosses below b on this bar.
func Crossunder(a, b *runtime.Series) *runtime.Series {
	return crossing(a, b, func(prevDiff, diff float64) bool { return prevDiff >= 0 && diff < 0 })
}

// Cross reports whether a crosses b (either direction) on this bar.
func Cross(a, b *runtime.Series) *runtime.Series {
	return crossing(a, b, func(prevDiff, diff float64) bool {
		return (prevDiff <= 0 && diff > 0) || (prevDiff >= 0 && diff < 0)
	})
}

func crossing(a, b *runtime.Series, cond func(prevDiff, diff float64) bool) *runtime.Series {
	n := a.Len()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		diff := a.Get(i) - b.Get(i)
		prevDiff := a.Get(i-1) - b.Get(i-1)

		if i == 0 {
			out[i] = 0
			continue
		}

		if cond(prevDiff, diff) {
			out[i] = 1
		}
	}

	return runtime.NewSeries(out)
}

// Cum is the cumulative (running) sum of src.
func Cum(src *runtime.Series) *runtime.Series {
	n := src.Len()
	out := make([]float64, n)

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += src.Get(i)
		out[i] = sum
	}

	return runtime.NewSeries(out)
}

// BarsSince counts the bars since cond was last true.
func BarsSince(cond *runtime.Series) *runtime.Series {
	n := cond.Len()
	out := make([]float64, n)

	count := math.Inf(1)
	for i := 0; i < n; i++ {
		if cond.Get(i) != 0 {
			count = 0
		} else if !math.IsInf(count, 1) {
			count++
		}

		if math.IsInf(count, 1) {
			out[i] = runtime.NaN
		} else {
			out[i] = count
		}
	}

	return runtime.NewSeries(out)
}

// ValueWhen returns src's value the nth-most-recent bar cond was true.
func ValueWhen(cond, src *runtime.Series, occurrence float64) *runtime.Series {
	n := cond.Len()
	out := make([]float64, n)
	occ := int(occurrence)

	var hits []int

	for i := 0; i < n; i++ {
		if cond.Get(i) != 0 {
			hits = append(hits, i)
		}

		idx := len(hits) - 1 - occ
		if idx >= 0 {
			out[i] = src.Get(hits[idx])
		} else {
			out[i] = runtime.NaN
		}
	}

	return runtime.NewSeries(out)
}

// PivotHigh reports a pivot-high confirmation leftBars/rightBars around
// each candidate bar.
func PivotHigh(src *runtime.Series, leftBars, rightBars float64) *runtime.Series {
	return pivot(src, int(leftBars), int(rightBars), true)
}

// PivotLow reports a pivot-low confirmation leftBars/rightBars around each
// candidate bar.
func PivotLow(src *runtime.Series, leftBars, rightBars float64) *runtime.Series {
	return pivot(src, int(leftBars), int(rightBars), false)
}

func pivot(src *runtime.Series, left, right int, high bool) *runtime.Series {
	n := src.Len()
	out := make([]float64, n)

	for i := range out {
		out[i] = runtime.NaN
	}

	for i := left; i < n-right; i++ {
		candidate := src.Get(i)
		isPivot := true

		for j := i - left; j <= i+right; j++ {
			if j == i {
				continue
			}

			v := src.Get(j)

			if high && v > candidate {
				isPivot = false
				break
			}

			if !high && v < candidate {
				isPivot = false
				break
			}
		}

		if isPivot {
			out[i+right] = candidate
		}
	}

	return runtime.NewSeries(out)
}
