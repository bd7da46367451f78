package runtime

import "time"

// Context bundles the per-bar OHLCV series and derived price sources every
// generated program's Calculate prelude builds once from the input bars
// (spec.md §6.3's "all OHLCV/time/bar-state built-ins").
type Context struct {
	Open   *Series
	High   *Series
	Low    *Series
	Close  *Series
	Volume *Series
	Time   *Series

	Hl2   *Series
	Hlc3  *Series
	Ohlc4 *Series
	Hlcc4 *Series

	// Year, Month, DayOfMonth, DayOfWeek, Hour and Minute are derived from
	// each bar's Time (spec.md §4.3.7.c's bar-series prelude), expressed in
	// UTC since Bar carries no timezone of its own.
	Year       *Series
	Month      *Series
	DayOfMonth *Series
	DayOfWeek  *Series
	Hour       *Series
	Minute     *Series

	BarIndex     *Series
	LastBarIndex float64

	IsFirst     bool
	IsLast      bool
	IsHistory   bool
	IsRealtime  bool
	IsNew       bool
	IsConfirmed bool
}

// NewContext builds a Context from an ordered bar sequence, materializing
// every derived series eagerly per the batch execution model.
func NewContext(bars []Bar) *Context {
	n := len(bars)

	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	close_ := make([]float64, n)
	volume := make([]float64, n)
	t := make([]float64, n)
	hl2 := make([]float64, n)
	hlc3 := make([]float64, n)
	ohlc4 := make([]float64, n)
	hlcc4 := make([]float64, n)
	barIndex := make([]float64, n)

	year := make([]float64, n)
	month := make([]float64, n)
	dayOfMonth := make([]float64, n)
	dayOfWeek := make([]float64, n)
	hour := make([]float64, n)
	minute := make([]float64, n)

	for i, b := range bars {
		open[i] = b.Open
		high[i] = b.High
		low[i] = b.Low
		close_[i] = b.Close
		volume[i] = b.Volume
		t[i] = float64(b.Time)
		hl2[i] = (b.High + b.Low) / 2
		hlc3[i] = (b.High + b.Low + b.Close) / 3
		ohlc4[i] = (b.Open + b.High + b.Low + b.Close) / 4
		hlcc4[i] = (b.High + b.Low + 2*b.Close) / 4
		barIndex[i] = float64(i)

		stamp := time.Unix(b.Time, 0).UTC()
		year[i] = float64(stamp.Year())
		month[i] = float64(stamp.Month())
		dayOfMonth[i] = float64(stamp.Day())
		dayOfWeek[i] = float64(stamp.Weekday())
		hour[i] = float64(stamp.Hour())
		minute[i] = float64(stamp.Minute())
	}

	ctx := &Context{
		Open:       &Series{values: open},
		High:       &Series{values: high},
		Low:        &Series{values: low},
		Close:      &Series{values: close_},
		Volume:     &Series{values: volume},
		Time:       &Series{values: t},
		Hl2:        &Series{values: hl2},
		Hlc3:       &Series{values: hlc3},
		Ohlc4:      &Series{values: ohlc4},
		Hlcc4:      &Series{values: hlcc4},
		Year:       &Series{values: year},
		Month:      &Series{values: month},
		DayOfMonth: &Series{values: dayOfMonth},
		DayOfWeek:  &Series{values: dayOfWeek},
		Hour:       &Series{values: hour},
		Minute:     &Series{values: minute},
		BarIndex:   &Series{values: barIndex},
	}

	ctx.LastBarIndex = float64(n - 1)
	ctx.IsFirst = n > 0
	ctx.IsLast = true
	ctx.IsHistory = true
	ctx.IsConfirmed = true

	return ctx
}
