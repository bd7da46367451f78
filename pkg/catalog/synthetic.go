package catalog

import "github.com/deepentropy/pine2go/pkg/pine/runtime"

// SyntheticBars builds a small deterministic bar series for catalog entries
// that don't ship their own fixture data: a close price oscillating in a
// simple, reproducible pattern so the same entry produces the same bars
// every run (and the same reference CSV stays valid indefinitely).
func SyntheticBars(n int) []runtime.Bar {
	bars := make([]runtime.Bar, n)

	for i := 0; i < n; i++ {
		close := 100 + float64(i%7)*1.5 - float64(i%3)*0.5
		bars[i] = runtime.Bar{
			Time:   int64(i) * 86400,
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000 + float64(i)*10,
		}
	}

	return bars
}
