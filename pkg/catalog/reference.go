package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/klauspost/compress/gzip"

	"github.com/deepentropy/pine2go/pkg/pine/runtime"
)

// PlotSeries is one reference CSV's decoded content: a plot id ("plot0")
// mapped to its expected value stream, in bar order.
type PlotSeries map[string][]float64

// LoadReference decompresses and parses a gzip'd reference CSV. The first
// row is a header naming each plot id; every subsequent row is one bar's
// values, in the same column order.
func LoadReference(path string) (PlotSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot open reference %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot decompress reference %s: %w", path, err)
	}
	defer gz.Close()

	r := csv.NewReader(gz)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: empty reference %s: %w", path, err)
	}

	series := make(PlotSeries, len(header))
	for _, col := range header {
		series[col] = nil
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("catalog: malformed reference %s: %w", path, err)
		}

		for i, col := range header {
			if i >= len(row) {
				continue
			}

			var v float64
			if _, err := fmt.Sscanf(row[i], "%g", &v); err != nil {
				v = math.NaN()
			}

			series[col] = append(series[col], v)
		}
	}

	return series, nil
}

// Comparison is one entry's pass/fail verdict, with enough detail to print
// a human-readable regression table row.
type Comparison struct {
	Name     string  `json:"name"`
	Pass     bool    `json:"pass"`
	MaxDiff  float64 `json:"maxDiff"`
	Detail   string  `json:"detail,omitempty"`
	Compared int     `json:"compared"`
}

// Compare tolerance-compares got's plot streams against want, at relative
// tolerance tol (spec.md-adjacent default 1e-6). Comparison is keyed by
// plot id and bar index; NaN is only tolerated where both sides agree.
func Compare(name string, got map[string][]runtime.PlotPoint, want PlotSeries, tol float64) Comparison {
	ids := make([]string, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	maxDiff := 0.0
	compared := 0

	for _, id := range ids {
		expected := want[id]

		actual, ok := got[id]
		if !ok {
			return Comparison{Name: name, Pass: false, Detail: fmt.Sprintf("missing plot %s", id)}
		}

		if len(actual) != len(expected) {
			return Comparison{
				Name: name, Pass: false,
				Detail: fmt.Sprintf("%s: length %d != expected %d", id, len(actual), len(expected)),
			}
		}

		for i, exp := range expected {
			act := actual[i].Value
			compared++

			switch {
			case math.IsNaN(exp) && math.IsNaN(act):
				continue
			case math.IsNaN(exp) != math.IsNaN(act):
				return Comparison{
					Name: name, Pass: false,
					Detail: fmt.Sprintf("%s[%d]: NaN mismatch (got %v want %v)", id, i, act, exp),
				}
			}

			diff := relativeDiff(act, exp)
			if diff > maxDiff {
				maxDiff = diff
			}

			if diff > tol {
				return Comparison{
					Name: name, Pass: false, MaxDiff: diff, Compared: compared,
					Detail: fmt.Sprintf("%s[%d]: got %v want %v (relative diff %v > %v)", id, i, act, exp, diff, tol),
				}
			}
		}
	}

	return Comparison{Name: name, Pass: true, MaxDiff: maxDiff, Compared: compared}
}

func relativeDiff(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got - want)
	}

	return math.Abs(got-want) / math.Abs(want)
}
