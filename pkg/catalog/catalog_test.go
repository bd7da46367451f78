package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepentropy/pine2go/pkg/pine/runtime"
)

func TestRegisterLookupNames(t *testing.T) {
	Register("test-indicator", func(bars []runtime.Bar, inputs any) *runtime.Result {
		return &runtime.Result{}
	})

	fn, ok := Lookup("test-indicator")
	require.True(t, ok)
	require.NotNil(t, fn)

	assert.Contains(t, Names(), "test-indicator")

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestSyntheticBarsDeterministic(t *testing.T) {
	a := SyntheticBars(10)
	b := SyntheticBars(10)
	assert.Equal(t, a, b)
	assert.Len(t, a, 10)
	assert.Equal(t, int64(0), a[0].Time)
	assert.Equal(t, int64(9*86400), a[9].Time)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	yamlContent := `
entries:
  - name: sma-cross
    source: sources/sma-cross.pine
    reference: reference/sma-cross.csv.gz
  - name: explicit-tolerance
    source: sources/x.pine
    reference: reference/x.csv.gz
    tolerance: 0.01
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	assert.Equal(t, "sma-cross", m.Entries[0].Name)
	assert.Equal(t, 1e-6, m.Entries[0].Tolerance)
	assert.Equal(t, 0.01, m.Entries[1].Tolerance)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func writeGzipCSV(t *testing.T, path, content string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
}

func TestLoadReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.csv.gz")

	writeGzipCSV(t, path, "plot0,plot1\n1.0,2.0\n,4.5\n")

	series, err := LoadReference(path)
	require.NoError(t, err)

	require.Contains(t, series, "plot0")
	require.Contains(t, series, "plot1")
	assert.Equal(t, []float64{1.0}, series["plot0"][:1])
	assert.Equal(t, 2.0, series["plot1"][0])
	assert.Equal(t, 4.5, series["plot1"][1])
	assert.True(t, series["plot0"][1] != series["plot0"][1]) // NaN != NaN
}

func TestCompare_PassesWithinTolerance(t *testing.T) {
	want := PlotSeries{"plot0": {1.0, 2.0, 3.0}}
	got := map[string][]runtime.PlotPoint{
		"plot0": {{Value: 1.0000001}, {Value: 2.0}, {Value: 3.0}},
	}

	cmp := Compare("test", got, want, 1e-6)
	assert.True(t, cmp.Pass)
	assert.Equal(t, 3, cmp.Compared)
}

func TestCompare_FailsOutsideTolerance(t *testing.T) {
	want := PlotSeries{"plot0": {1.0}}
	got := map[string][]runtime.PlotPoint{"plot0": {{Value: 2.0}}}

	cmp := Compare("test", got, want, 1e-6)
	assert.False(t, cmp.Pass)
	assert.Contains(t, cmp.Detail, "relative diff")
}

func TestCompare_MissingPlot(t *testing.T) {
	want := PlotSeries{"plot0": {1.0}}
	got := map[string][]runtime.PlotPoint{}

	cmp := Compare("test", got, want, 1e-6)
	assert.False(t, cmp.Pass)
	assert.Contains(t, cmp.Detail, "missing plot")
}

func TestCompare_NaNAgreement(t *testing.T) {
	nan := 0.0
	nan /= nan

	want := PlotSeries{"plot0": {nan}}
	got := map[string][]runtime.PlotPoint{"plot0": {{Value: nan}}}

	cmp := Compare("test", got, want, 1e-6)
	assert.True(t, cmp.Pass)
}

func TestCompare_NaNMismatch(t *testing.T) {
	nan := 0.0
	nan /= nan

	want := PlotSeries{"plot0": {nan}}
	got := map[string][]runtime.PlotPoint{"plot0": {{Value: 1.0}}}

	cmp := Compare("test", got, want, 1e-6)
	assert.False(t, cmp.Pass)
	assert.Contains(t, cmp.Detail, "NaN mismatch")
}

func TestCompare_LengthMismatch(t *testing.T) {
	want := PlotSeries{"plot0": {1.0, 2.0}}
	got := map[string][]runtime.PlotPoint{"plot0": {{Value: 1.0}}}

	cmp := Compare("test", got, want, 1e-6)
	assert.False(t, cmp.Pass)
	assert.Contains(t, cmp.Detail, "length")
}

func TestRun(t *testing.T) {
	Register("run-test-indicator", func(bars []runtime.Bar, inputs any) *runtime.Result {
		return &runtime.Result{
			Plots: map[string][]runtime.PlotPoint{
				"plot0": {{Value: 1.0}, {Value: 2.0}},
			},
		}
	})

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "reference"), 0o755))
	writeGzipCSV(t, filepath.Join(dir, "reference", "run-test.csv.gz"), "plot0\n1.0\n2.0\n")

	manifest := &Manifest{Entries: []Entry{
		{Name: "run-test-indicator", Reference: "reference/run-test.csv.gz", Tolerance: 1e-6},
		{Name: "unregistered-indicator", Reference: "reference/run-test.csv.gz", Tolerance: 1e-6},
	}}

	results, err := Run(manifest, dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Pass)
	assert.False(t, results[1].Pass)
	assert.Contains(t, results[1].Detail, "not registered")

	summary := Summarize(results)
	assert.Contains(t, summary, "PASS")
	assert.Contains(t, summary, "FAIL")
}
