package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/parser"
	"github.com/deepentropy/pine2go/pkg/source"
)

func generate(t *testing.T, src string, opts Options) string {
	t.Helper()

	file := source.NewFile("<test>", []byte(src))
	program, parseErrs := parser.Parse(file)
	require.Empty(t, parseErrs)

	analysis, semErrs := analyzer.Analyze(file, program)
	require.Empty(t, semErrs)

	return Generate(program, analysis, opts)
}

func TestGenerate_PackageClauseAndCalculate(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
plot(close)
`, DefaultOptions())

	assert.Contains(t, code, "package generated")
	assert.Contains(t, code, "func Calculate(bars []runtime.Bar, inputs *Inputs) *runtime.Result {")
	assert.Contains(t, code, "ctx := runtime.NewContext(bars)")
}

func TestGenerate_InputsStructFieldCount(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
length = input.int(14, "Length")
useEma = input.bool(false, "Use EMA")
plot(length)
`, DefaultOptions())

	assert.Contains(t, code, "type Inputs struct {")
	assert.Contains(t, code, "Length float64")
	assert.Contains(t, code, "UseEma bool")
	assert.Contains(t, code, "func DefaultInputs() *Inputs {")
	assert.Contains(t, code, "Length: 14,")
	assert.Contains(t, code, "UseEma: false,")
}

func TestGenerate_PlotIDsSequentialInSourceOrder(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
a = ta.sma(close, 5)
b = ta.sma(close, 10)
plot(a)
plot(b)
`, DefaultOptions())

	assert.Contains(t, code, `"plot0": runtime.PlotPoints(bars, plot0)`)
	assert.Contains(t, code, `"plot1": runtime.PlotPoints(bars, plot1)`)
}

func TestGenerate_WithoutImports(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
plot(close)
`, Options{PackageName: "generated", IncludeImports: false})

	assert.NotContains(t, code, `"github.com/deepentropy/pine2go/pkg/pine/runtime"`)
}

func TestGenerate_RecursiveFormulaUsesPrevAndValuesArray(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
x = 0.0
x := x[1] + close
plot(x)
`, DefaultOptions())

	assert.Contains(t, code, "xValues := make([]float64, len(bars))")
	assert.Contains(t, code, "xPrev := runtime.NaN")
	assert.Contains(t, code, "xPrev = xValues[i-1]")
	assert.Contains(t, code, "x = runtime.SeriesFromArray(bars, xValues)")
}

func TestGenerate_RecursiveFormulaSpecialCasesNaAndNz(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
mg = 0.0
mg := na(mg[1]) ? ta.ema(close, 10) : mg[1] + (close - mg[1]) / (10 * nz(mg[1] / close, 1))
plot(mg)
`, DefaultOptions())

	assert.Contains(t, code, "runtime.If(runtime.IsNa(mgPrev)")
	assert.Contains(t, code, "runtime.Nz(")
	assert.NotContains(t, code, "= na(mgPrev)")
}

func TestGenerate_MixedSeriesScalarTernaryWrapsScalarBranch(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
x = close > 0 ? close : 0
plot(x)
`, DefaultOptions())

	assert.Contains(t, code, "runtime.SeriesTernary(")
	assert.Contains(t, code, "runtime.SeriesFromScalar(0, ")
}

func TestGenerate_TimeComponentIdentifiersMapToContextSeries(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
plot(year)
plot(month)
plot(dayofmonth)
plot(dayofweek)
plot(hour)
plot(minute)
`, DefaultOptions())

	assert.Contains(t, code, "ctx.Year")
	assert.Contains(t, code, "ctx.Month")
	assert.Contains(t, code, "ctx.DayOfMonth")
	assert.Contains(t, code, "ctx.DayOfWeek")
	assert.Contains(t, code, "ctx.Hour")
	assert.Contains(t, code, "ctx.Minute")
}

func TestGenerate_SymInfoUsageAddsCalculateParamAndDefault(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
plot(close)
tickerName = syminfo.ticker
`, DefaultOptions())

	assert.Contains(t, code, "func Calculate(bars []runtime.Bar, inputs *Inputs, syminfo *runtime.SymbolInfo) *runtime.Result {")
	assert.Contains(t, code, "syminfo = runtime.DefaultSymbolInfo()")
	assert.Contains(t, code, "syminfo.Ticker")
}

func TestGenerate_TimeframeUsageAddsCalculateParamAndDefault(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
plot(close)
period = timeframe.period
`, DefaultOptions())

	assert.Contains(t, code, "func Calculate(bars []runtime.Bar, inputs *Inputs, timeframe *runtime.TimeframeInfo) *runtime.Result {")
	assert.Contains(t, code, "timeframe = runtime.DefaultTimeframeInfo()")
	assert.Contains(t, code, "timeframe.Period")
}

func TestGenerate_HistoryAccessEmitsOffset(t *testing.T) {
	code := generate(t, `//@version=6
indicator("t")
prevClose = close[1]
plot(prevClose)
`, DefaultOptions())

	assert.Contains(t, code, ".Offset(")
}
