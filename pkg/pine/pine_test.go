package pine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `//@version=6
indicator("Test", overlay=true)

len = input.int(14, "Length")

avg = ta.sma(close, len)

plot(avg, title="Average", color=color.blue)
`

func TestTranspileWithResult_Success(t *testing.T) {
	result := TranspileWithResult(sampleSource)

	require.Empty(t, result.Errors)
	require.NotEmpty(t, result.CompilationID)
	assert.Contains(t, result.Code, "package generated")
	assert.Contains(t, result.Code, "func Calculate(bars []runtime.Bar, inputs *Inputs) *runtime.Result {")
	assert.Contains(t, result.Code, "plot0")
}

func TestTranspileWithResult_PackageNameOption(t *testing.T) {
	result := TranspileWithResult(sampleSource, WithPackageName("indicators"))
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Code, "package indicators")
}

func TestTranspileWithResult_WithoutImports(t *testing.T) {
	result := TranspileWithResult(sampleSource, WithoutImports())
	require.Empty(t, result.Errors)
	assert.NotContains(t, result.Code, `"github.com/deepentropy/pine2go/pkg/pine/runtime"`)
}

func TestTranspile_ReturnsErrorOnParseFailure(t *testing.T) {
	_, err := Transpile("indicator(\n")
	assert.Error(t, err)
}

func TestTranspile_Success(t *testing.T) {
	code, err := Transpile(sampleSource)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestEachCompilationGetsAFreshID(t *testing.T) {
	a := TranspileWithResult(sampleSource)
	b := TranspileWithResult(sampleSource)
	assert.NotEqual(t, a.CompilationID, b.CompilationID)
}
