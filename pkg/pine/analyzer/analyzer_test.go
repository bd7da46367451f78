package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepentropy/pine2go/pkg/pine/parser"
	"github.com/deepentropy/pine2go/pkg/source"
)

func analyze(t *testing.T, src string) (*Result, []*source.SyntaxError) {
	t.Helper()

	file := source.NewFile("<test>", []byte(src))
	program, parseErrs := parser.Parse(file)
	require.Empty(t, parseErrs)

	return Analyze(file, program)
}

func TestAnalyze_SeriesInference(t *testing.T) {
	result, errs := analyze(t, `//@version=6
indicator("t")
avg = ta.sma(close, 14)
plot(avg)
`)
	require.Empty(t, errs)
	assert.True(t, result.SeriesVariables["avg"])
}

func TestAnalyze_ScalarInference(t *testing.T) {
	result, errs := analyze(t, `//@version=6
indicator("t")
len = input.int(14, "Length")
doubled = len * 2
plot(doubled)
`)
	require.Empty(t, errs)
	assert.False(t, result.SeriesVariables["doubled"])
}

func TestAnalyze_UndefinedVariableSuggestion(t *testing.T) {
	_, errs := analyze(t, `//@version=6
indicator("t")
length = input.int(14, "Length")
lenght := length + 1
plot(lenght)
`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "did you mean 'length'?")
}

func TestAnalyze_RecursiveVariableDetected(t *testing.T) {
	result, errs := analyze(t, `//@version=6
indicator("t")
x = 0.0
x := x[1] + close
plot(x)
`)
	require.Empty(t, errs)
	assert.True(t, result.RecursiveVariables["x"])
}

func TestAnalyze_NonRecursiveReassignNotFlagged(t *testing.T) {
	result, errs := analyze(t, `//@version=6
indicator("t")
x = 0.0
x := close + 1
plot(x)
`)
	require.Empty(t, errs)
	assert.False(t, result.RecursiveVariables["x"])
}

func TestAnalyze_InputMetadataCaptured(t *testing.T) {
	file := source.NewFile("<test>", []byte(`//@version=6
indicator("t")
len = input.int(14, "Length")
plot(len)
`))
	program, parseErrs := parser.Parse(file)
	require.Empty(t, parseErrs)

	result, errs := Analyze(file, program)
	require.Empty(t, errs)

	require.Len(t, program.Inputs, 1)
	assert.Equal(t, "len", program.Inputs[0].Name)
	assert.Equal(t, "Length", program.Inputs[0].Title)

	for n := range result.InputMetadataNodes {
		assert.Equal(t, "len", n.Name)
	}
}

func TestAnalyze_BreakOutsideLoopIsError(t *testing.T) {
	_, errs := analyze(t, `//@version=6
indicator("t")
break
`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "break statement outside of loop")
}

func TestAnalyze_DuplicateDeclarationIsError(t *testing.T) {
	_, errs := analyze(t, `//@version=6
indicator("t")
x = 1.0
x = 2.0
plot(x)
`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "already declared")
}
