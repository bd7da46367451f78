package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/source"
)

func parse(t *testing.T, src string) (*ast.Program, []*source.SyntaxError) {
	t.Helper()
	return Parse(source.NewFile("<test>", []byte(src)))
}

func TestParse_IndicatorDeclCapturesTitleAndOverlay(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("My Indicator", overlay=true)
plot(close)
`)
	require.Empty(t, errs)
	assert.Equal(t, "My Indicator", program.IndicatorTitle)
	assert.True(t, program.IndicatorOverlay)
	assert.False(t, program.IsLibrary)
}

func TestParse_VarDeclAndBinaryExpr(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
x = 1 + 2
plot(x)
`)
	require.Empty(t, errs)
	require.Len(t, program.Statements, 2)

	decl := program.Statements[0]
	assert.Equal(t, ast.VarDecl, decl.Kind)
	assert.Equal(t, "x", decl.Name)

	rhs := decl.Children[0]
	assert.Equal(t, ast.BinaryExpr, rhs.Kind)
	assert.Equal(t, "+", rhs.Operator)
}

func TestParse_ReassignOperator(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
x = 0.0
x := x + 1
plot(x)
`)
	require.Empty(t, errs)
	require.Len(t, program.Statements, 3)

	reassign := program.Statements[1]
	assert.Equal(t, ast.Reassign, reassign.Kind)
	assert.Equal(t, "x", reassign.Name)
}

func TestParse_HistoryAccess(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
prevClose = close[1]
plot(prevClose)
`)
	require.Empty(t, errs)

	decl := program.Statements[0]
	rhs := decl.Children[0]
	assert.Equal(t, ast.HistoryAccess, rhs.Kind)
	assert.Equal(t, ast.Identifier, rhs.Children[0].Kind)
	assert.Equal(t, "close", rhs.Children[0].Name)
}

func TestParse_TernaryExpr(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
x = close > open ? 1 : -1
plot(x)
`)
	require.Empty(t, errs)

	rhs := program.Statements[0].Children[0]
	assert.Equal(t, ast.TernaryExpr, rhs.Kind)
	require.Len(t, rhs.Children, 3)
}

func TestParse_IfStatement(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
if close > open
    x = 1.0
else
    x = -1.0
`)
	require.Empty(t, errs)
	require.Len(t, program.Statements, 1)
	assert.Equal(t, ast.IfStatement, program.Statements[0].Kind)
}

func TestParse_ImportDecl(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
import TradingView/ta/1 as ta2
plot(close)
`)
	require.Empty(t, errs)
	require.Len(t, program.Imports, 1)
	assert.Equal(t, "TradingView", program.Imports[0].Publisher)
	assert.Equal(t, "ta", program.Imports[0].Library)
	assert.Equal(t, "1", program.Imports[0].Version)
	assert.Equal(t, "ta2", program.Imports[0].Alias)
}

func TestParse_AccumulatesMultipleErrorsAndContinues(t *testing.T) {
	_, errs := parse(t, `//@version=6
indicator("t")
x = (
y = (
plot(close)
`)
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestParse_BreakAndContinueInsideLoop(t *testing.T) {
	program, errs := parse(t, `//@version=6
indicator("t")
for i = 0 to 10
    if i == 5
        break
    if i == 2
        continue
`)
	require.Empty(t, errs)
	require.Len(t, program.Statements, 1)
	assert.Equal(t, ast.ForRange, program.Statements[0].Kind)
}
