package codegen

import (
	"fmt"
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
)

// emitRecursive lowers a reassignment `x := rhs` where x is in
// analysis.RecursiveVariables into the per-bar loop rewrite mandated by
// spec.md §4.3 ("Recursive formula rewriting"): a NaN-filled xValues array,
// a `for i := range bars` loop computing xPrev from the previous slot, and
// a final rebinding of x to a Series built from the array.
func (g *generator) emitRecursive(name string, rhs *ast.Node, analysis *analyzer.Result) {
	goName := sanitize(name)
	valuesVar := goName + "Values"
	prevVar := goName + "Prev"

	g.e.line("%s := make([]float64, len(bars))", valuesVar)
	g.e.line("for i := range %s {", valuesVar)
	g.e.push()
	g.e.line("%s = runtime.NaN", valuesVar+"[i]")
	g.e.pop()
	g.e.line("}")
	g.e.line("for i := range bars {")
	g.e.push()
	g.e.line("%s := runtime.NaN", prevVar)
	g.e.line("if i > 0 {")
	g.e.push()
	g.e.line("%s = %s[i-1]", prevVar, valuesVar)
	g.e.pop()
	g.e.line("}")
	g.e.line("%s[i] = %s", valuesVar, genRecursiveExpr(rhs, name, analysis))
	g.e.pop()
	g.e.line("}")
	g.e.line("%s = runtime.SeriesFromArray(bars, %s)", goName, valuesVar)
}

// genRecursiveExpr rewrites rhs for evaluation inside the per-bar loop
// generated by emitRecursive: every HistoryAccess on xName becomes
// "<x>Prev", every other series-valued identifier becomes "<name>.Get(i)",
// ta.*/taCore.* calls are evaluated over their full series arguments and
// then indexed at i, math.* (and any other) calls keep their normal shape
// with arguments recursively rewritten, and binary/unary/ternary operators
// compose ordinary scalar Go expressions.
func genRecursiveExpr(n *ast.Node, xName string, analysis *analyzer.Result) string {
	if n == nil {
		return "0"
	}

	switch n.Kind {
	case ast.NumberLit, ast.StringLit, ast.BoolLit, ast.ColorLit:
		return genExpr(n, analysis)
	case ast.NaLit:
		return "runtime.NaN"
	case ast.Identifier:
		return genRecursiveIdentifier(n, xName, analysis)
	case ast.MemberExpr:
		return genMember(n)
	case ast.BinaryExpr:
		left := genRecursiveExpr(n.Children[0], xName, analysis)
		right := genRecursiveExpr(n.Children[1], xName, analysis)

		return fmt.Sprintf("(%s %s %s)", left, goOperator(n.Operator), right)
	case ast.UnaryExpr:
		operand := genRecursiveExpr(n.Children[0], xName, analysis)
		if n.Operator == "!" {
			return fmt.Sprintf("!(%s)", operand)
		}

		return fmt.Sprintf("(%s%s)", n.Operator, operand)
	case ast.TernaryExpr:
		cond := genRecursiveExpr(n.Children[0], xName, analysis)
		then := genRecursiveExpr(n.Children[1], xName, analysis)
		els := genRecursiveExpr(n.Children[2], xName, analysis)

		return fmt.Sprintf("runtime.If(%s, %s, %s)", cond, then, els)
	case ast.HistoryAccess:
		return genRecursiveHistoryAccess(n, xName, analysis)
	case ast.FunctionCall:
		return genRecursiveCall(n, xName, analysis)
	default:
		return genExpr(n, analysis)
	}
}

func genRecursiveIdentifier(n *ast.Node, xName string, analysis *analyzer.Result) string {
	if n.Name == xName {
		// Referencing x without an offset mid-formula: fall back to
		// whatever has been accumulated in xValues so far for this bar
		// (initialized to NaN, matching an undefined self-reference).
		return sanitize(xName) + "Values[i]"
	}

	if field, ok := ohlcvSeries[n.Name]; ok {
		return field + ".Get(i)"
	}

	if analysis.SeriesVariables[n.Name] {
		return sanitize(n.Name) + ".Get(i)"
	}

	return genIdentifier(n)
}

func genRecursiveHistoryAccess(n *ast.Node, xName string, analysis *analyzer.Result) string {
	base, offset := n.Children[0], n.Children[1]

	if base.Kind == ast.Identifier && base.Name == xName {
		if k, ok := literalIntOffset(offset); ok && k == 1 {
			return sanitize(xName) + "Prev"
		}

		return fmt.Sprintf("runtime.PrevOrNaN(%sValues, i, %s)", sanitize(xName), genRecursiveExpr(offset, xName, analysis))
	}

	// A non-x series history access inside the loop: the referenced series
	// is fully precomputed, so offset the whole thing and index bar i.
	return fmt.Sprintf("%s.Offset(%s).Get(i)", genExpr(base, analysis), genExpr(offset, analysis))
}

func genRecursiveCall(n *ast.Node, xName string, analysis *analyzer.Result) string {
	if seriesProducerCalls[n.Name] {
		// ta.*/taCore.* calls are hoisted conceptually: call with the
		// original (full-series) arguments, then index the result at i.
		return genCall(n, analysis) + ".Get(i)"
	}

	args := make([]string, len(n.Children))
	for i, c := range n.Children {
		args[i] = genRecursiveExpr(c, xName, analysis)
	}

	switch n.Name {
	case "na":
		return fmt.Sprintf("runtime.IsNa(%s)", strings.Join(args, ", "))
	case "nz":
		if len(args) == 1 {
			args = append(args, "0")
		}

		return fmt.Sprintf("runtime.Nz(%s)", strings.Join(args, ", "))
	case "runtime.error":
		return fmt.Sprintf("runtime.Panic(%s)", strings.Join(args, ", "))
	}

	if goName, ok := mapper.ResolveFunction(n.Name); ok {
		return fmt.Sprintf("%s(%s)", goName, strings.Join(args, ", "))
	}

	return fmt.Sprintf("%s(%s)", sanitize(n.Name), strings.Join(args, ", "))
}

func literalIntOffset(n *ast.Node) (int, bool) {
	if n == nil || n.Kind != ast.NumberLit {
		return 0, false
	}

	v, ok := n.Value.(float64)
	if !ok {
		return 0, false
	}

	return int(v), true
}
