package analyzer

import (
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
)

// walkExpr type-walks an expression node, recording diagnostics and
// returning whether the expression is series-valued.
func (a *analyzer) walkExpr(n *ast.Node, s *scope) bool {
	if n == nil {
		return false
	}

	switch n.Kind {
	case ast.NumberLit, ast.StringLit, ast.BoolLit, ast.ColorLit, ast.NaLit:
		return false
	case ast.Identifier:
		return a.walkIdentifier(n, s)
	case ast.MemberExpr:
		return false
	case ast.BinaryExpr:
		left := a.walkExpr(n.Children[0], s)
		right := a.walkExpr(n.Children[1], s)

		return left || right
	case ast.UnaryExpr:
		return a.walkExpr(n.Children[0], s)
	case ast.TernaryExpr:
		a.walkExpr(n.Children[0], s)

		then := a.walkExpr(n.Children[1], s)
		els := a.walkExpr(n.Children[2], s)

		return then || els
	case ast.HistoryAccess:
		a.walkExpr(n.Children[0], s)
		a.walkExpr(n.Children[1], s)

		return true
	case ast.FunctionCall:
		return a.walkFunctionCall(n, s)
	case ast.GenericFunctionCall, ast.TypeInstantiation:
		for _, c := range n.Children {
			a.walkExpr(c, s)
		}

		return false
	case ast.FieldAccess:
		return a.walkExpr(n.Children[0], s)
	case ast.MethodCallExpr:
		obj := a.walkExpr(n.Children[0], s)
		for _, arg := range n.Children[1:] {
			a.walkExpr(arg, s)
		}

		return obj
	case ast.ArrayLiteral:
		for _, c := range n.Children {
			a.walkExpr(c, s)
		}

		return false
	case ast.TupleExpr:
		series := false
		for _, c := range n.Children {
			if a.walkExpr(c, s) {
				series = true
			}
		}

		return series
	case ast.SwitchExpr:
		return a.walkSwitch(n, s)
	default:
		return false
	}
}

func (a *analyzer) walkIdentifier(n *ast.Node, s *scope) bool {
	if ohlcvIdentifiers[n.Name] {
		return true
	}

	if _, ok := mapper.ColorNames["color."+n.Name]; ok {
		return false
	}

	if sym, ok := s.lookup(n.Name); ok {
		return sym.isSeries
	}

	a.errorf(n.Span, "undefined variable '%s'%s", n.Name, suggestionSuffix(n.Name, s))

	return false
}

func (a *analyzer) walkFunctionCall(n *ast.Node, s *scope) bool {
	argSeries := false

	for _, c := range n.Children {
		if a.walkExpr(c, s) {
			argSeries = true
		}
	}

	name := n.Name

	if limits, ok := builtinArities[name]; ok {
		if !limits.accepts(len(n.Children)) {
			a.errorf(n.Span, "'%s' expects between %d and %d arguments, got %d", name, limits.min, maxLabel(limits.max), len(n.Children))
		}

		return seriesProducers[name] || (name == "math.max" || name == "math.min") && argSeries
	}

	if mapper.IsNamespaced(name) {
		return argSeries
	}

	// User function/method or unknown plain identifier call.
	if sym, ok := s.lookup(name); ok && sym.kind == symFunc {
		checkUserArity(a, n, sym)
		return a.result.FunctionReturnsSeries[name]
	}

	if strings.Contains(name, ".") {
		// Qualified call we don't recognize (library-imported function, or
		// an unsupported builtin): not an error, just unresolved for now.
		return argSeries
	}

	a.errorf(n.Span, "undefined function '%s'%s", name, suggestionSuffix(name, s))

	return argSeries
}

func checkUserArity(a *analyzer, call *ast.Node, sym *symbol) {
	decl, ok := sym.node.(*ast.Node)
	if !ok {
		return
	}

	required := 0

	for _, p := range decl.Params {
		if p.DefaultValue == nil {
			required++
		}
	}

	total := len(decl.Params)
	got := len(call.Children)

	if got < required || got > total {
		a.errorf(call.Span, "'%s' expects between %d and %d arguments, got %d", call.Name, required, total, got)
	}
}

func maxLabel(max int) int {
	if max == -1 {
		return 1 << 30
	}

	return max
}

func (a *analyzer) walkSwitch(n *ast.Node, s *scope) bool {
	series := false

	if len(n.Children) > 0 && n.Children[0] != nil {
		if a.walkExpr(n.Children[0], s) {
			series = true
		}
	}

	for _, c := range n.Children[1:] {
		if c == nil || c.Kind != ast.SwitchCase {
			continue
		}

		if c.Children[0] != nil {
			a.walkExpr(c.Children[0], s)
		}

		if a.walkExpr(c.Children[1], s) {
			series = true
		}
	}

	return series
}
