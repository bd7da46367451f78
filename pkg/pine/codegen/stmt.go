package codegen

import (
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
)

// generator holds the mutable state threaded through one Program's code
// generation: the accumulating source buffer and the analyzer's side table.
type generator struct {
	e             *emitter
	analysis      *analyzer.Result
	program       *ast.Program
	reassigned    map[string]bool
	usesSymInfo   bool
	usesTimeframe bool
	plotSeq       int
	fillSeq       int
}

func newGenerator(program *ast.Program, analysis *analyzer.Result) *generator {
	usesSymInfo, usesTimeframe := usesMergedNamespaces(program.Statements)

	return &generator{
		e:             newEmitter(),
		analysis:      analysis,
		program:       program,
		reassigned:    collectReassignedNames(program.Statements),
		usesSymInfo:   usesSymInfo,
		usesTimeframe: usesTimeframe,
	}
}

// usesMergedNamespaces reports whether the source reads any syminfo.*/
// timeframe.* field, the signal emitCalculate needs to decide whether
// Calculate takes the corresponding sym/tf parameter (spec.md §4.3's
// "SymbolInfo/TimeframeInfo records ... if used").
func usesMergedNamespaces(stmts []*ast.Node) (syminfo bool, timeframe bool) {
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}

		if n.Kind == ast.MemberExpr {
			switch {
			case strings.HasPrefix(n.Name, "syminfo."):
				syminfo = true
			case strings.HasPrefix(n.Name, "timeframe."):
				timeframe = true
			}
		}

		for _, c := range n.Children {
			walk(c)
		}
	}

	for _, s := range stmts {
		walk(s)
	}

	return syminfo, timeframe
}

// collectReassignedNames walks every statement (recursively through nested
// blocks) recording every name that is ever the target of a Reassign node.
// Names in this set need a mutable ("var x T") Go declaration at their
// VarDecl site rather than ":=", so later Reassign statements in a nested
// if/for/while block can update the same Go variable instead of shadowing
// it (spec.md §4.3's "variable declaration form" rule).
func collectReassignedNames(stmts []*ast.Node) map[string]bool {
	out := map[string]bool{}

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}

		if n.Kind == ast.Reassign {
			out[n.Name] = true
		}

		for _, c := range n.Children {
			walk(c)
		}
	}

	for _, s := range stmts {
		walk(s)
	}

	return out
}

// emitStatements renders the program's top-level statement sequence.
func (g *generator) emitStatements(stmts []*ast.Node) {
	for _, stmt := range stmts {
		g.emitStatement(stmt)
	}
}

func (g *generator) emitStatement(n *ast.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case ast.VarDecl:
		g.emitVarDecl(n)
	case ast.Reassign:
		g.emitReassign(n)
	case ast.TupleDestructure:
		g.emitTupleDestructure(n)
	case ast.ExprStatement:
		g.emitExprStatement(n)
	case ast.IfStatement:
		g.emitIf(n)
	case ast.ForRange:
		g.emitForRange(n)
	case ast.ForIn:
		g.emitForIn(n)
	case ast.WhileStatement:
		g.emitWhile(n)
	case ast.BreakStatement:
		g.e.line("break")
	case ast.ContinueStatement:
		g.e.line("continue")
	case ast.Block:
		g.emitStatements(n.Children)
	case ast.FunctionDecl:
		// Emitted separately as a free function by emitFunctions; skip here.
	default:
		g.e.line("_ = %s", genExpr(n, g.analysis))
	}
}

func (g *generator) emitVarDecl(n *ast.Node) {
	if g.analysis.InputMetadataNodes[n] {
		g.e.line("%s := inputs.%s", sanitize(n.Name), exportedName(n.Name))
		return
	}

	var rhs *ast.Node
	if len(n.Children) > 0 {
		rhs = n.Children[0]
	}

	goName := sanitize(n.Name)
	rhsGo := "runtime.NaN"
	if rhs != nil {
		rhsGo = genExpr(rhs, g.analysis)
	}

	if g.reassigned[n.Name] {
		g.e.line("var %s %s = %s", goName, goType(rhs, g.analysis), rhsGo)
		return
	}

	g.e.line("%s := %s", goName, rhsGo)
}

func (g *generator) emitReassign(n *ast.Node) {
	var rhs *ast.Node
	if len(n.Children) > 0 {
		rhs = n.Children[0]
	}

	if g.analysis.RecursiveVariables[n.Name] {
		g.emitRecursive(n.Name, rhs, g.analysis)
		return
	}

	g.e.line("%s = %s", sanitize(n.Name), genExpr(rhs, g.analysis))
}

func (g *generator) emitTupleDestructure(n *ast.Node) {
	targets := n.Children[:len(n.Children)-1]
	value := n.Children[len(n.Children)-1]

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = sanitize(t.Name)
	}

	joined := names[0]
	for _, nm := range names[1:] {
		joined += ", " + nm
	}

	g.e.line("%s := %s", joined, genExpr(value, g.analysis))
}

func (g *generator) emitExprStatement(n *ast.Node) {
	call := n.Children[0]

	if call.Kind == ast.FunctionCall && call.Name == "plot" {
		g.emitPlot(call)
		return
	}

	if call.Kind == ast.FunctionCall && call.Name == "fill" {
		g.emitFill(call)
		return
	}

	g.e.line("_ = %s", genExpr(call, g.analysis))
}

func (g *generator) emitIf(n *ast.Node) {
	cond := genExpr(n.Children[0], g.analysis)
	g.e.line("if runtime.Truthy(%s) {", cond)
	g.e.push()
	g.emitStatement(n.Children[1])
	g.e.pop()

	for _, clause := range n.Children[2:] {
		if clause.Children[0] != nil {
			g.e.line("} else if runtime.Truthy(%s) {", genExpr(clause.Children[0], g.analysis))
		} else {
			g.e.line("} else {")
		}

		g.e.push()
		g.emitStatement(clause.Children[1])
		g.e.pop()
	}

	g.e.line("}")
}

func (g *generator) emitForRange(n *ast.Node) {
	loopVar := sanitize(n.Name)
	from := genExpr(n.Children[0], g.analysis)
	to := genExpr(n.Children[1], g.analysis)

	step := "1"
	if n.Step != nil {
		step = genExpr(n.Step, g.analysis)
	}

	g.e.line("for %s := %s; %s <= %s; %s += %s {", loopVar, from, loopVar, to, loopVar, step)
	g.e.push()
	g.emitStatement(n.Children[2])
	g.e.pop()
	g.e.line("}")
}

func (g *generator) emitForIn(n *ast.Node) {
	idxVar := "_"
	if n.Name != "" {
		idxVar = sanitize(n.Name)
	}

	valVar := sanitize(n.Operator)
	collection := genExpr(n.Children[0], g.analysis)

	g.e.line("for %s, %s := range %s {", idxVar, valVar, collection)
	g.e.push()
	g.emitStatement(n.Children[1])
	g.e.pop()
	g.e.line("}")
}

func (g *generator) emitWhile(n *ast.Node) {
	cond := genExpr(n.Children[0], g.analysis)
	g.e.line("for runtime.Truthy(%s) {", cond)
	g.e.push()
	g.emitStatement(n.Children[1])
	g.e.pop()
	g.e.line("}")
}

// goType infers a Go type for a mutable ("var x T") declaration from the
// shape of its initializing expression: series-valued expressions get
// *runtime.Series, boolean-shaped ones get bool, string literals get
// string, everything else defaults to float64.
func goType(n *ast.Node, analysis *analyzer.Result) string {
	if n == nil {
		return "float64"
	}

	if isSeries(n, analysis) {
		return "*runtime.Series"
	}

	if isBoolExpr(n) {
		return "bool"
	}

	if n.Kind == ast.StringLit {
		return "string"
	}

	return "float64"
}

func isBoolExpr(n *ast.Node) bool {
	switch n.Kind {
	case ast.BoolLit:
		return true
	case ast.BinaryExpr:
		switch n.Operator {
		case "<", "<=", ">", ">=", "==", "!=", "&&", "||":
			return true
		}

		return false
	case ast.UnaryExpr:
		return n.Operator == "!"
	default:
		return false
	}
}
