// Package analyzer implements the PineScript semantic analysis stage (C2):
// scope and symbol resolution, builtin arity checking, recursive-series
// detection and seriesness inference, and input.* metadata capture. It
// mirrors the teacher compiler's separate resolution pass over its own AST
// (pkg/corset/compiler/resolver.go) but operates over the single tagged
// ast.Node tree instead of the teacher's typed Declaration/Expression
// hierarchy.
package analyzer

import (
	"fmt"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
	"github.com/deepentropy/pine2go/pkg/source"
)

// Result is the semantic metadata the code generator (C3) consumes
// alongside the raw ast.Program.
type Result struct {
	// RecursiveVariables names reassigned variables whose own history
	// (x[k]) is read on their right-hand side, requiring the per-bar loop
	// rewrite described in spec.md §4.3.
	RecursiveVariables map[string]bool
	// SeriesVariables records, for every declared variable, whether its
	// value is series-valued (true) or a plain scalar (false).
	SeriesVariables map[string]bool
	// InputMetadataNodes marks VarDecl nodes whose right-hand side was an
	// input.* call: these were captured into Program.Inputs and should not
	// be re-emitted as ordinary assignments by codegen.
	InputMetadataNodes map[*ast.Node]bool
	// FunctionReturnsSeries records, per user function/method name, whether
	// its body's final expression is series-valued.
	FunctionReturnsSeries map[string]bool
}

func newResult() *Result {
	return &Result{
		RecursiveVariables:    make(map[string]bool),
		SeriesVariables:       make(map[string]bool),
		InputMetadataNodes:    make(map[*ast.Node]bool),
		FunctionReturnsSeries: make(map[string]bool),
	}
}

type analyzer struct {
	file   *source.File
	errs   []*source.SyntaxError
	result *Result
}

// Analyze runs semantic analysis over program, whose AST was produced by
// parser.Parse(file). It never panics; diagnostics are returned alongside
// whatever metadata could be determined.
func Analyze(file *source.File, program *ast.Program) (*Result, []*source.SyntaxError) {
	a := &analyzer{file: file, result: newResult()}

	global := newScope(nil)
	a.declareImports(global, program)
	a.declareUserFunctions(global, program)

	for _, stmt := range program.Statements {
		a.walkStatement(stmt, global, program)
	}

	a.checkRecursiveVariables(program)

	return a.result, a.errs
}

func (a *analyzer) errorf(span source.Span, format string, args ...any) {
	a.errs = append(a.errs, a.file.SyntaxErrorf(span, format, args...))
}

func (a *analyzer) declareImports(global *scope, program *ast.Program) {
	for _, imp := range program.Imports {
		global.declare(&symbol{name: imp.Alias, kind: symImportAlias})
	}
}

// declareUserFunctions pre-declares every top-level function name (and
// method name, qualified by receiver type) before bodies are walked, so
// mutually-recursive and forward references resolve.
func (a *analyzer) declareUserFunctions(global *scope, program *ast.Program) {
	for _, stmt := range program.Statements {
		if stmt.Kind == ast.FunctionDecl {
			global.declare(&symbol{name: stmt.Name, kind: symFunc, node: stmt})
		}
	}

	for boundType, methods := range program.Methods {
		for _, m := range methods {
			global.declare(&symbol{name: boundType + "." + m.Name, kind: symFunc, node: m})
		}
	}

	for name, info := range program.Types {
		global.declare(&symbol{name: name, kind: symType, node: info})
	}
}

// walkStatement dispatches on node.Kind, declaring/checking symbols and
// recursing into children with the scope appropriate to each construct.
func (a *analyzer) walkStatement(n *ast.Node, s *scope, program *ast.Program) {
	if n == nil {
		return
	}

	switch n.Kind {
	case ast.VarDecl:
		a.walkVarDecl(n, s, program)
	case ast.Reassign:
		a.walkReassign(n, s)
	case ast.TupleDestructure:
		a.walkTupleDestructure(n, s)
	case ast.ExprStatement:
		a.walkExpr(n.Children[0], s)
	case ast.IfStatement:
		a.walkIf(n, s, program)
	case ast.ForRange:
		a.walkForRange(n, s, program)
	case ast.ForIn:
		a.walkForIn(n, s, program)
	case ast.WhileStatement:
		a.walkWhile(n, s, program)
	case ast.BreakStatement:
		if !s.inAnyLoop() {
			a.errorf(n.Span, "break statement outside of loop")
		}
	case ast.ContinueStatement:
		if !s.inAnyLoop() {
			a.errorf(n.Span, "continue statement outside of loop")
		}
	case ast.FunctionDecl:
		a.walkFunctionDecl(n, s, program)
	case ast.Block:
		inner := newScope(s)
		for _, c := range n.Children {
			a.walkStatement(c, inner, program)
		}
	default:
		a.walkExpr(n, s)
	}
}

func (a *analyzer) walkVarDecl(n *ast.Node, s *scope, program *ast.Program) {
	var rhs *ast.Node
	if len(n.Children) > 0 {
		rhs = n.Children[0]
	}

	if rhs != nil && rhs.Kind == ast.FunctionCall {
		if inputType, ok := mapper.IsInputCall(rhs.Name); ok {
			a.captureInput(n, rhs, inputType, program)
			a.result.InputMetadataNodes[n] = true
		}
	}

	isSeries := false
	if rhs != nil {
		isSeries = a.walkExpr(rhs, s)
	}

	sym := &symbol{name: n.Name, kind: symVar, isSeries: isSeries, node: n}
	if !s.declare(sym) {
		a.errorf(n.Span, "'%s' is already declared in this scope", n.Name)
	}

	a.result.SeriesVariables[n.Name] = isSeries
}

func (a *analyzer) captureInput(n, call *ast.Node, inputType string, program *ast.Program) {
	def := ast.InputDefinition{Name: n.Name}

	switch inputType {
	case "int":
		def.InputType = ast.InputInt
	case "bool":
		def.InputType = ast.InputBool
	case "string":
		def.InputType = ast.InputString
	case "color":
		def.InputType = ast.InputColor
	case "source":
		def.InputType = ast.InputSource
	default:
		def.InputType = ast.InputFloat
	}

	if len(call.Children) > 0 {
		def.Defval = literalValue(call.Children[0])
	}

	for i, name := range call.Params {
		if name.Name == "title" || (i == 1 && name.Name == "") {
			if s, ok := literalValue(call.Params[i].DefaultValue).(string); ok {
				def.Title = s
			}
		}
	}

	program.AddInput(def)
}

func literalValue(n *ast.Node) any {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case ast.NumberLit, ast.StringLit, ast.BoolLit, ast.ColorLit:
		return n.Value
	default:
		return nil
	}
}

func (a *analyzer) walkReassign(n *ast.Node, s *scope) {
	sym, ok := s.lookup(n.Name)
	if !ok {
		a.errorf(n.Span, "undefined variable '%s'%s", n.Name, suggestionSuffix(n.Name, s))
	} else if sym.kind == symConst {
		a.errorf(n.Span, "cannot reassign '%s'", n.Name)
	}

	isSeries := false
	if len(n.Children) > 0 {
		isSeries = a.walkExpr(n.Children[0], s)
	}

	if ok {
		sym.isSeries = sym.isSeries || isSeries
		a.result.SeriesVariables[n.Name] = sym.isSeries
	}
}

func (a *analyzer) walkTupleDestructure(n *ast.Node, s *scope) {
	if len(n.Children) == 0 {
		return
	}

	value := n.Children[len(n.Children)-1]
	isSeries := a.walkExpr(value, s)

	for _, target := range n.Children[:len(n.Children)-1] {
		s.declare(&symbol{name: target.Name, kind: symVar, isSeries: isSeries})
		a.result.SeriesVariables[target.Name] = isSeries
	}
}

func (a *analyzer) walkIf(n *ast.Node, s *scope, program *ast.Program) {
	a.walkExpr(n.Children[0], s)
	a.walkStatement(n.Children[1], newScope(s), program)

	for _, clause := range n.Children[2:] {
		if clause.Children[0] != nil {
			a.walkExpr(clause.Children[0], s)
		}

		a.walkStatement(clause.Children[1], newScope(s), program)
	}
}

func (a *analyzer) walkForRange(n *ast.Node, s *scope, program *ast.Program) {
	a.walkExpr(n.Children[0], s)
	a.walkExpr(n.Children[1], s)

	if n.Step != nil {
		a.walkExpr(n.Step, s)
	}

	inner := newScope(s)
	inner.inLoop = true
	inner.declare(&symbol{name: n.Name, kind: symConst})

	a.walkStatement(n.Children[2], inner, program)
}

func (a *analyzer) walkForIn(n *ast.Node, s *scope, program *ast.Program) {
	isSeries := a.walkExpr(n.Children[0], s)

	inner := newScope(s)
	inner.inLoop = true

	if n.Name != "" {
		inner.declare(&symbol{name: n.Name, kind: symConst})
	}

	inner.declare(&symbol{name: n.Operator, kind: symVar, isSeries: isSeries})

	a.walkStatement(n.Children[1], inner, program)
}

func (a *analyzer) walkWhile(n *ast.Node, s *scope, program *ast.Program) {
	a.walkExpr(n.Children[0], s)

	inner := newScope(s)
	inner.inLoop = true

	a.walkStatement(n.Children[1], inner, program)
}

func (a *analyzer) walkFunctionDecl(n *ast.Node, s *scope, program *ast.Program) {
	inner := newScope(s)

	for _, param := range n.Params {
		inner.declare(&symbol{name: param.Name, kind: symVar})

		if param.DefaultValue != nil {
			a.walkExpr(param.DefaultValue, s)
		}
	}

	body := n.Children[0]
	returnsSeries := false

	for _, stmt := range body.Children {
		if stmt.Kind == ast.ExprStatement {
			returnsSeries = a.walkExpr(stmt.Children[0], inner)
		} else {
			a.walkStatement(stmt, inner, program)
		}
	}

	a.result.FunctionReturnsSeries[n.Name] = returnsSeries
}

// checkRecursiveVariables scans every Reassign statement in the program
// (recursively, including inside blocks) for a HistoryAccess on the same
// name within its own right-hand side, marking it for the codegen rewrite
// described in spec.md §4.3.d.
func (a *analyzer) checkRecursiveVariables(program *ast.Program) {
	for _, stmt := range program.Statements {
		a.scanRecursive(stmt)
	}
}

func (a *analyzer) scanRecursive(n *ast.Node) {
	if n == nil {
		return
	}

	if n.Kind == ast.Reassign && len(n.Children) > 0 {
		if referencesOwnHistory(n.Children[0], n.Name) {
			a.result.RecursiveVariables[n.Name] = true
		}
	}

	for _, c := range n.Children {
		a.scanRecursive(c)
	}
}

func referencesOwnHistory(n *ast.Node, name string) bool {
	if n == nil {
		return false
	}

	if n.Kind == ast.HistoryAccess && len(n.Children) > 0 {
		base := n.Children[0]
		if base.Kind == ast.Identifier && base.Name == name {
			return true
		}
	}

	for _, c := range n.Children {
		if referencesOwnHistory(c, name) {
			return true
		}
	}

	return false
}

func suggestionSuffix(name string, s *scope) string {
	if cand := suggest(name, s.names()); cand != "" {
		return fmt.Sprintf(" (did you mean '%s'?)", cand)
	}

	return ""
}
