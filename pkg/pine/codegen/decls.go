package codegen

import (
	"sort"
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
)

// currentProgram holds the ast.Program being generated, for the handful of
// lookups (type field order, for genTypeInstantiation) that need metadata
// the per-expression genExpr calls don't otherwise carry. Generate sets it
// once at the start of a single-threaded generation run.
var currentProgram *ast.Program

// emitTypes renders every user-defined `type` as a Go struct declaration,
// in alphabetical order (the parser records them in a map, which has no
// source order to preserve).
func (g *generator) emitTypes() {
	names := make([]string, 0, len(g.program.Types))
	for name := range g.program.Types {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		g.emitType(name, g.program.Types[name])
	}
}

func (g *generator) emitType(name string, info *ast.TypeInfo) {
	g.e.line("type %s struct {", exportedName(name))
	g.e.push()

	for _, f := range info.Fields {
		g.e.line("%s %s", exportedName(f.Name), goFieldType(f.FieldType))
	}

	g.e.pop()
	g.e.line("}")
	g.e.blank()
}

// goFieldType maps a parsed PineScript field type string (possibly
// "series "-prefixed or "array<...>"/"matrix<...>" generic) to its
// generated Go type.
func goFieldType(fieldType string) string {
	t := strings.TrimPrefix(fieldType, "series ")
	t = strings.TrimPrefix(t, "simple ")
	t = strings.TrimPrefix(t, "input ")
	t = strings.TrimPrefix(t, "const ")

	if strings.HasPrefix(t, "array<") {
		return "[]" + goFieldType(strings.TrimSuffix(strings.TrimPrefix(t, "array<"), ">"))
	}

	if strings.HasPrefix(t, "matrix<") {
		return "[][]" + goFieldType(strings.TrimSuffix(strings.TrimPrefix(t, "matrix<"), ">"))
	}

	if goType, ok := mapper.PrimitiveTypes[t]; ok {
		return goType
	}

	return "*" + exportedName(t)
}

// emitMethods renders every `method T(...) => ...` declaration as a Go
// function named by methodFuncName (type name followed by method name), with
// the receiver passed as an explicit leading parameter named "self" rather
// than as a Go method receiver. genMethodCall lowers `obj.m(...)` to a call
// of that function when exactly one user type declares a method named m.
func (g *generator) emitMethods() {
	boundTypes := make([]string, 0, len(g.program.Methods))
	for t := range g.program.Methods {
		boundTypes = append(boundTypes, t)
	}

	sort.Strings(boundTypes)

	for _, boundType := range boundTypes {
		for _, m := range g.program.Methods[boundType] {
			g.emitMethod(boundType, m)
		}
	}
}

func (g *generator) emitMethod(boundType string, m *ast.MethodInfo) {
	params := []string{"self *" + exportedName(boundType)}

	for _, p := range m.Parameters {
		params = append(params, sanitize(p.Name)+" "+paramGoType(p.ParamType))
	}

	g.e.line("func %s(%s) float64 {", methodFuncName(boundType, m.Name), strings.Join(params, ", "))
	g.e.push()
	g.emitFunctionBody(m.Body)
	g.e.pop()
	g.e.line("}")
	g.e.blank()
}

// methodFuncName is the generated free-function name for `method T.m`.
func methodFuncName(boundType, name string) string {
	return exportedName(boundType) + exportedName(name)
}

func paramGoType(paramType string) string {
	if paramType == "" {
		return "float64"
	}

	return goFieldType(paramType)
}

// emitFunctions renders every top-level `f(...) => ...` user function
// declaration as a free Go function.
func (g *generator) emitFunctions() {
	for _, stmt := range g.program.Statements {
		if stmt.Kind != ast.FunctionDecl {
			continue
		}

		g.emitFunction(stmt)
	}
}

func (g *generator) emitFunction(n *ast.Node) {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = sanitize(p.Name) + " float64"
	}

	returnType := "float64"
	if g.analysis.FunctionReturnsSeries[n.Name] {
		returnType = "*runtime.Series"
	}

	g.e.line("func %s(%s) %s {", sanitize(n.Name), strings.Join(params, ", "), returnType)
	g.e.push()
	g.emitFunctionBody(n.Children[0])
	g.e.pop()
	g.e.line("}")
	g.e.blank()
}

// emitFunctionBody emits every statement of a function/method body, with
// the final ExprStatement (if any) rendered as its implicit `return` value
// rather than a discarded expression statement.
func (g *generator) emitFunctionBody(block *ast.Node) {
	stmts := block.Children

	for i, stmt := range stmts {
		if i == len(stmts)-1 && stmt.Kind == ast.ExprStatement {
			g.e.line("return %s", genExpr(stmt.Children[0], g.analysis))
			return
		}

		g.emitStatement(stmt)
	}

	g.e.line("return runtime.NaN")
}
