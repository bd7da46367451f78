// Package ast defines the PineScript abstract syntax tree and the
// program-level metadata the parser and analyzer accumulate around it.
//
// Following spec.md §3 exactly, the tree uses one tagged Node type rather
// than a family of per-construct struct types (contrast the teacher
// compiler's richer `Declaration`/`Expression`/`Symbol` interface
// hierarchy in pkg/corset/ast — PineScript's grammar is shallow enough,
// and its later passes uniform enough over "any expression"/"any
// statement", that a single variant node keeps the analyzer and code
// generator's tree-walks (pine/analyzer, pine/codegen) a single switch
// each, matching the "explicit tag matching over the AST variant set"
// guidance the teacher's own design notes recommend for systems
// languages lacking cheap open recursion.
package ast

import "github.com/deepentropy/pine2go/pkg/source"

// Kind is the closed set of node tags recognized by the parser, analyzer and
// code generator.
type Kind uint8

// The node kinds. Grouped by spec.md §4.1 grammar section.
const (
	_ Kind = iota

	// literals & identifiers
	NumberLit
	StringLit
	BoolLit
	ColorLit
	NaLit
	Identifier

	// expressions
	BinaryExpr
	UnaryExpr
	TernaryExpr
	SwitchExpr
	SwitchCase // child of SwitchExpr: Children[0]=value-or-nil, Children[1]=result
	FunctionCall
	NamedArg // not produced by the parser; named call arguments are recorded in Node.Params
	MemberExpr
	FieldAccess
	MethodCallExpr
	TypeInstantiation
	GenericFunctionCall
	ArrayLiteral
	HistoryAccess
	TupleExpr // bare [a, b, ...] on the LHS of a destructuring assignment

	// statements
	ExprStatement
	VarDecl
	Reassign
	TupleDestructure
	IfStatement
	ElseIfClause // child of IfStatement
	ForRange     // `for i = a to b [by step]`
	ForIn        // `for x in col` / `for [i, x] in col`
	WhileStatement
	BreakStatement
	ContinueStatement
	FunctionDecl
	Block

	// top-level declarations
	IndicatorDecl
	LibraryDecl
	ImportDecl
	TypeDecl
	FieldDecl
	MethodDecl
)

// Param describes one formal parameter of a function, method, or type
// field-default expression.
type Param struct {
	Name         string
	DefaultValue *Node
}

// Node is a single element of the abstract syntax tree.  Trees are produced
// once by the parser and never mutated afterwards; analysis results attach
// to nodes via side tables keyed by pointer identity (see pine/analyzer),
// never by further mutating the tree.
type Node struct {
	Kind Kind
	// Value carries the scalar payload for literal nodes: string, float64 or
	// bool depending on Kind.
	Value any
	// Children holds this node's ordered operands/sub-statements. Meaning is
	// Kind-specific; see the constructors below.
	Children []*Node
	// Name carries a loop variable, declared name, function/type/method
	// name, or (for Identifier/FunctionCall) the parsed dotted name.
	Name string
	// Step is the optional `by` step expression of a ForRange node.
	Step *Node
	// Operator carries the binary/unary operator token text.
	Operator string
	// Exported marks `export type`/`export method`/library-level exports.
	Exported bool
	// FieldType carries a field's declared type name (possibly qualified or
	// generic, e.g. "array<float>") for FieldDecl nodes.
	FieldType string
	// BoundType carries the receiver type name for MethodDecl nodes.
	BoundType string
	// Params carries parameter lists for FunctionDecl/MethodDecl/TypeDecl.
	Params []Param
	// Span anchors this node to its source text for diagnostics.
	Span source.Span
}

// New constructs a bare node of the given kind at span.
func New(kind Kind, span source.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// IsSeriesLiteralNa reports whether this node is the bare `na` literal,
// which participates in several series-ness heuristics (ternary balancing,
// recursive-formula base case detection) as a special case.
func (n *Node) IsSeriesLiteralNa() bool {
	return n != nil && n.Kind == NaLit
}

// String renders a short, human-readable debug form; used by tests and CLI
// diagnostics rather than for code generation.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	switch n.Kind {
	case NumberLit, BoolLit, ColorLit, StringLit:
		return formatValue(n.Value)
	case NaLit:
		return "na"
	case Identifier:
		return n.Name
	case BinaryExpr:
		return "(" + n.Operator + " " + n.Children[0].String() + " " + n.Children[1].String() + ")"
	case UnaryExpr:
		return "(" + n.Operator + " " + n.Children[0].String() + ")"
	case FunctionCall:
		return n.Name + "(...)"
	case HistoryAccess:
		return n.Children[0].String() + "[" + n.Children[1].String() + "]"
	default:
		return kindName(n.Kind)
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return trimFloat(t)
	case bool:
		if t {
			return "true"
		}

		return "false"
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	// Minimal, test-stable float formatting; codegen has its own formatter
	// (see codegen.formatNumber) with different rounding/precision needs.
	s := fmtFloat(f)
	return s
}
