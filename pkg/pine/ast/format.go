package ast

import "strconv"

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var kindNames = map[Kind]string{
	TernaryExpr:         "ternary",
	SwitchExpr:          "switch",
	SwitchCase:          "case",
	MemberExpr:          "member",
	FieldAccess:         "field-access",
	MethodCallExpr:      "method-call",
	TypeInstantiation:   "type-new",
	GenericFunctionCall: "generic-call",
	ArrayLiteral:        "array-literal",
	TupleExpr:           "tuple",
	ExprStatement:       "expr-stmt",
	VarDecl:             "var-decl",
	Reassign:            "reassign",
	TupleDestructure:    "tuple-destructure",
	IfStatement:         "if",
	ElseIfClause:        "else-if",
	ForRange:            "for-range",
	ForIn:               "for-in",
	WhileStatement:      "while",
	BreakStatement:      "break",
	ContinueStatement:   "continue",
	FunctionDecl:        "function-decl",
	Block:               "block",
	IndicatorDecl:       "indicator-decl",
	LibraryDecl:         "library-decl",
	ImportDecl:          "import-decl",
	TypeDecl:            "type-decl",
	FieldDecl:           "field-decl",
	MethodDecl:          "method-decl",
	NamedArg:            "named-arg",
}

func kindName(k Kind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "node"
}
