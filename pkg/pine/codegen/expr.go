package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
)

// genExpr renders n as a Go expression. Binary/unary/ternary operators
// lower to plain Go arithmetic when every operand is scalar, and to
// *runtime.Series method chains (spec.md §4.3's "Binary expressions with
// series" rule) when any operand is series-valued; the choice is made
// per-node via isSeries so a single expression can mix both freely (e.g.
// `len * 2` stays scalar even inside a series-producing formula).
func genExpr(n *ast.Node, analysis *analyzer.Result) string {
	if n == nil {
		return "0"
	}

	switch n.Kind {
	case ast.NumberLit:
		return formatFloat(n.Value.(float64))
	case ast.StringLit:
		return strconv.Quote(n.Value.(string))
	case ast.BoolLit:
		return fmt.Sprintf("%v", n.Value.(bool))
	case ast.ColorLit:
		return strconv.Quote(n.Value.(string))
	case ast.NaLit:
		return "runtime.NaN"
	case ast.Identifier:
		return genIdentifier(n)
	case ast.MemberExpr:
		return genMember(n)
	case ast.BinaryExpr:
		return genBinary(n, analysis)
	case ast.UnaryExpr:
		return genUnary(n, analysis)
	case ast.TernaryExpr:
		return genTernary(n, analysis)
	case ast.HistoryAccess:
		base := genExpr(n.Children[0], analysis)
		offset := genExpr(n.Children[1], analysis)

		return fmt.Sprintf("%s.Offset(%s)", base, offset)
	case ast.FunctionCall:
		return genCall(n, analysis)
	case ast.GenericFunctionCall:
		return genGenericCall(n, analysis)
	case ast.TypeInstantiation:
		return genTypeInstantiation(n, analysis)
	case ast.FieldAccess:
		return fmt.Sprintf("%s.%s", genExpr(n.Children[0], analysis), exportedName(n.Name))
	case ast.MethodCallExpr:
		return genMethodCall(n, analysis)
	case ast.ArrayLiteral:
		return genArrayLiteral(n, analysis)
	case ast.SwitchExpr:
		return genSwitch(n, analysis)
	default:
		return "nil"
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func genIdentifier(n *ast.Node) string {
	if field, ok := ohlcvSeries[n.Name]; ok {
		return field
	}

	switch n.Name {
	case "last_bar_index":
		return "ctx.LastBarIndex"
	case "na":
		return "runtime.NaN"
	case "this":
		return "self"
	}

	if hex, ok := mapper.ColorNames["color."+n.Name]; ok {
		return strconv.Quote(hex)
	}

	return sanitize(n.Name)
}

func genMember(n *ast.Node) string {
	if hex, ok := mapper.ColorNames[n.Name]; ok {
		return strconv.Quote(hex)
	}

	if field, ok := mapper.BarStateFields[n.Name]; ok {
		return field
	}

	parts := strings.SplitN(n.Name, ".", 2)
	if len(parts) == 2 {
		switch parts[0] {
		case "syminfo", "timeframe":
			return fmt.Sprintf("%s.%s", parts[0], exportedName(parts[1]))
		}
	}

	return sanitize(n.Name)
}

func genBinary(n *ast.Node, analysis *analyzer.Result) string {
	left, right := n.Children[0], n.Children[1]
	leftGo, rightGo := genExpr(left, analysis), genExpr(right, analysis)

	if !isSeries(left, analysis) && !isSeries(right, analysis) {
		return fmt.Sprintf("(%s %s %s)", leftGo, goOperator(n.Operator), rightGo)
	}

	method := mapper.SeriesOperatorMethods[n.Operator]

	// Series must be on the receiver side; commutative operators may swap
	// a scalar-left/series-right pair to satisfy this (spec.md §4.3).
	if !isSeries(left, analysis) && isSeries(right, analysis) {
		if n.Operator == "+" || n.Operator == "*" {
			return fmt.Sprintf("%s.%s(%s)", rightGo, method, leftGo)
		}
		// Non-commutative scalar-left/series-right: documented limitation,
		// fall back to wrapping the scalar into a constant series instead
		// of silently using plain arithmetic (keeps series semantics).
		return fmt.Sprintf("runtime.SeriesFromScalar(%s, %s).%s(%s)", leftGo, lengthExprFor(right), method, rightGo)
	}

	return fmt.Sprintf("%s.%s(%s)", leftGo, method, rightGo)
}

// lengthExprFor returns a Go expression for the bar count backing a series
// node, used when a bare scalar must be promoted to a constant series of
// matching length.
func lengthExprFor(seriesNode *ast.Node) string {
	return fmt.Sprintf("%s.Len()", genExprLenTarget(seriesNode))
}

func genExprLenTarget(n *ast.Node) string {
	return "ctx.Close" // any bar-length series works as the length source
}

func goOperator(op string) string {
	switch op {
	case "&&":
		return "&&"
	case "||":
		return "||"
	default:
		return op
	}
}

func genUnary(n *ast.Node, analysis *analyzer.Result) string {
	operand := n.Children[0]
	goExpr := genExpr(operand, analysis)

	if !isSeries(operand, analysis) {
		if n.Operator == "!" {
			return fmt.Sprintf("!(%s)", goExpr)
		}

		return fmt.Sprintf("(%s%s)", n.Operator, goExpr)
	}

	if n.Operator == "-" {
		return fmt.Sprintf("%s.Neg()", goExpr)
	}

	return fmt.Sprintf("!(%s)", goExpr)
}

func genTernary(n *ast.Node, analysis *analyzer.Result) string {
	cond, then, els := n.Children[0], n.Children[1], n.Children[2]
	condGo, thenGo, elsGo := genExpr(cond, analysis), genExpr(then, analysis), genExpr(els, analysis)

	thenSeries, elsSeries := isSeries(then, analysis), isSeries(els, analysis)

	if thenSeries || elsSeries {
		// A mixed series/scalar ternary needs both arms as *Series
		// (spec.md §4.3): the scalar arm is promoted to a constant series
		// matching the bar count before SeriesTernary picks between them.
		if !thenSeries {
			thenGo = fmt.Sprintf("runtime.SeriesFromScalar(%s, %s)", thenGo, lengthExprFor(els))
		}

		if !elsSeries {
			elsGo = fmt.Sprintf("runtime.SeriesFromScalar(%s, %s)", elsGo, lengthExprFor(then))
		}

		return fmt.Sprintf("runtime.SeriesTernary(%s, %s, %s)", condGo, thenGo, elsGo)
	}

	return fmt.Sprintf("runtime.If(%s, %s, %s)", condGo, thenGo, elsGo)
}

func genCall(n *ast.Node, analysis *analyzer.Result) string {
	args := make([]string, len(n.Children))
	for i, c := range n.Children {
		args[i] = genExpr(c, analysis)
	}

	switch n.Name {
	case "na":
		return fmt.Sprintf("runtime.IsNa(%s)", strings.Join(args, ", "))
	case "nz":
		if len(args) == 1 {
			args = append(args, "0")
		}

		return fmt.Sprintf("runtime.Nz(%s)", strings.Join(args, ", "))
	case "ta.vwma":
		// spec.md §4.3 "Special function translations": ta.vwma(src, len)
		// is rewritten to receive volume explicitly.
		args = append(args, "ctx.Volume")
	case "runtime.error":
		return fmt.Sprintf("runtime.Panic(%s)", strings.Join(args, ", "))
	}

	if goName, ok := mapper.ResolveFunction(n.Name); ok {
		return fmt.Sprintf("%s(%s)", goName, strings.Join(args, ", "))
	}

	if mapper.IsNamespaced(n.Name) {
		// Unrecognized but clearly-builtin call: pass through unchanged
		// under its dotted name, as spec.md §7's "Unknown function" policy
		// directs (downstream runtime surfaces the error, if any).
		return fmt.Sprintf("%s(%s)", goQualified(n.Name), strings.Join(args, ", "))
	}

	// User function/method call.
	return fmt.Sprintf("%s(%s)", sanitize(n.Name), strings.Join(args, ", "))
}

// goQualified turns a dotted builtin name like "request.security" into a Go
// selector expression "request.Security".
func goQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = exportedName(p)
	}

	return strings.Join(parts, ".")
}

func genGenericCall(n *ast.Node, analysis *analyzer.Result) string {
	args := make([]string, len(n.Children))
	for i, c := range n.Children {
		args[i] = genExpr(c, analysis)
	}

	if n.Name == "array.new" {
		switch len(args) {
		case 0:
			return "arraylib.New[float64]()"
		case 1:
			return fmt.Sprintf("arraylib.NewFilled[float64](int(%s), 0)", args[0])
		default:
			return fmt.Sprintf("arraylib.NewFilled[float64](int(%s), %s)", args[0], args[1])
		}
	}

	return fmt.Sprintf("%s(%s)", goQualified(n.Name), strings.Join(args, ", "))
}

// genTypeInstantiation renders `T.new(...)` as a Go composite literal
// `&T{Field: value, ...}`. Field names for positional arguments are
// resolved from currentProgram.Types (PineScript positional `T.new` args
// are, by language rule, already given in field-declaration order); a
// field left unsupplied gets its declared default expression when it has
// one, and is otherwise omitted so it takes its Go zero value.
func genTypeInstantiation(n *ast.Node, analysis *analyzer.Result) string {
	typeName := exportedName(n.Name)
	info := currentProgram.Types[n.Name]

	entries := make([]string, 0, len(n.Params))
	supplied := make(map[string]bool, len(n.Params))

	for i, p := range n.Params {
		fieldName := p.Name
		if fieldName == "" && info != nil && i < len(info.Fields) {
			fieldName = info.Fields[i].Name
		}

		if fieldName == "" {
			entries = append(entries, genExpr(p.DefaultValue, analysis))
			continue
		}

		supplied[fieldName] = true
		entries = append(entries, fmt.Sprintf("%s: %s", exportedName(fieldName), genExpr(p.DefaultValue, analysis)))
	}

	if info != nil {
		for _, f := range info.Fields {
			if !supplied[f.Name] && f.DefaultValue != nil {
				entries = append(entries, fmt.Sprintf("%s: %s", exportedName(f.Name), genExpr(f.DefaultValue, analysis)))
			}
		}
	}

	return fmt.Sprintf("&%s{%s}", typeName, strings.Join(entries, ", "))
}

func genMethodCall(n *ast.Node, analysis *analyzer.Result) string {
	obj := genExpr(n.Children[0], analysis)

	args := make([]string, len(n.Children)-1)
	for i, c := range n.Children[1:] {
		args[i] = genExpr(c, analysis)
	}

	var bound []string
	for t, methods := range currentProgram.Methods {
		for _, m := range methods {
			if m.Name == n.Name {
				bound = append(bound, t)
			}
		}
	}

	if len(bound) == 1 {
		return fmt.Sprintf("%s(%s)", methodFuncName(bound[0], n.Name), strings.Join(append([]string{obj}, args...), ", "))
	}

	return fmt.Sprintf("%s.%s(%s)", obj, exportedName(n.Name), strings.Join(args, ", "))
}

func genArrayLiteral(n *ast.Node, analysis *analyzer.Result) string {
	elems := make([]string, len(n.Children))
	for i, c := range n.Children {
		elems[i] = genExpr(c, analysis)
	}

	return fmt.Sprintf("[]float64{%s}", strings.Join(elems, ", "))
}

// genSwitch lowers a `switch` expression to an immediately invoked function
// literal (spec.md §4.3's "switch lowering"): with a scrutinee, a Go
// switch statement; without one, an if/else-if ladder. Both forms `return`
// from inside the closure.
func genSwitch(n *ast.Node, analysis *analyzer.Result) string {
	var b strings.Builder

	scrutinee := n.Children[0]
	cases := n.Children[1:]

	b.WriteString("func() float64 {\n")

	if scrutinee != nil {
		fmt.Fprintf(&b, "switch %s {\n", genExpr(scrutinee, analysis))

		for _, c := range cases {
			if c.Children[0] == nil {
				fmt.Fprintf(&b, "default:\nreturn %s\n", genExpr(c.Children[1], analysis))
			} else {
				fmt.Fprintf(&b, "case %s:\nreturn %s\n", genExpr(c.Children[0], analysis), genExpr(c.Children[1], analysis))
			}
		}

		b.WriteString("}\nreturn runtime.NaN\n")
	} else {
		wroteIf := false

		for _, c := range cases {
			if c.Children[0] == nil {
				fmt.Fprintf(&b, "return %s\n", genExpr(c.Children[1], analysis))

				continue
			}

			keyword := "if"
			if wroteIf {
				keyword = "} else if"
			}

			fmt.Fprintf(&b, "%s %s {\nreturn %s\n", keyword, genExpr(c.Children[0], analysis), genExpr(c.Children[1], analysis))
			wroteIf = true
		}

		if wroteIf {
			b.WriteString("}\n")
		}

		b.WriteString("return runtime.NaN\n")
	}

	b.WriteString("}()")

	return b.String()
}
