package parser

import (
	"strconv"
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/token"
)

// parseExpr parses a full expression at ternary precedence, the lowest and
// entry level of the precedence table in spec.md §4.1.
func (p *parser) parseExpr() *ast.Node {
	cond := p.parseOr()

	if p.at(token.QUESTION) {
		start := cond.Span
		p.advance()

		then := p.parseExpr() // right-associative
		p.expect(token.COLON, "':'")
		els := p.parseExpr()

		n := ast.New(ast.TernaryExpr, start)
		n.Children = []*ast.Node{cond, then, els}

		return n
	}

	return cond
}

func (p *parser) parseOr() *ast.Node {
	left := p.parseAnd()

	for p.at(token.OR) {
		left = p.binary(left, "||", p.parseAnd)
	}

	return left
}

func (p *parser) parseAnd() *ast.Node {
	left := p.parseEquality()

	for p.at(token.AND) {
		left = p.binary(left, "&&", p.parseEquality)
	}

	return left
}

func (p *parser) parseEquality() *ast.Node {
	left := p.parseRelational()

	for p.at(token.EQ) || p.at(token.NEQ) {
		op := opText(p.kind())
		left = p.binary(left, op, p.parseRelational)
	}

	return left
}

func (p *parser) parseRelational() *ast.Node {
	left := p.parseAdditive()

	for p.at(token.LT) || p.at(token.LTE) || p.at(token.GT) || p.at(token.GTE) {
		op := opText(p.kind())
		left = p.binary(left, op, p.parseAdditive)
	}

	return left
}

func (p *parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()

	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := opText(p.kind())
		left = p.binary(left, op, p.parseMultiplicative)
	}

	return left
}

func (p *parser) parseMultiplicative() *ast.Node {
	left := p.parseUnary()

	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := opText(p.kind())
		left = p.binary(left, op, p.parseUnary)
	}

	return left
}

// binary consumes the current operator token and the next operand, parsed
// by next, combining with left into a BinaryExpr.
func (p *parser) binary(left *ast.Node, op string, next func() *ast.Node) *ast.Node {
	p.advance()

	right := next()
	n := ast.New(ast.BinaryExpr, left.Span.Join(right.Span))
	n.Operator = op
	n.Children = []*ast.Node{left, right}

	return n
}

func opText(k token.Kind) string {
	switch k {
	case token.OR:
		return "||"
	case token.AND:
		return "&&"
	case token.EQ:
		return "=="
	case token.NEQ:
		return "!="
	case token.LT:
		return "<"
	case token.LTE:
		return "<="
	case token.GT:
		return ">"
	case token.GTE:
		return ">="
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	default:
		return "?"
	}
}

func (p *parser) parseUnary() *ast.Node {
	if p.at(token.MINUS) || p.at(token.PLUS) || p.at(token.NOT) {
		op := opText(p.kind())
		if p.at(token.NOT) {
			op = "!"
		}

		start := p.cur().Span
		p.advance()

		operand := p.parseUnary()
		n := ast.New(ast.UnaryExpr, start)
		n.Operator = op
		n.Children = []*ast.Node{operand}

		return n
	}

	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by zero or more `[k]`
// history-access or `.field`/`.method(args)` suffixes.
func (p *parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()

	for {
		switch {
		case p.at(token.LBRACKET):
			p.advance()

			offset := p.parseExpr()
			end, _ := p.expect(token.RBRACKET, "']'")

			h := ast.New(ast.HistoryAccess, n.Span.Join(end.Span))
			h.Children = []*ast.Node{n, offset}
			n = h
		case p.at(token.DOT):
			p.advance()

			nameTok, ok := p.expect(token.IDENT, "field or method name")
			if !ok {
				return n
			}

			if p.at(token.LPAREN) {
				args := p.parseCallArgs()
				call := ast.New(ast.MethodCallExpr, n.Span.Join(nameTok.Span))
				call.Name = nameTok.Text
				call.Children = append([]*ast.Node{n}, argNodes(args)...)
				call.Params = argParams(args)
				n = call
			} else {
				fa := ast.New(ast.FieldAccess, n.Span.Join(nameTok.Span))
				fa.Name = nameTok.Text
				fa.Children = []*ast.Node{n}
				n = fa
			}
		default:
			return n
		}
	}
}

// argNodes/argParams split parsed callArgs into a slice of every argument
// value (positional and named, in call order) plus a Param-shaped record of (name, value) pairs used by codegen to
// recover named arguments (stored as DefaultValue since Param is otherwise
// only used for declarations; codegen treats this pairing as
// name->suppliedValue, not name->default).
func argNodes(args []callArg) []*ast.Node {
	nodes := make([]*ast.Node, len(args))
	for i, a := range args {
		nodes[i] = a.Value
	}

	return nodes
}

func argParams(args []callArg) []ast.Param {
	params := make([]ast.Param, len(args))
	for i, a := range args {
		params[i] = ast.Param{Name: a.Name, DefaultValue: a.Value}
	}

	return params
}

func (p *parser) parsePrimary() *ast.Node {
	tok := p.cur()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()

		v, _ := strconv.ParseFloat(tok.Text, 64)
		n := ast.New(ast.NumberLit, tok.Span)
		n.Value = v

		return n
	case token.STRING:
		p.advance()

		n := ast.New(ast.StringLit, tok.Span)
		n.Value = tok.Text

		return n
	case token.HEXCOLOR:
		p.advance()

		n := ast.New(ast.ColorLit, tok.Span)
		n.Value = tok.Text

		return n
	case token.TRUE, token.FALSE:
		p.advance()

		n := ast.New(ast.BoolLit, tok.Span)
		n.Value = tok.Kind == token.TRUE

		return n
	case token.LPAREN:
		p.advance()

		inner := p.parseExpr()
		p.expect(token.RPAREN, "')'")

		return inner
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.SWITCH:
		return p.parseSwitchExpr()
	case token.IDENT:
		return p.parseIdentLed()
	default:
		p.errorf("unexpected token %s in expression", tok.Kind)
		p.advance()

		n := ast.New(ast.NumberLit, tok.Span)
		n.Value = float64(0)

		return n
	}
}

func (p *parser) parseArrayLiteral() *ast.Node {
	start := p.cur().Span
	p.advance() // [

	n := ast.New(ast.ArrayLiteral, start)

	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		n.Children = append(n.Children, p.parseExpr())

		if p.at(token.COMMA) {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RBRACKET, "']'")

	return n
}

// parseIdentLed parses every expression form that begins with an
// identifier: a dotted name, a bare identifier (or `na`), a call, a type
// instantiation (`Name.new(...)`), or a generic call (`array.new<T>(...)`).
func (p *parser) parseIdentLed() *ast.Node {
	start := p.cur().Span

	var parts []string

	first := p.advance()
	parts = append(parts, first.Text)

	for p.at(token.DOT) && p.toks[p.pos+1].Kind == token.IDENT {
		p.advance() // .
		parts = append(parts, p.advance().Text)
	}

	dotted := strings.Join(parts, ".")

	// array.new<T>(...) / array.new<T>(n, d) generic call.
	if p.at(token.LT) && looksLikeGenericCall(p, dotted) {
		p.advance() // <
		typeArg := p.parseTypeExpr()
		p.expect(token.GT, "'>'")

		args := p.parseCallArgs()

		n := ast.New(ast.GenericFunctionCall, start)
		n.Name = dotted
		n.FieldType = typeArg
		n.Children = argNodes(args)
		n.Params = argParams(args)

		return n
	}

	if p.at(token.LPAREN) {
		args := p.parseCallArgs()

		if strings.HasSuffix(dotted, ".new") {
			typeName := strings.TrimSuffix(dotted, ".new")
			n := ast.New(ast.TypeInstantiation, start)
			n.Name = typeName
			n.Children = argNodes(args)
			n.Params = argParams(args)

			return n
		}

		n := ast.New(ast.FunctionCall, start)
		n.Name = dotted
		n.Children = argNodes(args)
		n.Params = argParams(args)

		return n
	}

	if dotted == "na" {
		return ast.New(ast.NaLit, start)
	}

	if len(parts) > 1 {
		n := ast.New(ast.MemberExpr, start)
		n.Name = dotted

		return n
	}

	n := ast.New(ast.Identifier, start)
	n.Name = dotted

	return n
}

// looksLikeGenericCall disambiguates `array.new<float>(n)` (a generic call)
// from a relational expression like `array.size(a) < b` by requiring a
// matching `>` before the next NEWLINE and a `(` immediately after it.
func looksLikeGenericCall(p *parser, dotted string) bool {
	if !strings.HasSuffix(dotted, ".new") {
		return false
	}

	depth := 0

	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return p.toks[i+1].Kind == token.LPAREN
			}
		case token.NEWLINE, token.EOF:
			return false
		}
	}

	return false
}

// parseSwitchExpr parses `switch [scrutinee]` followed by an indented block
// of `value => expr` / `=> expr` case lines.
func (p *parser) parseSwitchExpr() *ast.Node {
	start := p.cur().Span
	p.advance() // switch

	n := ast.New(ast.SwitchExpr, start)

	if !p.at(token.NEWLINE) {
		n.Children = append(n.Children, p.parseExpr())
	} else {
		n.Children = append(n.Children, nil) // no scrutinee marker
	}

	p.consumeStatementEnd()

	if !p.at(token.INDENT) {
		return n
	}

	p.advance() // INDENT

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()

		if p.at(token.DEDENT) || p.at(token.EOF) {
			break
		}

		n.Children = append(n.Children, p.parseSwitchCase())
		p.skipNewlines()
	}

	if p.at(token.DEDENT) {
		p.advance()
	}

	return n
}

func (p *parser) parseSwitchCase() *ast.Node {
	start := p.cur().Span

	var value *ast.Node
	if !p.at(token.ARROW) {
		value = p.parseExpr()
	}

	p.expect(token.ARROW, "'=>'")

	result := p.parseExpr()
	p.consumeStatementEnd()

	c := ast.New(ast.SwitchCase, start)
	c.Children = []*ast.Node{value, result}

	return c
}
