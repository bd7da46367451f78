package parser

import (
	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/token"
	"github.com/deepentropy/pine2go/pkg/source"
)

// parseStatement parses one statement and consumes its trailing NEWLINE (if
// any). Returns nil for blank/erroneous lines that produced no node.
func (p *parser) parseStatement() *ast.Node {
	switch p.kind() {
	case token.VAR, token.VARIP:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		n := ast.New(ast.BreakStatement, p.cur().Span)
		p.advance()
		p.consumeStatementEnd()

		return n
	case token.CONTINUE:
		n := ast.New(ast.ContinueStatement, p.cur().Span)
		p.advance()
		p.consumeStatementEnd()

		return n
	case token.LBRACKET:
		return p.parseTupleDestructure()
	case token.IDENT:
		if p.looksLikeFunctionDecl() {
			return p.parseFunctionDecl()
		}

		return p.parseAssignOrExprStatement()
	default:
		stmt := p.parseExprStatement()
		return stmt
	}
}

// parseBlock parses an INDENT ... DEDENT delimited statement sequence,
// returning it as a Block node. A NEWLINE before the INDENT is consumed. If
// no indented block follows, an empty Block is returned.
func (p *parser) parseBlock() *ast.Node {
	start := p.cur().Span

	block := ast.New(ast.Block, start)

	if p.at(token.NEWLINE) {
		p.advance()
	}

	if !p.at(token.INDENT) {
		return block
	}

	p.advance() // INDENT

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()

		if p.at(token.DEDENT) || p.at(token.EOF) {
			break
		}

		switch p.kind() {
		case token.TYPE, token.METHOD, token.EXPORT, token.IMPORT, token.INDICATOR, token.LIBRARY:
			// Not valid nested here in practice; resync defensively.
			p.errorf("declaration not permitted in nested block")
			p.resync()
			p.skipNewlines()

			continue
		}

		if stmt := p.parseStatement(); stmt != nil {
			block.Children = append(block.Children, stmt)
		}

		p.skipNewlines()
	}

	if p.at(token.DEDENT) {
		p.advance()
	}

	return block
}

func (p *parser) parseVarDecl() *ast.Node {
	qualifier := p.advance().Text // "var" or "varip"
	nameTok, ok := p.expect(token.IDENT, "variable name")

	if !ok {
		p.resync()
		return nil
	}

	n := ast.New(ast.VarDecl, nameTok.Span)
	n.Name = nameTok.Text
	n.Operator = qualifier

	if p.at(token.ASSIGN) {
		p.advance()
		n.Children = []*ast.Node{p.parseExpr()}
	}

	p.consumeStatementEnd()

	return n
}

// parseAssignOrExprStatement handles the three IDENT-initial statement
// shapes: `x = expr` (declaration), `x := expr` (reassignment), and a bare
// expression statement (e.g. a call like `plot(x)`).
func (p *parser) parseAssignOrExprStatement() *ast.Node {
	// Tuple destructure without brackets is not part of the grammar; IDENT
	// here always starts an expression. Disambiguate assignment forms by
	// lookahead on the identifier alone (simple names only - `a.b = x` is
	// not valid PineScript assignment syntax).
	if p.toks[p.pos+1].Kind == token.ASSIGN {
		nameTok := p.advance()
		p.advance() // =

		n := ast.New(ast.VarDecl, nameTok.Span)
		n.Name = nameTok.Text
		n.Children = []*ast.Node{p.parseExpr()}
		p.consumeStatementEnd()

		return n
	}

	if p.toks[p.pos+1].Kind == token.REASSIGN {
		nameTok := p.advance()
		p.advance() // :=

		n := ast.New(ast.Reassign, nameTok.Span)
		n.Name = nameTok.Text
		n.Children = []*ast.Node{p.parseExpr()}
		p.consumeStatementEnd()

		return n
	}

	return p.parseExprStatement()
}

func (p *parser) parseExprStatement() *ast.Node {
	start := p.cur().Span
	expr := p.parseExpr()
	n := ast.New(ast.ExprStatement, start)
	n.Children = []*ast.Node{expr}
	p.consumeStatementEnd()

	return n
}

func (p *parser) parseTupleDestructure() *ast.Node {
	start := p.cur().Span
	p.advance() // [

	var targets []*ast.Node

	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		if tok, ok := p.expect(token.IDENT, "target name"); ok {
			id := ast.New(ast.Identifier, tok.Span)
			id.Name = tok.Text
			targets = append(targets, id)
		}

		if p.at(token.COMMA) {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RBRACKET, "']'")
	p.expect(token.ASSIGN, "'='")

	value := p.parseExpr()

	n := ast.New(ast.TupleDestructure, start)
	n.Children = append(targets, value)
	p.consumeStatementEnd()

	return n
}

func (p *parser) parseIf() *ast.Node {
	start := p.cur().Span
	p.advance() // if

	n := ast.New(ast.IfStatement, start)
	cond := p.parseExpr()
	then := p.parseBlock()
	n.Children = []*ast.Node{cond, then}

	for p.peekIsElseIf() {
		p.skipNewlines()
		p.advance() // else
		p.advance() // if

		elifCond := p.parseExpr()
		elifBody := p.parseBlock()

		clause := ast.New(ast.ElseIfClause, elifCond.Span)
		clause.Children = []*ast.Node{elifCond, elifBody}
		n.Children = append(n.Children, clause)
	}

	if p.peekIsElse() {
		p.skipNewlines()
		p.advance() // else

		elseBody := p.parseBlock()
		clause := ast.New(ast.ElseIfClause, elseBody.Span)
		clause.Children = []*ast.Node{nil, elseBody}
		n.Children = append(n.Children, clause)
	}

	return n
}

// peekIsElseIf/peekIsElse look past any pending NEWLINE/DEDENT-less
// separators for a same-indent `else` continuation line.
func (p *parser) peekIsElseIf() bool {
	i := p.pos
	for p.toks[i].Kind == token.NEWLINE {
		i++
	}

	return p.toks[i].Kind == token.ELSE && p.toks[i+1].Kind == token.IF
}

func (p *parser) peekIsElse() bool {
	i := p.pos
	for p.toks[i].Kind == token.NEWLINE {
		i++
	}

	return p.toks[i].Kind == token.ELSE
}

// parseFor parses both `for i = a to b [by step]` and `for [i, x] in col` /
// `for x in col`.
func (p *parser) parseFor() *ast.Node {
	start := p.cur().Span
	p.advance() // for

	if p.at(token.LBRACKET) {
		return p.parseForIn(start, true)
	}

	if p.at(token.IDENT) && p.toks[p.pos+1].Kind == token.IN {
		return p.parseForIn(start, false)
	}

	nameTok, ok := p.expect(token.IDENT, "loop variable")
	if !ok {
		p.resync()
		return nil
	}

	p.expect(token.ASSIGN, "'='")
	from := p.parseExpr()
	p.expect(token.TO, "'to'")
	to := p.parseExpr()

	var step *ast.Node
	if p.at(token.BY) {
		p.advance()
		step = p.parseExpr()
	}

	body := p.parseBlock()

	n := ast.New(ast.ForRange, start)
	n.Name = nameTok.Text
	n.Step = step
	n.Children = []*ast.Node{from, to, body}

	return n
}

func (p *parser) parseForIn(start source.Span, withIndex bool) *ast.Node {
	n := ast.New(ast.ForIn, start)

	if withIndex {
		p.advance() // [

		if idxTok, ok := p.expect(token.IDENT, "index variable"); ok {
			n.Name = idxTok.Text
		}

		p.expect(token.COMMA, "','")

		var valueName string
		if valTok, ok := p.expect(token.IDENT, "value variable"); ok {
			valueName = valTok.Text
		}

		p.expect(token.RBRACKET, "']'")
		n.Operator = valueName
	} else {
		if valTok, ok := p.expect(token.IDENT, "loop variable"); ok {
			n.Operator = valTok.Text
		}
	}

	p.expect(token.IN, "'in'")
	collection := p.parseExpr()
	body := p.parseBlock()
	n.Children = []*ast.Node{collection, body}

	return n
}

func (p *parser) parseWhile() *ast.Node {
	start := p.cur().Span
	p.advance() // while

	cond := p.parseExpr()
	body := p.parseBlock()

	n := ast.New(ast.WhileStatement, start)
	n.Children = []*ast.Node{cond, body}

	return n
}

// looksLikeFunctionDecl reports whether the current position begins
// `name(params...) =>`, distinguishing a user function declaration from a
// call expression statement such as `plot(x)`.
func (p *parser) looksLikeFunctionDecl() bool {
	if p.toks[p.pos+1].Kind != token.LPAREN {
		return false
	}

	depth := 0

	for i := p.pos + 1; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.toks[i+1].Kind == token.ARROW
			}
		case token.NEWLINE, token.EOF:
			return false
		}
	}

	return false
}

func (p *parser) parseFunctionDecl() *ast.Node {
	nameTok := p.advance()
	n := ast.New(ast.FunctionDecl, nameTok.Span)
	n.Name = nameTok.Text

	p.advance() // (

	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		paramTok, ok := p.expect(token.IDENT, "parameter name")
		if !ok {
			break
		}

		var def *ast.Node
		if p.at(token.ASSIGN) {
			p.advance()
			def = p.parseExpr()
		}

		n.Params = append(n.Params, ast.Param{Name: paramTok.Text, DefaultValue: def})

		if p.at(token.COMMA) {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RPAREN, "')'")
	p.expect(token.ARROW, "'=>'")

	n.Children = []*ast.Node{p.parseFunctionBody()}

	return n
}

// parseFunctionBody parses either a single-expression body on the `=>` line
// or an indented block of statements, matching spec.md §4.1's "single
// -expression or indented bodies" rule for both user functions and
// methods. The returned node is always a Block whose last ExprStatement
// child (if any) is the implicit return value.
func (p *parser) parseFunctionBody() *ast.Node {
	if p.at(token.NEWLINE) {
		p.advance()
		return p.parseBlock()
	}

	start := p.cur().Span
	expr := p.parseExpr()
	p.consumeStatementEnd()

	block := ast.New(ast.Block, start)
	stmt := ast.New(ast.ExprStatement, start)
	stmt.Children = []*ast.Node{expr}
	block.Children = []*ast.Node{stmt}

	return block
}
