package parser

import (
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/token"
)

// callArg is one parsed call argument: positional (Name == "") or named.
type callArg struct {
	Name  string
	Value *ast.Node
}

// parseCallArgs parses a parenthesized, comma-separated argument list,
// allowing `name=value` named arguments anywhere in the list per spec.md
// §4.2 ("Named arguments are passed through... values are still
// name-resolved").
func (p *parser) parseCallArgs() []callArg {
	var args []callArg

	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return args
	}

	for !p.at(token.RPAREN) && !p.at(token.EOF) && !p.at(token.NEWLINE) {
		args = append(args, p.parseOneCallArg())

		if p.at(token.COMMA) {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RPAREN, "')'")

	return args
}

func (p *parser) parseOneCallArg() callArg {
	if p.at(token.IDENT) && p.toks[p.pos+1].Kind == token.ASSIGN {
		name := p.advance().Text
		p.advance() // =

		return callArg{Name: name, Value: p.parseExpr()}
	}

	return callArg{Value: p.parseExpr()}
}

func argString(args []callArg, name string, positional int) (string, bool) {
	if v, ok := namedArg(args, name); ok {
		if s, ok := literalString(v); ok {
			return s, true
		}
	}

	if positional >= 0 && positional < len(args) && args[positional].Name == "" {
		if s, ok := literalString(args[positional].Value); ok {
			return s, true
		}
	}

	return "", false
}

func argBool(args []callArg, name string, positional int, def bool) bool {
	if v, ok := namedArg(args, name); ok {
		if v.Kind == ast.BoolLit {
			return v.Value.(bool)
		}
	}

	if positional >= 0 && positional < len(args) && args[positional].Name == "" {
		if args[positional].Value.Kind == ast.BoolLit {
			return args[positional].Value.Value.(bool)
		}
	}

	return def
}

func namedArg(args []callArg, name string) (*ast.Node, bool) {
	for _, a := range args {
		if a.Name == name {
			return a.Value, true
		}
	}

	return nil, false
}

func literalString(n *ast.Node) (string, bool) {
	if n == nil || n.Kind != ast.StringLit {
		return "", false
	}

	s, _ := n.Value.(string)

	return s, true
}

// parseIndicatorDecl parses `indicator(title, overlay=..., ...)`.
func (p *parser) parseIndicatorDecl() {
	p.advance() // indicator
	args := p.parseCallArgs()

	if title, ok := argString(args, "title", 0); ok {
		p.program.IndicatorTitle = title
	}

	p.program.IndicatorOverlay = argBool(args, "overlay", -1, false)
	p.program.IsLibrary = false

	p.consumeStatementEnd()
}

// parseLibraryDecl parses `library(title, overlay=...)`.
func (p *parser) parseLibraryDecl() {
	p.advance() // library
	args := p.parseCallArgs()

	name, _ := argString(args, "title", 0)
	overlay := argBool(args, "overlay", -1, false)

	p.program.IsLibrary = true
	p.program.LibraryInfo = &ast.LibraryInfo{Name: name, Overlay: overlay}

	p.consumeStatementEnd()
}

// parseImportDecl parses `import Publisher/Name/Version [as alias]`.
func (p *parser) parseImportDecl() {
	p.advance() // import

	ident, ok := p.expect(token.IDENT, "publisher name")
	if !ok {
		p.resync()
		return
	}

	publisher := ident.Text

	if !p.consumeSlash() {
		p.errorf("expected '/' in import path")
		p.resync()

		return
	}

	libTok, ok := p.expect(token.IDENT, "library name")
	if !ok {
		p.resync()
		return
	}

	library := libTok.Text

	if !p.consumeSlash() {
		p.errorf("expected '/' in import path")
		p.resync()

		return
	}

	version := p.parseImportVersion()
	alias := library

	if p.at(token.AS) {
		p.advance()

		if aliasTok, ok := p.expect(token.IDENT, "alias"); ok {
			alias = aliasTok.Text
		}
	}

	p.program.Imports = append(p.program.Imports, ast.ImportInfo{
		Publisher: publisher,
		Library:   library,
		Version:   version,
		Alias:     alias,
	})

	p.consumeStatementEnd()
}

// consumeSlash accepts a literal '/' inside an import path. The lexer
// tokenizes '/' as SLASH regardless of context.
func (p *parser) consumeSlash() bool {
	if p.at(token.SLASH) {
		p.advance()
		return true
	}

	return false
}

func (p *parser) parseImportVersion() string {
	if p.at(token.NUMBER) {
		return p.advance().Text
	}

	if p.at(token.IDENT) {
		return p.advance().Text
	}

	p.errorf("expected version number in import path")

	return ""
}

// parseTypeDecl parses `type T` followed by an indented block of
// `FieldType fieldName [= default]` lines.
func (p *parser) parseTypeDecl(exported bool) {
	p.advance() // type

	nameTok, ok := p.expect(token.IDENT, "type name")
	if !ok {
		p.resync()
		return
	}

	name := nameTok.Text
	info := &ast.TypeInfo{Exported: exported}

	p.consumeStatementEnd()

	if !p.at(token.INDENT) {
		p.program.Types[name] = info
		return
	}

	p.advance() // INDENT

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()

		if p.at(token.DEDENT) || p.at(token.EOF) {
			break
		}

		info.Fields = append(info.Fields, p.parseFieldDecl())
		p.skipNewlines()
	}

	if p.at(token.DEDENT) {
		p.advance()
	}

	p.program.Types[name] = info
}

func (p *parser) parseFieldDecl() ast.FieldInfo {
	fieldType := p.parseTypeExpr()

	nameTok, ok := p.expect(token.IDENT, "field name")
	if !ok {
		p.resync()
		return ast.FieldInfo{FieldType: fieldType}
	}

	field := ast.FieldInfo{Name: nameTok.Text, FieldType: fieldType}

	if p.at(token.ASSIGN) {
		p.advance()
		field.DefaultValue = p.parseExpr()
	} else {
		field.IsOptional = true
	}

	p.consumeStatementEnd()

	return field
}

// parseTypeExpr parses a (possibly dotted, possibly generic) type name:
// `int`, `chart.point`, `array<float>`.
func (p *parser) parseTypeExpr() string {
	var b strings.Builder

	if tok, ok := p.expect(token.IDENT, "type name"); ok {
		b.WriteString(tok.Text)
	}

	for p.at(token.DOT) {
		p.advance()
		b.WriteByte('.')

		if tok, ok := p.expect(token.IDENT, "type name"); ok {
			b.WriteString(tok.Text)
		}
	}

	if p.at(token.LT) {
		p.advance()
		b.WriteByte('<')
		b.WriteString(p.parseTypeExpr())

		if p.at(token.GT) {
			p.advance()
		}

		b.WriteByte('>')
	}

	return b.String()
}

// parseMethodDecl parses `method m(BoundType this[, p ...]) => ...`.
func (p *parser) parseMethodDecl(exported bool) {
	p.advance() // method

	nameTok, ok := p.expect(token.IDENT, "method name")
	if !ok {
		p.resync()
		return
	}

	name := nameTok.Text

	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		p.resync()
		return
	}

	var (
		boundType string
		params    []ast.MethodParameter
		first     = true
	)

	for !p.at(token.RPAREN) && !p.at(token.EOF) && !p.at(token.NEWLINE) {
		paramType := ""
		if p.at(token.IDENT) && p.toks[p.pos+1].Kind == token.IDENT {
			paramType = p.advance().Text
		}

		paramName := ""
		if p.at(token.IDENT) {
			paramName = p.advance().Text
		}

		var def *ast.Node
		if p.at(token.ASSIGN) {
			p.advance()
			def = p.parseExpr()
		}

		if first && paramName == "this" {
			boundType = paramType
		} else {
			params = append(params, ast.MethodParameter{Name: paramName, ParamType: paramType, DefaultValue: def})
		}

		first = false

		if p.at(token.COMMA) {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RPAREN, "')'")
	p.expect(token.ARROW, "'=>'")

	body := p.parseFunctionBody()

	info := &ast.MethodInfo{Name: name, Exported: exported, Parameters: params, Body: body}
	p.program.Methods[boundType] = append(p.program.Methods[boundType], info)
}

// consumeStatementEnd accepts the NEWLINE that conventionally terminates a
// declaration statement, tolerating EOF/DEDENT for the last line of a file
// or block.
func (p *parser) consumeStatementEnd() {
	if p.at(token.NEWLINE) {
		p.advance()
	}
}
