// Package parser implements the PineScript v6 recursive-descent parser
// (C1, together with pine/lexer).  It never aborts on a malformed
// construct: on error it records a source.SyntaxError and resynchronizes at
// the next NEWLINE, matching spec.md §4.1's "Failure semantics" and the
// teacher compiler's own policy of accumulating syntax errors across an
// entire source file rather than stopping at the first one (see
// pkg/corset/parser.go's error-recovery loop).
package parser

import (
	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/lexer"
	"github.com/deepentropy/pine2go/pkg/pine/token"
	"github.com/deepentropy/pine2go/pkg/source"
)

// Parser holds the mutable state of one parse.
type parser struct {
	file    *source.File
	toks    []token.Token
	pos     int
	errs    []*source.SyntaxError
	program *ast.Program
}

// Parse tokenises and parses one PineScript source file, returning the
// accumulated program metadata and AST. Parse errors never panic; they are
// returned alongside whatever partial program could be built.
func Parse(file *source.File) (*ast.Program, []*source.SyntaxError) {
	toks, lexErrs := lexer.Lex(file)

	p := &parser{file: file, toks: toks, program: ast.NewProgram()}
	p.errs = append(p.errs, lexErrs...)
	p.parseProgram()

	return p.program, p.errs
}

// --- token cursor helpers -------------------------------------------------

func (p *parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *parser) kind() token.Kind {
	return p.cur().Kind
}

func (p *parser) at(k token.Kind) bool {
	return p.kind() == k
}

func (p *parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return t
}

// skipNewlines consumes any run of NEWLINE tokens; blank statement
// separators are not semantically meaningful on their own.
func (p *parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

func (p *parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}

	p.errorf("expected %s, found %s", what, p.kind())

	return token.Token{}, false
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, p.file.SyntaxErrorf(p.cur().Span, format, args...))
}

// resync advances past tokens until the next NEWLINE (exclusive) or EOF, so
// one malformed statement never derails the rest of the file.
func (p *parser) resync() {
	for !p.at(token.NEWLINE) && !p.at(token.EOF) && !p.at(token.DEDENT) {
		p.advance()
	}
}

// --- top level -------------------------------------------------------------

func (p *parser) parseProgram() {
	for {
		p.skipNewlines()

		if p.at(token.EOF) {
			return
		}

		start := p.pos
		p.parseTopLevelStatement()

		if p.pos == start {
			// Safety valve: if nothing was consumed, force progress so a
			// pathological input can't loop forever.
			p.advance()
		}
	}
}

func (p *parser) parseTopLevelStatement() {
	switch p.kind() {
	case token.INDICATOR:
		p.parseIndicatorDecl()
	case token.LIBRARY:
		p.parseLibraryDecl()
	case token.IMPORT:
		p.parseImportDecl()
	case token.EXPORT:
		p.parseExportDecl()
	case token.TYPE:
		p.parseTypeDecl(false)
	case token.METHOD:
		p.parseMethodDecl(false)
	default:
		stmt := p.parseStatement()
		if stmt != nil {
			p.program.Statements = append(p.program.Statements, stmt)
		}
	}
}

func (p *parser) parseExportDecl() {
	p.advance() // export

	switch p.kind() {
	case token.TYPE:
		p.parseTypeDecl(true)
	case token.METHOD:
		p.parseMethodDecl(true)
	default:
		p.errorf("expected 'type' or 'method' after 'export'")
		p.resync()
	}
}
