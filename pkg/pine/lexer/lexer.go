// Package lexer tokenises PineScript v6 source text.  Tokenising happens in
// two layers: an intra-line scan built from the generic combinators in
// pkg/lex, and a stateful indent tracker (this file) which turns a flat,
// per-line token stream into one carrying explicit INDENT/DEDENT/NEWLINE
// pseudo-tokens, the way a Python-family tokenizer is conventionally built.
//
// On a malformed token the lexer records a syntax error and skips one rune,
// rather than aborting, so the pipeline stays best-effort on bad input. The
// skipped rune produces no token; ILLEGAL never appears in the stream.
package lexer

import (
	"strings"

	"github.com/deepentropy/pine2go/pkg/lex"
	"github.com/deepentropy/pine2go/pkg/pine/token"
	"github.com/deepentropy/pine2go/pkg/source"
)

// tabWidth is the number of indentation columns a tab character counts for,
// per spec.md §4.1.
const tabWidth = 4

var lineRules = []lex.Rule[rune]{
	lex.NewRule(lex.LineComment(), ruleComment),
	lex.NewRule(lex.QuotedString(), ruleString),
	lex.NewRule(lex.HexColor(), ruleHexColor),
	lex.NewRule(lex.Number(), ruleNumber),
	lex.NewRule(lex.Identifier(), ruleIdent),
	lex.NewRule(lex.Literal("=>"), ruleOp(token.ARROW)),
	lex.NewRule(lex.Literal(":="), ruleOp(token.REASSIGN)),
	lex.NewRule(lex.Literal("=="), ruleOp(token.EQ)),
	lex.NewRule(lex.Literal("!="), ruleOp(token.NEQ)),
	lex.NewRule(lex.Literal("<="), ruleOp(token.LTE)),
	lex.NewRule(lex.Literal(">="), ruleOp(token.GTE)),
	lex.NewRule(lex.Literal("&&"), ruleOp(token.AND)),
	lex.NewRule(lex.Literal("||"), ruleOp(token.OR)),
	lex.NewRule(lex.Literal("="), ruleOp(token.ASSIGN)),
	lex.NewRule(lex.Literal("<"), ruleOp(token.LT)),
	lex.NewRule(lex.Literal(">"), ruleOp(token.GT)),
	lex.NewRule(lex.Literal("+"), ruleOp(token.PLUS)),
	lex.NewRule(lex.Literal("-"), ruleOp(token.MINUS)),
	lex.NewRule(lex.Literal("*"), ruleOp(token.STAR)),
	lex.NewRule(lex.Literal("/"), ruleOp(token.SLASH)),
	lex.NewRule(lex.Literal("%"), ruleOp(token.PERCENT)),
	lex.NewRule(lex.Literal("!"), ruleOp(token.NOT)),
	lex.NewRule(lex.Literal("?"), ruleOp(token.QUESTION)),
	lex.NewRule(lex.Literal(":"), ruleOp(token.COLON)),
	lex.NewRule(lex.Literal(","), ruleOp(token.COMMA)),
	lex.NewRule(lex.Literal("."), ruleOp(token.DOT)),
	lex.NewRule(lex.Literal("("), ruleOp(token.LPAREN)),
	lex.NewRule(lex.Literal(")"), ruleOp(token.RPAREN)),
	lex.NewRule(lex.Literal("["), ruleOp(token.LBRACKET)),
	lex.NewRule(lex.Literal("]"), ruleOp(token.RBRACKET)),
	lex.NewRule(lex.Within(' ', ' '), ruleSpace),
	lex.NewRule(lex.Is('\t'), ruleSpace),
}

// internal rule tags, translated to token.Kind (or dropped) by classify.
const (
	ruleComment = iota + 1
	ruleString
	ruleHexColor
	ruleNumber
	ruleIdent
	ruleSpace
	ruleOpBase // operators use ruleOpBase+Kind, see ruleOp
)

func ruleOp(kind token.Kind) uint {
	return ruleOpBase + uint(kind)
}

// Lex tokenises a source file, returning the full token stream (including a
// trailing EOF token) plus any lexical errors encountered.  Errors never
// stop tokenisation: a rune the rules can't classify is recorded and
// skipped.
func Lex(file *source.File) ([]token.Token, []*source.SyntaxError) {
	var (
		tokens []token.Token
		errs   []*source.SyntaxError
		tr     = newIndentTracker()
	)

	contents := file.Contents()
	lineStart := 0

	for lineStart <= len(contents) {
		lineEnd := indexOf(contents, lineStart, '\n')
		line := contents[lineStart:lineEnd]

		lineToks, lineErrs := tr.scanLine(file, lineStart, line)
		tokens = append(tokens, lineToks...)
		errs = append(errs, lineErrs...)

		if lineEnd >= len(contents) {
			break
		}

		lineStart = lineEnd + 1
	}

	tokens = append(tokens, tr.closeAll(len(contents))...)
	tokens = append(tokens, token.Token{Kind: token.EOF, Span: source.NewSpan(len(contents), len(contents))})

	return tokens, errs
}

func indexOf(runes []rune, from int, r rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}

	return len(runes)
}

// indentTracker holds the stack of currently-open indentation levels and
// turns each physical line into zero or more INDENT/DEDENT tokens followed
// by that line's own tokens and a trailing NEWLINE.
type indentTracker struct {
	stack []int
}

func newIndentTracker() *indentTracker {
	return &indentTracker{stack: []int{0}}
}

func (tr *indentTracker) scanLine(file *source.File, lineStart int, line []rune) ([]token.Token, []*source.SyntaxError) {
	trimmed := strings.TrimRight(string(line), " \t\r")
	if trimmed == "" {
		// Blank lines never open or close a block and never emit NEWLINE.
		return nil, nil
	}

	indent, bodyOffset := measureIndent(line)
	body := line[bodyOffset:]

	if isCommentOnly(body) {
		return nil, nil
	}

	var out []token.Token

	top := tr.stack[len(tr.stack)-1]
	if indent > top {
		tr.stack = append(tr.stack, indent)
		out = append(out, token.Token{Kind: token.INDENT, Span: source.NewSpan(lineStart, lineStart+bodyOffset)})
	} else {
		for indent < tr.stack[len(tr.stack)-1] {
			tr.stack = tr.stack[:len(tr.stack)-1]
			out = append(out, token.Token{Kind: token.DEDENT, Span: source.NewSpan(lineStart, lineStart+bodyOffset)})
		}
	}

	bodyToks, errs := scanBody(file, lineStart+bodyOffset, body)
	out = append(out, bodyToks...)

	if len(bodyToks) > 0 {
		last := bodyToks[len(bodyToks)-1]
		out = append(out, token.Token{Kind: token.NEWLINE, Span: source.NewSpan(last.Span.End(), last.Span.End())})
	}

	return out, errs
}

func (tr *indentTracker) closeAll(at int) []token.Token {
	var out []token.Token

	for len(tr.stack) > 1 {
		tr.stack = tr.stack[:len(tr.stack)-1]
		out = append(out, token.Token{Kind: token.DEDENT, Span: source.NewSpan(at, at)})
	}

	return out
}

// measureIndent returns the indentation width (tabs counted as tabWidth
// columns) and the rune offset of the first non-whitespace character.
func measureIndent(line []rune) (width, offset int) {
	for offset < len(line) {
		switch line[offset] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width, offset
		}

		offset++
	}

	return width, offset
}

func isCommentOnly(body []rune) bool {
	return len(body) >= 2 && body[0] == '/' && body[1] == '/'
}

func scanBody(file *source.File, base int, body []rune) ([]token.Token, []*source.SyntaxError) {
	var (
		out  []token.Token
		errs []*source.SyntaxError
	)

	pos := 0

	for pos < len(body) {
		tag, n := matchRule(body[pos:])
		if n == 0 {
			abs := source.NewSpan(base+pos, base+pos+1)
			errs = append(errs, file.SyntaxErrorf(abs, "unrecognized character %q", string(body[pos])))
			pos++

			continue
		}

		span := source.NewSpan(pos, pos+int(n))
		abs := source.NewSpan(base+pos, base+pos+int(n))

		switch tag {
		case ruleComment, ruleSpace:
			// dropped
		case ruleString:
			text := unquote(string(body[span.Start():span.End()]))
			out = append(out, token.Token{Kind: token.STRING, Span: abs, Text: text})
		case ruleHexColor:
			out = append(out, token.Token{Kind: token.HEXCOLOR, Span: abs, Text: string(body[span.Start():span.End()])})
		case ruleNumber:
			out = append(out, token.Token{Kind: token.NUMBER, Span: abs, Text: string(body[span.Start():span.End()])})
		case ruleIdent:
			text := string(body[span.Start():span.End()])
			if kw, ok := token.Lookup(text); ok {
				out = append(out, token.Token{Kind: kw, Span: abs, Text: text})
			} else {
				out = append(out, token.Token{Kind: token.IDENT, Span: abs, Text: text})
			}
		default:
			if tag >= ruleOpBase {
				out = append(out, token.Token{Kind: token.Kind(tag - ruleOpBase), Span: abs})
			}
		}

		pos += int(n)
	}

	return out, errs
}

// matchRule tries each rule at the start of items in priority order and
// returns the first match (tag, length), or (0, 0) if none match.
func matchRule(items []rune) (tag uint, length uint) {
	for _, r := range lineRules {
		if n := r.Scanner(items); n > 0 {
			return r.Kind, n
		}
	}

	return 0, 0
}

// unquote strips the surrounding quote characters and resolves backslash
// escapes by copying the next rune verbatim, per spec.md §4.1.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	runes := []rune(s[1 : len(s)-1])

	var b strings.Builder

	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
		}

		b.WriteRune(runes[i])
	}

	return b.String()
}
