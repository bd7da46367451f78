package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	kindLParen uint = iota
	kindRParen
	kindSpace
	kindNumber
)

func TestLexer_Parens(t *testing.T) {
	rules := []Rule[rune]{
		NewRule(Is('('), kindLParen),
		NewRule(Is(')'), kindRParen),
		NewRule(Many1(Is(' ')), kindSpace),
		NewRule(Many1(Digit()), kindNumber),
	}

	l := New([]rune("(90)"), rules...)

	var kinds []uint
	for l.HasNext() {
		_, kind := l.Next()
		kinds = append(kinds, kind)
	}

	assert.Equal(t, []uint{kindLParen, kindNumber, kindRParen}, kinds)
	assert.Equal(t, 0, l.Remaining())
}

func TestLexer_StallsOnUnmatchedInput(t *testing.T) {
	rules := []Rule[rune]{NewRule(Digit(), kindNumber)}

	l := New([]rune("1x2"), rules...)

	span, kind := l.Next()
	assert.Equal(t, kindNumber, kind)
	assert.Equal(t, 1, span.Length())
	assert.False(t, l.HasNext(), "lexer must not skip the unmatched 'x'")
}

func TestIdentifier(t *testing.T) {
	id := Identifier()

	assert.Equal(t, uint(4), id([]rune("_ab9 ")))
	assert.Equal(t, uint(0), id([]rune("9ab")))
}

func TestNumber(t *testing.T) {
	num := Number()

	assert.Equal(t, uint(3), num([]rune("123")))
	assert.Equal(t, uint(6), num([]rune("123.45")))
	assert.Equal(t, uint(3), num([]rune(".45")))
}

func TestHexColor(t *testing.T) {
	c := HexColor()

	assert.Equal(t, uint(7), c([]rune("#FF0000")))
	assert.Equal(t, uint(9), c([]rune("#FF0000AA")))
	assert.Equal(t, uint(0), c([]rune("#FF00")))
}

func TestQuotedString(t *testing.T) {
	qs := QuotedString()

	assert.Equal(t, uint(5), qs([]rune(`"abc"`)))
	assert.Equal(t, uint(0), qs([]rune(`"abc`)))
	assert.Equal(t, uint(7), qs([]rune(`"a\"bc"`+"x")))
}

func TestLineComment(t *testing.T) {
	lc := LineComment()

	assert.Equal(t, uint(6), lc([]rune("// abc\nnext")))
}
