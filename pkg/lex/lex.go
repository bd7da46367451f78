// Package lex provides small composable scanner combinators and a generic
// lexer built from them, in the style of the teacher compiler's
// util/source/lex package.  Unlike that package (which lexes arbitrary
// token streams for an S-expression grammar) this one is specialized for
// tokenising PineScript source text: the combinators below include the
// concrete rune classes (identifiers, numeric literals, quoted strings, hex
// colors) that pine/lexer composes into a full token stream.
package lex

import (
	"cmp"

	"github.com/deepentropy/pine2go/pkg/source"
)

// Scanner inspects the start of items and reports how many elements it
// matched, or zero for no match.
type Scanner[T any] func(items []T) uint

// Rule pairs a scanner with the token kind it produces.
type Rule[T any] struct {
	Scanner Scanner[T]
	Kind    uint
}

// NewRule constructs a lexing rule.
func NewRule[T any](scanner Scanner[T], kind uint) Rule[T] {
	return Rule[T]{scanner, kind}
}

// Lexer tokenises a flat sequence of items against an ordered list of rules;
// the first matching rule at the current position wins, so rules should be
// ordered from most to least specific (e.g. keyword before identifier).
type Lexer[T any] struct {
	items  []T
	index  int
	rules  []Rule[T]
	buffer []source.Span
	kind   []uint
}

// New constructs a lexer over items using the given rules.
func New[T any](items []T, rules ...Rule[T]) *Lexer[T] {
	return &Lexer[T]{items: items, rules: rules}
}

// Index returns the current offset within the input.
func (l *Lexer[T]) Index() int { return l.index }

// Remaining reports how many items are left to scan.
func (l *Lexer[T]) Remaining() int {
	if l.index >= len(l.items) {
		return 0
	}

	return len(l.items) - l.index
}

// HasNext reports whether another token can be produced.
func (l *Lexer[T]) HasNext() bool {
	l.fill()
	return len(l.buffer) > 0
}

// Next returns the next token's span and kind, advancing the lexer.
func (l *Lexer[T]) Next() (source.Span, uint) {
	l.fill()
	span := l.buffer[0]
	kind := l.kind[0]
	l.buffer = l.buffer[1:]
	l.kind = l.kind[1:]
	l.index = span.End()

	return span, kind
}

func (l *Lexer[T]) fill() {
	if len(l.buffer) != 0 || l.index > len(l.items) {
		return
	}

	for _, r := range l.rules {
		if n := r.Scanner(l.items[l.index:]); n > 0 {
			end := l.index + int(n)
			if end > len(l.items) {
				end = len(l.items)
			}

			l.buffer = append(l.buffer, source.NewSpan(l.index, end))
			l.kind = append(l.kind, r.Kind)

			return
		}
	}
}

// --- generic combinators -------------------------------------------------

// Or succeeds with whichever of the given scanners matches first.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, s := range scanners {
			if n := s(items); n > 0 {
				return n
			}
		}

		return 0
	}
}

// Seq matches every scanner in order, each consuming where the last left off.
func Seq[T comparable](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)

		for _, s := range scanners {
			if n > uint(len(items)) {
				return 0
			}

			m := s(items[n:])
			if m == 0 {
				return 0
			}

			n += m
		}

		return n
	}
}

// Many matches zero or more repetitions of acceptor. A zero-repetition match
// returns 0, which Seq treats as failure.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)

		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}

			index += n
		}

		return index
	}
}

// Many1 matches one or more repetitions of acceptor.
func Many1[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := Many(acceptor)(items)
		if n == 0 {
			return 0
		}

		return n
	}
}

// Opt returns acceptor's match length, or 0 when acceptor does not match.
// Seq treats that 0 as failure, so an absent Opt part fails the sequence.
func Opt[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		return acceptor(items)
	}
}

// Within matches a single item within an inclusive range.
func Within[T cmp.Ordered](lo, hi T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lo <= items[0] && items[0] <= hi {
			return 1
		}

		return 0
	}
}

// Is matches a single specific item.
func Is[T comparable](want T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && items[0] == want {
			return 1
		}

		return 0
	}
}

// Literal matches a fixed sequence of runes.
func Literal(s string) Scanner[rune] {
	runes := []rune(s)

	return func(items []rune) uint {
		if len(items) < len(runes) {
			return 0
		}

		for i, r := range runes {
			if items[i] != r {
				return 0
			}
		}

		return uint(len(runes))
	}
}

// --- rune-class combinators for PineScript tokens ------------------------

// Digit matches a single ASCII decimal digit.
func Digit() Scanner[rune] { return Within('0', '9') }

// Alpha matches a single ASCII letter.
func Alpha() Scanner[rune] {
	return Or(Within('a', 'z'), Within('A', 'Z'))
}

// AlphaNum matches a single letter, digit or underscore.
func AlphaNum() Scanner[rune] {
	return Or(Alpha(), Digit(), Is('_'))
}

// HexDigit matches a single hexadecimal digit.
func HexDigit() Scanner[rune] {
	return Or(Digit(), Within('a', 'f'), Within('A', 'F'))
}

// Identifier matches `[A-Za-z_][A-Za-z0-9_]*`.
func Identifier() Scanner[rune] {
	head := Or(Alpha(), Is('_'))

	return Or(Seq(head, Many1(AlphaNum())), head)
}

// Number matches a decimal integer or float literal, with an optional
// leading dot (".5") and optional fractional part (PineScript allows both).
func Number() Scanner[rune] {
	fraction := Seq(Is('.'), Many1(Digit()))
	leadingDot := Seq(Is('.'), Many1(Digit()))
	withInt := Or(Seq(Many1(Digit()), fraction), Many1(Digit()))

	return Or(withInt, leadingDot)
}

// HexColor matches `#` followed by 6 or 8 hex digits.
func HexColor() Scanner[rune] {
	return func(items []rune) uint {
		if len(items) == 0 || items[0] != '#' {
			return 0
		}

		n := Many(HexDigit())(items[1:])
		if n == 6 || n == 8 {
			return n + 1
		}

		return 0
	}
}

// QuotedString matches a single- or double-quoted string literal where a
// backslash escapes (copies verbatim) the following rune.
func QuotedString() Scanner[rune] {
	return func(items []rune) uint {
		if len(items) == 0 || (items[0] != '"' && items[0] != '\'') {
			return 0
		}

		quote := items[0]
		i := uint(1)

		for i < uint(len(items)) {
			switch items[i] {
			case '\\':
				i += 2
			case quote:
				return i + 1
			case '\n':
				return 0
			default:
				i++
			}
		}

		return 0
	}
}

// LineComment matches `//` through to (but excluding) the next newline.
func LineComment() Scanner[rune] {
	return func(items []rune) uint {
		if len(items) < 2 || items[0] != '/' || items[1] != '/' {
			return 0
		}

		i := uint(2)
		for i < uint(len(items)) && items[i] != '\n' {
			i++
		}

		return i
	}
}
