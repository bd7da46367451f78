// Package source provides line/column-tracked source text and syntax-error
// reporting shared by the lexer, parser and analyzer stages of the pine2go
// compiler.
package source

// Span identifies a contiguous range of runes within some source file.  Spans
// are half-open: Start is the first rune of the range, End is one past the
// last rune.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span, panicking if the bounds are inverted.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span: start > end")
	}

	return Span{start, end}
}

// Start returns the index of the first rune covered by this span.
func (s Span) Start() int { return s.start }

// End returns one past the index of the last rune covered by this span.
func (s Span) End() int { return s.end }

// Length returns the number of runes covered by this span.
func (s Span) Length() int { return s.end - s.start }

// Join returns the smallest span enclosing both s and other.
func (s Span) Join(other Span) Span {
	start, end := s.start, s.end
	if other.start < start {
		start = other.start
	}

	if other.end > end {
		end = other.end
	}

	return Span{start, end}
}
