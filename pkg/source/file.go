package source

import "os"

// File represents one source file (a top-level script or a resolved library)
// as a rune slice, so spans index consistently regardless of multi-byte UTF-8
// sequences in string/comment literals.
type File struct {
	filename string
	contents []rune
}

// NewFile constructs a source file from raw bytes.
func NewFile(filename string, bytes []byte) *File {
	return &File{filename, []rune(string(bytes))}
}

// ReadFile reads a source file from disk.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return NewFile(filename, bytes), nil
}

// Filename returns the name associated with this source file (a path, or a
// synthetic label such as "<stdin>").
func (f *File) Filename() string { return f.filename }

// Contents returns the full rune sequence of this file.
func (f *File) Contents() []rune { return f.contents }

// Text returns the substring covered by a span.
func (f *File) Text(span Span) string {
	return string(f.contents[span.start:span.end])
}

// SyntaxErrorf constructs a syntax error anchored at span.
func (f *File) SyntaxErrorf(span Span, format string, args ...any) *SyntaxError {
	return newSyntaxError(f, span, format, args...)
}

// Position computes the 1-indexed line and column of an offset into this
// file's contents.  Column counts runes, not bytes; tabs count as one column
// here (the lexer's indent tracker is responsible for the 4-column tab rule
// used to determine block nesting).
func (f *File) Position(offset int) (line, column int) {
	line, column = 1, 1

	for i := 0; i < offset && i < len(f.contents); i++ {
		if f.contents[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return line, column
}

// Line returns the full text of the (1-indexed) line enclosing the start of
// span, along with its own span within the file.  Used to render diagnostic
// source snippets.
func (f *File) Line(span Span) (text string, lineSpan Span, number int) {
	index := span.start
	if index > len(f.contents) {
		index = len(f.contents)
	}

	num := 1
	start := 0

	for i := 0; i < len(f.contents); i++ {
		if i == index {
			end := f.endOfLine(index)
			return string(f.contents[start:end]), Span{start, end}, num
		} else if f.contents[i] == '\n' {
			num++
			start = i + 1
		}
	}

	return string(f.contents[start:]), Span{start, len(f.contents)}, num
}

func (f *File) endOfLine(index int) int {
	for i := index; i < len(f.contents); i++ {
		if f.contents[i] == '\n' {
			return i
		}
	}

	return len(f.contents)
}
