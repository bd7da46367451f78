// Package codegen implements the PineScript-to-Go code generation stage
// (C3): it walks the annotated ast.Program plus the analyzer.Result side
// table and emits a single Go source file exposing a `Calculate` function
// over the pine/runtime Series/ta/mathlib surface, following spec.md §4.3's
// emission order and the lazy-to-eager series lowering rules.
package codegen

import (
	"fmt"
	"strings"
)

// emitter accumulates generated Go source with simple indent tracking, in
// the same spirit as the teacher compiler's string-building helpers
// (pkg/corset/compiler/translator.go builds target text incrementally
// rather than via an AST-to-AST transform).
type emitter struct {
	buf    strings.Builder
	indent int
}

func newEmitter() *emitter {
	return &emitter{}
}

func (e *emitter) line(format string, args ...any) {
	e.buf.WriteString(strings.Repeat("\t", e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) blank() {
	e.buf.WriteByte('\n')
}

func (e *emitter) push() { e.indent++ }
func (e *emitter) pop()  { e.indent-- }

func (e *emitter) String() string {
	return e.buf.String()
}
