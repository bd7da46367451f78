// Package pine implements the PineScript-to-Go compiler's public API
// (spec.md §6.1): Transpile/TranspileWithResult over the parser (C1),
// analyzer (C2) and code generator (C3) stages (the library resolver, C4,
// lives in pkg/pine/resolver and is not called from here),
// mirroring the teacher compiler's top-level CompileSourceFile(s) entry
// points (pkg/corset/compiler.go) adapted to a single-file, single-pass
// transpile rather than a schema-building multi-file compile.
package pine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/codegen"
	"github.com/deepentropy/pine2go/pkg/pine/parser"
	"github.com/deepentropy/pine2go/pkg/source"
)

// SyntaxError re-exports source.SyntaxError, the single diagnostic shape
// every stage of this compiler reports through.
type SyntaxError = source.SyntaxError

// Format selects the shape of the generated output. Only FormatFunction is
// required by spec.md §6.1; FormatClass is reserved for a future
// object-oriented rendering of the same program.
type Format int

// The supported output formats.
const (
	FormatFunction Format = iota
	FormatClass
)

// CompilationConfig encapsulates the options transpile()/transpileWithResult
// accept (spec.md §6.1).
type CompilationConfig struct {
	// Filename is used only as a diagnostic label.
	Filename string
	// Format selects the output shape; only FormatFunction is implemented.
	Format Format
	// IncludeImports controls whether generated code carries its runtime
	// package imports (default true; false is for callers assembling their
	// own import block around several generated files).
	IncludeImports bool
	// PackageName overrides the generated file's package clause (default
	// "generated").
	PackageName string
	// Sourcemap is reserved (spec.md §6.1); when set, a future codegen pass
	// would emit //line directives correlating generated lines back to
	// source. Unimplemented today: codegen ignores it.
	Sourcemap bool
	// HoistTACalls records whether ta.*(...) calls may be hoisted above a
	// recursive-formula loop. Default true. It is not passed to codegen, which
	// performs no such hoisting, so the generated code is the same either way.
	HoistTACalls bool
}

// Option mutates a CompilationConfig; functional options keep Transpile's
// call sites readable when only a couple of fields need overriding.
type Option func(*CompilationConfig)

// WithFilename sets the diagnostic label attached to parse/semantic errors.
func WithFilename(name string) Option {
	return func(c *CompilationConfig) { c.Filename = name }
}

// WithPackageName overrides the generated file's package clause.
func WithPackageName(name string) Option {
	return func(c *CompilationConfig) { c.PackageName = name }
}

// WithoutImports disables the generated import block (spec.md §6.1's
// `includeImports: false`).
func WithoutImports() Option {
	return func(c *CompilationConfig) { c.IncludeImports = false }
}

// WithFormat overrides the output shape.
func WithFormat(f Format) Option {
	return func(c *CompilationConfig) { c.Format = f }
}

// WithSourcemap requests //line-style source correlation in generated code.
func WithSourcemap() Option {
	return func(c *CompilationConfig) { c.Sourcemap = true }
}

// WithoutTACallHoisting sets HoistTACalls to false; the generated code does
// not change, since codegen performs no ta.*(...) hoisting.
func WithoutTACallHoisting() Option {
	return func(c *CompilationConfig) { c.HoistTACalls = false }
}

func defaultConfig() CompilationConfig {
	return CompilationConfig{
		Filename:       "<input>",
		Format:         FormatFunction,
		IncludeImports: true,
		PackageName:    "generated",
		HoistTACalls:   true,
	}
}

// Result is TranspileWithResult's return value: the generated code (empty
// on a fatal parse failure) plus every diagnostic collected along the way.
// CompilationID stamps each Result with a fresh UUID so a build pipeline can
// correlate a Result with its log lines without re-hashing source text, the
// way the teacher's SourceMap correlates generated artifacts back to source.
type Result struct {
	CompilationID string
	Code          string
	Errors        []*SyntaxError
	Warnings      []ast.Warning
}

// Transpile compiles source into a Go source file implementing the
// generated-program contract (spec.md §6.2), returning the first diagnostic
// as an error on parse or semantic failure. Callers that want every
// diagnostic, not just the first, should use TranspileWithResult instead.
func Transpile(src string, opts ...Option) (string, error) {
	result := TranspileWithResult(src, opts...)
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("pine: %w", result.Errors[0])
	}

	return result.Code, nil
}

// TranspileContext is TranspileWithResult with a context.Context, threaded
// through purely so library-resolution I/O (pkg/resolver's afs.Service
// fetches) can be cancelled; no compiler stage itself fans out goroutines
// (spec.md §5's single-threaded, synchronous model is otherwise unchanged).
// This file's own stages (parse/analyze/codegen) never import a library, so
// ctx goes unused here today; it exists on the signature for callers that
// layer a resolver-backed import pass in front of TranspileWithResult.
func TranspileContext(ctx context.Context, src string, opts ...Option) Result {
	_ = ctx
	return TranspileWithResult(src, opts...)
}

// TranspileWithResult compiles source and never panics: parse errors,
// semantic errors and codegen warnings are all returned alongside whatever
// code could be produced.
func TranspileWithResult(src string, opts ...Option) Result {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.NewString()
	file := source.NewFile(cfg.Filename, []byte(src))

	program, parseErrs := parser.Parse(file)
	if len(parseErrs) > 0 {
		return Result{CompilationID: id, Errors: parseErrs}
	}

	analysis, semErrs := analyzer.Analyze(file, program)
	if len(semErrs) > 0 {
		return Result{CompilationID: id, Errors: semErrs, Warnings: program.Warnings}
	}

	code := codegen.Generate(program, analysis, codegen.Options{
		PackageName:    cfg.PackageName,
		IncludeImports: cfg.IncludeImports,
	})

	return Result{CompilationID: id, Code: code, Warnings: program.Warnings}
}
