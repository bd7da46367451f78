// Package codegen implements the PineScript-to-Go code generation stage
// (C3). See emitter.go for the package-level doc comment shared across the
// files of this package.
package codegen

import (
	"sort"
	"strings"

	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
)

// Options controls non-default aspects of generation (spec.md §6.1's
// `includeImports` compiler option; `format`/`sourcemap` are reserved).
type Options struct {
	PackageName    string // defaults to "generated"
	IncludeImports bool
}

// DefaultOptions returns the options a bare transpile() call uses.
func DefaultOptions() Options {
	return Options{PackageName: "generated", IncludeImports: true}
}

// Generate renders program (already annotated by analyzer.Analyze) into a
// complete Go source file implementing the Calculate(bars, inputs) contract
// described in spec.md §6.2.
func Generate(program *ast.Program, analysis *analyzer.Result, opts Options) string {
	currentProgram = program

	g := newGenerator(program, analysis)

	g.emitHeader(opts)
	g.emitInputsStruct()
	g.emitTypes()
	g.emitMethods()
	g.emitFunctions()
	g.emitCalculate()

	return g.e.String()
}

func (g *generator) emitHeader(opts Options) {
	pkg := opts.PackageName
	if pkg == "" {
		pkg = "generated"
	}

	g.e.line("package %s", pkg)
	g.e.blank()
	g.e.line("import (")
	g.e.push()

	if opts.IncludeImports {
		g.e.line(`"github.com/deepentropy/pine2go/pkg/pine/runtime"`)
		g.e.line(`"github.com/deepentropy/pine2go/pkg/pine/runtime/arraylib"`)
		g.e.line(`"github.com/deepentropy/pine2go/pkg/pine/runtime/mathlib"`)
		g.e.line(`"github.com/deepentropy/pine2go/pkg/pine/runtime/ta"`)
	}

	g.e.pop()
	g.e.line(")")
	g.e.blank()
}

// emitInputsStruct emits the generated `Inputs` struct (one exported field
// per declared input.* call, in source order) and its DefaultInputs()
// constructor, satisfying spec.md §8's "exactly n fields in declaration
// order ... a value for each" invariant.
func (g *generator) emitInputsStruct() {
	g.e.line("// Inputs holds the declared input.* values for one Calculate run.")
	g.e.line("type Inputs struct {")
	g.e.push()

	for _, in := range g.program.Inputs {
		g.e.line("%s %s", exportedName(in.Name), inputGoType(in.InputType))
	}

	g.e.pop()
	g.e.line("}")
	g.e.blank()

	g.e.line("// DefaultInputs returns the Inputs value implied by the source's")
	g.e.line("// declared defval arguments.")
	g.e.line("func DefaultInputs() *Inputs {")
	g.e.push()
	g.e.line("return &Inputs{")
	g.e.push()

	for _, in := range g.program.Inputs {
		g.e.line("%s: %s,", exportedName(in.Name), inputDefaultLiteral(in))
	}

	g.e.pop()
	g.e.line("}")
	g.e.pop()
	g.e.line("}")
	g.e.blank()
}

func inputGoType(t ast.InputType) string {
	switch t {
	case ast.InputBool:
		return "bool"
	case ast.InputString, ast.InputColor:
		return "string"
	case ast.InputSource:
		return "*runtime.Series"
	default:
		return "float64"
	}
}

func inputDefaultLiteral(in ast.InputDefinition) string {
	switch v := in.Defval.(type) {
	case float64:
		return formatFloat(v)
	case bool:
		if v {
			return "true"
		}

		return "false"
	case string:
		return goStringLiteral(v)
	default:
		switch in.InputType {
		case ast.InputBool:
			return "false"
		case ast.InputString, ast.InputColor:
			return `""`
		case ast.InputSource:
			return "ctx.Close"
		default:
			return "0"
		}
	}
}

func goStringLiteral(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	b.WriteByte('"')

	return b.String()
}

// emitCalculate emits the Calculate entry point: the Context prelude
// (OHLCV series, derived hl2/hlc3/ohlc4/hlcc4, bar_index/last_bar_index),
// the translated source-order statement sequence, and the final
// runtime.Result assembly.
func (g *generator) emitCalculate() {
	params := []string{"bars []runtime.Bar", "inputs *Inputs"}
	if g.usesSymInfo {
		params = append(params, "syminfo *runtime.SymbolInfo")
	}

	if g.usesTimeframe {
		params = append(params, "timeframe *runtime.TimeframeInfo")
	}

	g.e.line("// Calculate runs the translated indicator over bars, returning its plots")
	g.e.line("// and metadata per the generated-program contract.")
	g.e.line("func Calculate(%s) *runtime.Result {", strings.Join(params, ", "))
	g.e.push()

	g.e.line("if inputs == nil {")
	g.e.push()
	g.e.line("inputs = DefaultInputs()")
	g.e.pop()
	g.e.line("}")
	g.e.blank()

	if g.usesSymInfo {
		g.e.line("if syminfo == nil {")
		g.e.push()
		g.e.line("syminfo = runtime.DefaultSymbolInfo()")
		g.e.pop()
		g.e.line("}")
		g.e.blank()
	}

	if g.usesTimeframe {
		g.e.line("if timeframe == nil {")
		g.e.push()
		g.e.line("timeframe = runtime.DefaultTimeframeInfo()")
		g.e.pop()
		g.e.line("}")
		g.e.blank()
	}

	g.emitContextPrelude()
	g.emitStatements(nonDeclarationStatements(g.program.Statements))

	g.e.blank()
	g.emitResultAssembly()

	g.e.pop()
	g.e.line("}")
}

// nonDeclarationStatements filters out top-level FunctionDecl nodes, which
// emitFunctions already rendered as free functions.
func nonDeclarationStatements(stmts []*ast.Node) []*ast.Node {
	out := make([]*ast.Node, 0, len(stmts))

	for _, s := range stmts {
		if s.Kind == ast.FunctionDecl {
			continue
		}

		out = append(out, s)
	}

	return out
}

func (g *generator) emitContextPrelude() {
	g.e.line("ctx := runtime.NewContext(bars)")
	g.e.blank()
}

// emitResultAssembly builds the runtime.Result literal from the recorded
// PlotConfigs/FillConfigs plus the Go bindings emitPlot generated for each
// plot id, preserving source order (spec.md §8's plot-id invariant).
func (g *generator) emitResultAssembly() {
	g.e.line("return &runtime.Result{")
	g.e.push()

	g.e.line("Metadata: runtime.Metadata{Title: %s, Overlay: %v},", goStringLiteral(g.program.IndicatorTitle), g.program.IndicatorOverlay)

	g.e.line("Plots: map[string][]runtime.PlotPoint{")
	g.e.push()

	for _, cfg := range sortedPlotConfigs(g.program.PlotConfigs) {
		g.e.line("%q: runtime.PlotPoints(bars, %s),", cfg.ID, cfg.ID)
	}

	g.e.pop()
	g.e.line("},")

	g.e.line("PlotConfigs: []runtime.PlotConfig{")
	g.e.push()

	for _, cfg := range g.program.PlotConfigs {
		g.e.line("{ID: %q, Title: %q, Color: %q, LineWidth: %d, Display: %q, HasOffset: %v, Offset: %d},",
			cfg.ID, cfg.Title, cfg.Color, cfg.LineWidth, cfg.Display, cfg.HasOffset, cfg.Offset)
	}

	g.e.pop()
	g.e.line("},")

	g.e.line("FillConfigs: []runtime.FillConfig{")
	g.e.push()

	for _, cfg := range g.program.FillConfigs {
		g.e.line("{ID: %q, Plot1: %s, Plot2: %s, Color: %q, Title: %q},", cfg.ID, cfg.Plot1, cfg.Plot2, cfg.Color, cfg.Title)
	}

	g.e.pop()
	g.e.line("},")

	g.e.pop()
	g.e.line("}")
}

func sortedPlotConfigs(cfgs []ast.PlotConfig) []ast.PlotConfig {
	out := make([]ast.PlotConfig, len(cfgs))
	copy(out, cfgs)

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
