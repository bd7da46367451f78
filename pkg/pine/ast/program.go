package ast

// InputType is the closed set of `input.*` kinds recognized by spec.md §6.3.
type InputType uint8

// The input kinds.
const (
	InputInt InputType = iota
	InputFloat
	InputBool
	InputString
	InputColor
	InputSource
)

// String names an input type the way it appears in generated comments and
// diagnostics.
func (t InputType) String() string {
	switch t {
	case InputInt:
		return "int"
	case InputFloat:
		return "float"
	case InputBool:
		return "bool"
	case InputString:
		return "string"
	case InputColor:
		return "color"
	case InputSource:
		return "source"
	default:
		return "unknown"
	}
}

// InputDefinition records one `input.*(...)` declaration, in source order.
type InputDefinition struct {
	Name      string
	InputType InputType
	Defval    any
	Title     string
	Min       *float64
	Max       *float64
	Step      *float64
	Options   []string
}

// ImportInfo records one `import Publisher/Name/Version [as alias]`
// statement, in source order.
type ImportInfo struct {
	Publisher string
	Library   string
	Version   string
	Alias     string
}

// FieldInfo describes one field of a user-defined `type`.
type FieldInfo struct {
	Name         string
	FieldType    string
	DefaultValue *Node
	IsOptional   bool
}

// TypeInfo describes one user-defined `type T`.
type TypeInfo struct {
	Exported bool
	Fields   []FieldInfo
}

// MethodParameter describes one formal parameter of a method (excluding the
// implicit receiver).
type MethodParameter struct {
	Name         string
	ParamType    string
	DefaultValue *Node
}

// MethodInfo describes one `method T(...)  => ...` declaration.
type MethodInfo struct {
	Name       string
	Exported   bool
	Parameters []MethodParameter
	Body       *Node
}

// PlotConfig is one resolved `plot(...)` call, in source order.
type PlotConfig struct {
	ID         string
	Title      string
	Color      string
	LineWidth  int
	Display    string
	HasVisible bool
	Visible    *Node // condition expression, when color/display was ternary
	HasOffset  bool
	Offset     int
}

// FillConfig is one resolved `fill(...)` call.
type FillConfig struct {
	ID         string
	Plot1      string
	Plot2      string
	Color      string
	Title      string
	HasVisible bool
	Visible    *Node
}

// WarningKind is the closed set of non-fatal codegen diagnostics (spec.md
// §7).
type WarningKind string

// The warning kinds emitted by the analyzer and generator.
const (
	WarnUnsupportedDisplay  WarningKind = "unsupported-display"
	WarnNonLiteralOffset    WarningKind = "non-literal-offset"
	WarnAmbiguousSeriesness WarningKind = "ambiguous-seriesness"
	WarnUnknownFunction     WarningKind = "unknown-function"
)

// Warning is one non-fatal diagnostic.
type Warning struct {
	Kind    WarningKind
	Message string
}

// LibraryInfo holds the `library(...)` declaration's metadata.
type LibraryInfo struct {
	Name    string
	Overlay bool
}

// Program is the root of one compilation unit: the parsed AST's
// declarations, plus every piece of metadata accumulated about them.  It is
// produced by the parser, filled in further by the analyzer, and consumed
// by the code generator and library resolver.
type Program struct {
	IndicatorTitle   string
	IndicatorOverlay bool
	IsLibrary        bool
	LibraryInfo      *LibraryInfo

	Inputs  []InputDefinition
	Imports []ImportInfo

	Types   map[string]*TypeInfo
	Methods map[string][]*MethodInfo

	Statements []*Node // top-level executable statements, in source order

	PlotConfigs []PlotConfig
	FillConfigs []FillConfig
	// PlotVariables maps a plot's id ("plot0", ...) to the expression whose
	// value stream it emits.
	PlotVariables map[string]*Node

	Warnings []Warning
}

// NewProgram constructs an empty program with its maps initialized.
func NewProgram() *Program {
	return &Program{
		IndicatorTitle: "Indicator",
		Types:          map[string]*TypeInfo{},
		Methods:        map[string][]*MethodInfo{},
		PlotVariables:  map[string]*Node{},
	}
}

// AddInput appends an input definition, ignoring duplicates by name after
// the first (spec.md §3 invariant).
func (p *Program) AddInput(def InputDefinition) {
	for _, existing := range p.Inputs {
		if existing.Name == def.Name {
			return
		}
	}

	p.Inputs = append(p.Inputs, def)
}

// Warnf appends a warning.
func (p *Program) Warnf(kind WarningKind, format string, args ...any) {
	p.Warnings = append(p.Warnings, Warning{Kind: kind, Message: sprintf(format, args...)})
}
