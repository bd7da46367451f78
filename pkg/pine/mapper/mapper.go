// Package mapper holds the static lookup tables (C5) that translate
// PineScript names, colors and primitive types to their pine/runtime
// equivalents. These are plain data tables in the style of the teacher
// compiler's keyword and builtin tables (see pkg/corset/parser.go's
// reserved-word map), just over a different vocabulary.
package mapper

import "strings"

// FunctionNames maps a dotted PineScript builtin name to the exported
// identifier on the pine/runtime package that implements it. Names absent
// from this table are passed through unchanged (user functions, methods and
// library-qualified calls resolve through the symbol table instead).
var FunctionNames = map[string]string{
	"ta.sma":        "ta.SMA",
	"ta.ema":        "ta.EMA",
	"ta.rma":        "ta.RMA",
	"ta.wma":        "ta.WMA",
	"ta.vwma":       "ta.VWMA",
	"ta.stdev":      "ta.Stdev",
	"ta.variance":   "ta.Variance",
	"ta.highest":    "ta.Highest",
	"ta.lowest":     "ta.Lowest",
	"ta.rsi":        "ta.RSI",
	"ta.macd":       "ta.MACD",
	"ta.atr":        "ta.ATR",
	"ta.tr":         "ta.TR",
	"ta.crossover":  "ta.Crossover",
	"ta.crossunder": "ta.Crossunder",
	"ta.cross":      "ta.Cross",
	"ta.change":     "ta.Change",
	"ta.cum":        "ta.Cum",
	"ta.barssince":  "ta.BarsSince",
	"ta.valuewhen":  "ta.ValueWhen",
	"ta.pivothigh":  "ta.PivotHigh",
	"ta.pivotlow":   "ta.PivotLow",

	"math.abs":      "mathlib.Abs",
	"math.max":      "mathlib.Max",
	"math.min":      "mathlib.Min",
	"math.round":    "mathlib.Round",
	"math.floor":    "mathlib.Floor",
	"math.ceil":     "mathlib.Ceil",
	"math.pow":      "mathlib.Pow",
	"math.sqrt":     "mathlib.Sqrt",
	"math.log":      "mathlib.Log",
	"math.log10":    "mathlib.Log10",
	"math.sign":     "mathlib.Sign",
	"math.avg":      "mathlib.Avg",
	"math.sum":      "mathlib.Sum",
	"math.random":   "mathlib.Random",
	"math.toradians": "mathlib.ToRadians",
	"math.todegrees": "mathlib.ToDegrees",

	"array.new":    "arraylib.New",
	"array.push":   "arraylib.Push",
	"array.pop":    "arraylib.Pop",
	"array.get":    "arraylib.Get",
	"array.set":    "arraylib.Set",
	"array.size":   "arraylib.Size",
	"array.sort":   "arraylib.Sort",
	"array.slice":  "arraylib.Slice",
	"array.concat": "arraylib.Concat",
	"array.clear":  "arraylib.Clear",
	"array.includes": "arraylib.Includes",
	"array.indexof": "arraylib.IndexOf",
	"array.sum":    "arraylib.Sum",
	"array.avg":    "arraylib.Avg",
	"array.max":    "arraylib.Max",
	"array.min":    "arraylib.Min",

	"matrix.new":  "matrixlib.New",
	"matrix.get":  "matrixlib.Get",
	"matrix.set":  "matrixlib.Set",
	"matrix.rows": "matrixlib.Rows",
	"matrix.cols": "matrixlib.Cols",

	"str.tostring": "strlib.ToString",
	"str.format":   "strlib.Format",
	"str.length":   "strlib.Length",
	"str.upper":    "strlib.Upper",
	"str.lower":    "strlib.Lower",
	"str.contains": "strlib.Contains",

	// "plot", "fill" and "na" are handled specially by codegen (emitPlot/
	// emitFill/genCall) before this table is consulted, so they are
	// intentionally absent here.
}

// InputFunctions maps an `input.*` call name to the ast.InputType it
// produces; the bare `input` call always maps to InputFloat, whatever the
// type of its defval.
var InputFunctions = map[string]string{
	"input":        "float",
	"input.int":    "int",
	"input.float":  "float",
	"input.bool":   "bool",
	"input.string": "string",
	"input.color":  "color",
	"input.source": "source",
}

// ColorNames maps the PineScript named-color builtins to hex color
// literals, mirroring color.* constants.
var ColorNames = map[string]string{
	"color.red":     "#FF0000",
	"color.green":   "#00FF00",
	"color.blue":    "#0000FF",
	"color.black":   "#000000",
	"color.white":   "#FFFFFF",
	"color.yellow":  "#FFFF00",
	"color.orange":  "#FFA500",
	"color.purple":  "#800080",
	"color.gray":    "#808080",
	"color.silver":  "#C0C0C0",
	"color.maroon":  "#800000",
	"color.navy":    "#000080",
	"color.lime":    "#00FF00",
	"color.olive":   "#808000",
	"color.aqua":    "#00FFFF",
	"color.teal":    "#008080",
	"color.fuchsia": "#FF00FF",
}

// PrimitiveTypes maps a PineScript primitive type name to its generated Go
// type. Series-qualified forms ("series float") map the same as their bare
// form; seriesness is tracked separately by the analyzer, not by this table.
var PrimitiveTypes = map[string]string{
	"int":    "float64",
	"float":  "float64",
	"bool":   "bool",
	"string": "string",
	"color":  "string",
	"label":  "*runtime.Label",
	"line":   "*runtime.Line",
	"box":    "*runtime.Box",
	"table":  "*runtime.Table",
}

// BarStateFields maps `barstate.*` reads to bool fields on the generated
// program's runtime.Context.
var BarStateFields = map[string]string{
	"barstate.isfirst":     "ctx.IsFirst",
	"barstate.islast":      "ctx.IsLast",
	"barstate.ishistory":   "ctx.IsHistory",
	"barstate.isrealtime":  "ctx.IsRealtime",
	"barstate.isnew":       "ctx.IsNew",
	"barstate.isconfirmed": "ctx.IsConfirmed",
}

// OHLCVFields maps the bare OHLCV/time identifiers to their Series field on
// runtime.Context.
var OHLCVFields = map[string]string{
	"open":   "ctx.Open",
	"high":   "ctx.High",
	"low":    "ctx.Low",
	"close":  "ctx.Close",
	"volume": "ctx.Volume",
	"time":   "ctx.Time",
	"bar_index": "ctx.BarIndex",
}

// SeriesOperatorMethods maps a binary operator to the Series method used
// when at least one operand is series-valued (spec.md §4.3's series lowering
// table).
var SeriesOperatorMethods = map[string]string{
	"+": "Add",
	"-": "Sub",
	"*": "Mul",
	"/": "Div",
	"%": "Mod",
	"<": "Lt",
	"<=": "Lte",
	">": "Gt",
	">=": "Gte",
	"==": "Eq",
	"!=": "Neq",
	"&&": "And",
	"||": "Or",
}

// ResolveFunction looks up name (already fully dotted, e.g. "ta.sma") in
// FunctionNames, returning ("", false) when it is absent; input.* calls are
// checked separately by IsInputCall.
func ResolveFunction(name string) (string, bool) {
	if go_, ok := FunctionNames[name]; ok {
		return go_, true
	}

	return "", false
}

// IsInputCall reports whether name is one of the input.* family, along with
// the InputType string it implies.
func IsInputCall(name string) (string, bool) {
	t, ok := InputFunctions[name]
	return t, ok
}

// IsNamespaced reports whether name carries one of the reserved builtin
// namespace prefixes (ta., math., array., matrix., str., color., input.,
// request., strategy., barstate., syminfo., timeframe.), which the analyzer uses to skip user-symbol lookup
// for calls that are clearly builtins even if absent from FunctionNames
// (an unrecognized ta.* call is still a ta.* call, just unsupported).
func IsNamespaced(name string) bool {
	for _, ns := range []string{"ta.", "math.", "array.", "matrix.", "str.", "color.", "input.", "request.", "strategy.", "barstate.", "syminfo.", "timeframe."} {
		if strings.HasPrefix(name, ns) {
			return true
		}
	}

	return false
}
