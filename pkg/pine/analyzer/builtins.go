package analyzer

// arity describes the accepted argument count range for a builtin function.
// max == -1 means unbounded (variadic).
type arity struct {
	min, max int
}

// builtinArities records the known arities of the functions in mapper's
// FunctionNames table, keyed the same way (dotted builtin name). Calls to
// names absent here skip arity checking entirely - either a user
// function/method (checked separately against its declared Params) or an
// unrecognized builtin the analyzer lets pass through without a warning or
// an error.
var builtinArities = map[string]arity{
	"ta.sma":        {2, 2},
	"ta.ema":        {2, 2},
	"ta.rma":        {2, 2},
	"ta.wma":        {2, 2},
	"ta.vwma":       {2, 2},
	"ta.stdev":      {2, 3},
	"ta.variance":   {2, 3},
	"ta.highest":    {1, 2},
	"ta.lowest":     {1, 2},
	"ta.rsi":        {2, 2},
	"ta.macd":       {4, 4},
	"ta.atr":        {1, 1},
	"ta.crossover":  {2, 2},
	"ta.crossunder": {2, 2},
	"ta.cross":      {2, 2},
	"ta.change":     {1, 2},
	"ta.cum":        {1, 1},
	"ta.barssince":  {1, 1},
	"ta.valuewhen":  {3, 3},
	"ta.pivothigh":  {2, 3},
	"ta.pivotlow":   {2, 3},

	"math.abs":    {1, 1},
	"math.max":    {1, -1},
	"math.min":    {1, -1},
	"math.round":  {1, 2},
	"math.floor":  {1, 1},
	"math.ceil":   {1, 1},
	"math.pow":    {2, 2},
	"math.sqrt":   {1, 1},
	"math.log":    {1, 1},
	"math.log10":  {1, 1},
	"math.sign":   {1, 1},
	"math.avg":    {1, -1},
	"math.sum":    {1, 2},
	"math.random": {0, 2},

	"array.new":    {0, 2},
	"array.push":   {2, 2},
	"array.pop":    {1, 1},
	"array.get":    {2, 2},
	"array.set":    {3, 3},
	"array.size":   {1, 1},
	"array.sort":   {1, 2},
	"array.slice":  {3, 3},
	"array.concat": {2, 2},
	"array.clear":  {1, 1},

	"plot": {1, -1},
	"fill": {2, -1},
	"na":   {1, 1},
	"nz":   {1, 2},

	"input":        {1, -1},
	"input.int":    {1, -1},
	"input.float":  {1, -1},
	"input.bool":   {1, -1},
	"input.string": {1, -1},
	"input.color":  {1, -1},
	"input.source": {1, -1},
}

func (a arity) accepts(n int) bool {
	if n < a.min {
		return false
	}

	return a.max == -1 || n <= a.max
}

// seriesProducers lists builtins that always return a series value
// regardless of the seriesness of their arguments, used by the seriesness
// inference pass.
var seriesProducers = map[string]bool{
	"ta.sma": true, "ta.ema": true, "ta.rma": true, "ta.wma": true, "ta.vwma": true,
	"ta.stdev": true, "ta.variance": true, "ta.highest": true, "ta.lowest": true,
	"ta.rsi": true, "ta.macd": true, "ta.atr": true, "ta.tr": true,
	"ta.crossover": true, "ta.crossunder": true, "ta.cross": true, "ta.change": true,
	"ta.cum": true, "ta.barssince": true, "ta.valuewhen": true,
	"ta.pivothigh": true, "ta.pivotlow": true,
}

// ohlcvIdentifiers are the always-series bare identifiers (spec.md's
// "implicit bar series" built-ins).
var ohlcvIdentifiers = map[string]bool{
	"open": true, "high": true, "low": true, "close": true, "volume": true,
	"hl2": true, "hlc3": true, "ohlc4": true, "hlcc4": true, "time": true,
	"bar_index": true,
	"year": true, "month": true, "dayofmonth": true, "dayofweek": true,
	"hour": true, "minute": true,
}
