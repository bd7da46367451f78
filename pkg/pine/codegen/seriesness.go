package codegen

import (
	"github.com/deepentropy/pine2go/pkg/pine/analyzer"
	"github.com/deepentropy/pine2go/pkg/pine/ast"
)

// ohlcvSeries duplicates analyzer's ohlcvIdentifiers table (unexported
// there); codegen needs the same classification to decide whether an
// identifier reads from ctx.Open/.../ctx.Close rather than a local Series
// variable.
var ohlcvSeries = map[string]string{
	"open": "ctx.Open", "high": "ctx.High", "low": "ctx.Low",
	"close": "ctx.Close", "volume": "ctx.Volume", "time": "ctx.Time",
	"bar_index": "ctx.BarIndex",
	"hl2": "ctx.Hl2", "hlc3": "ctx.Hlc3", "ohlc4": "ctx.Ohlc4", "hlcc4": "ctx.Hlcc4",
	"year": "ctx.Year", "month": "ctx.Month", "hour": "ctx.Hour", "minute": "ctx.Minute",
	"dayofmonth": "ctx.DayOfMonth", "dayofweek": "ctx.DayOfWeek",
}

var seriesProducerCalls = map[string]bool{
	"ta.sma": true, "ta.ema": true, "ta.rma": true, "ta.wma": true, "ta.vwma": true,
	"ta.stdev": true, "ta.variance": true, "ta.highest": true, "ta.lowest": true,
	"ta.rsi": true, "ta.macd": true, "ta.atr": true, "ta.tr": true,
	"ta.crossover": true, "ta.crossunder": true, "ta.cross": true, "ta.change": true,
	"ta.cum": true, "ta.barssince": true, "ta.valuewhen": true,
	"ta.pivothigh": true, "ta.pivotlow": true,
}

// isSeries reports whether n evaluates to a *runtime.Series, mirroring the
// inference rules analyzer.Analyze already applied when building
// analysis.SeriesVariables (re-derived here rather than threaded through
// because codegen needs it at a per-node, not just per-declaration,
// granularity).
func isSeries(n *ast.Node, analysis *analyzer.Result) bool {
	if n == nil {
		return false
	}

	switch n.Kind {
	case ast.Identifier:
		if _, ok := ohlcvSeries[n.Name]; ok {
			return true
		}

		return analysis.SeriesVariables[n.Name]
	case ast.BinaryExpr:
		return isSeries(n.Children[0], analysis) || isSeries(n.Children[1], analysis)
	case ast.UnaryExpr:
		return isSeries(n.Children[0], analysis)
	case ast.TernaryExpr:
		return isSeries(n.Children[1], analysis) || isSeries(n.Children[2], analysis)
	case ast.HistoryAccess:
		return true
	case ast.FunctionCall:
		if seriesProducerCalls[n.Name] {
			return true
		}

		if ret, ok := analysis.FunctionReturnsSeries[n.Name]; ok {
			return ret
		}

		for _, c := range n.Children {
			if isSeries(c, analysis) {
				return true
			}
		}

		return false
	case ast.MethodCallExpr:
		return isSeries(n.Children[0], analysis)
	default:
		return false
	}
}
