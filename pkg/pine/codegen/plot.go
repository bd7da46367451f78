package codegen

import (
	"fmt"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
	"github.com/deepentropy/pine2go/pkg/pine/mapper"
)

// emitPlot lowers one `plot(...)` call statement: the plotted series gets a
// Go binding under its sequential id ("plot0", "plot1", ...), in source
// order (spec.md §4.3's "plot/fill translation" rule), and the resolved
// metadata is recorded onto the program for the Calculate prelude to
// assemble into the generated program's Result.
func (g *generator) emitPlot(call *ast.Node) {
	id := fmt.Sprintf("plot%d", g.plotSeq)
	g.plotSeq++

	var series *ast.Node
	if len(call.Children) > 0 {
		series = call.Children[0]
	}

	g.e.line("%s := %s", id, genExpr(series, g.analysis))

	cfg := ast.PlotConfig{ID: id}

	for _, p := range call.Params {
		switch p.Name {
		case "title":
			if s, ok := literalString(p.DefaultValue); ok {
				cfg.Title = s
			}
		case "color":
			if hex, ok := literalColor(p.DefaultValue); ok {
				cfg.Color = hex
			} else {
				cfg.HasVisible = true
				cfg.Visible = p.DefaultValue
			}
		case "linewidth":
			if v, ok := literalInt(p.DefaultValue); ok {
				cfg.LineWidth = v
			}
		case "display":
			cfg.Display = displayName(p.DefaultValue)
		case "offset":
			if v, ok := literalInt(p.DefaultValue); ok {
				cfg.HasOffset = true
				cfg.Offset = v
			} else {
				g.program.Warnf(ast.WarnNonLiteralOffset, "%s: non-literal plot offset ignored", id)
			}
		}
	}

	g.program.PlotConfigs = append(g.program.PlotConfigs, cfg)
	g.program.PlotVariables[id] = series
}

// emitFill lowers one `fill(plot1, plot2, ...)` call statement.
func (g *generator) emitFill(call *ast.Node) {
	id := fmt.Sprintf("fill%d", g.fillSeq)
	g.fillSeq++

	cfg := ast.FillConfig{ID: id}

	if len(call.Children) > 0 {
		cfg.Plot1 = genExpr(call.Children[0], g.analysis)
	}

	if len(call.Children) > 1 {
		cfg.Plot2 = genExpr(call.Children[1], g.analysis)
	}

	for _, p := range call.Params {
		switch p.Name {
		case "title":
			if s, ok := literalString(p.DefaultValue); ok {
				cfg.Title = s
			}
		case "color":
			if hex, ok := literalColor(p.DefaultValue); ok {
				cfg.Color = hex
			} else {
				cfg.HasVisible = true
				cfg.Visible = p.DefaultValue
			}
		}
	}

	g.program.FillConfigs = append(g.program.FillConfigs, cfg)
}

func literalString(n *ast.Node) (string, bool) {
	if n == nil || n.Kind != ast.StringLit {
		return "", false
	}

	s, ok := n.Value.(string)

	return s, ok
}

func literalInt(n *ast.Node) (int, bool) {
	if n == nil || n.Kind != ast.NumberLit {
		return 0, false
	}

	v, ok := n.Value.(float64)
	if !ok {
		return 0, false
	}

	return int(v), true
}

// literalColor resolves a literal color argument (a hex ColorLit or a
// color.* MemberExpr) to its hex string; non-literal expressions (e.g. a
// ternary choosing between two colors) are reported as not-literal so the
// caller can fall back to the PlotConfig.Visible expression slot.
func literalColor(n *ast.Node) (string, bool) {
	if n == nil {
		return "", false
	}

	switch n.Kind {
	case ast.ColorLit:
		s, ok := n.Value.(string)
		return s, ok
	case ast.MemberExpr:
		hex, ok := mapper.ColorNames[n.Name]
		return hex, ok
	case ast.Identifier:
		hex, ok := mapper.ColorNames["color."+n.Name]
		return hex, ok
	default:
		return "", false
	}
}

// displayName extracts the display.* suffix from a MemberExpr argument
// (e.g. "display.none" -> "none"); falls back to the empty string for any
// non-literal display expression.
func displayName(n *ast.Node) string {
	if n == nil {
		return ""
	}

	if n.Kind == ast.MemberExpr {
		parts := n.Name
		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] == '.' {
				return parts[i+1:]
			}
		}

		return parts
	}

	if s, ok := literalString(n); ok {
		return s
	}

	return ""
}
