// Package indicators holds pre-transpiled catalog entries: generated-shape
// Go matching what pkg/pine/codegen would emit for the corresponding .pine
// source under catalog/sources, registered with pkg/catalog for the
// regression harness to exercise. Kept hand-written here (rather than
// produced by a transpile step at catalog-build time) since the harness
// checks the generated-code *contract*, not the transpiler itself.
package indicators

import (
	"github.com/deepentropy/pine2go/pkg/catalog"
	"github.com/deepentropy/pine2go/pkg/pine/runtime"
	"github.com/deepentropy/pine2go/pkg/pine/runtime/ta"
)

// SMACrossInputs holds the declared input.* values for one SMACrossCalculate run.
type SMACrossInputs struct {
	FastLength float64
	SlowLength float64
}

// SMACrossDefaultInputs returns the SMACrossInputs value implied by the source's declared
// defval arguments.
func SMACrossDefaultInputs() *SMACrossInputs {
	return &SMACrossInputs{
		FastLength: 9,
		SlowLength: 21,
	}
}

// SMACrossCalculate runs the translated indicator over bars, returning its plots
// and metadata per the generated-program contract.
func SMACrossCalculate(bars []runtime.Bar, inputs *SMACrossInputs) *runtime.Result {
	if inputs == nil {
		inputs = SMACrossDefaultInputs()
	}

	ctx := runtime.NewContext(bars)

	plot0 := ta.SMA(ctx.Close, inputs.FastLength)
	plot1 := ta.SMA(ctx.Close, inputs.SlowLength)

	return &runtime.Result{
		Metadata: runtime.Metadata{Title: "SMA Cross", Overlay: true},
		Plots: map[string][]runtime.PlotPoint{
			"plot0": runtime.PlotPoints(bars, plot0),
			"plot1": runtime.PlotPoints(bars, plot1),
		},
		PlotConfigs: []runtime.PlotConfig{
			{ID: "plot0", Title: "Fast SMA", Color: "#00FF00", LineWidth: 2},
			{ID: "plot1", Title: "Slow SMA", Color: "#FF0000", LineWidth: 2},
		},
	}
}

func init() {
	catalog.Register("sma-cross", func(bars []runtime.Bar, inputs any) *runtime.Result {
		typed, _ := inputs.(*SMACrossInputs)
		return SMACrossCalculate(bars, typed)
	})
}
