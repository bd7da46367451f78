package runtime

// Metadata carries the indicator()/library() declaration's title and
// overlay flag through to the generated program's result.
type Metadata struct {
	Title   string
	Overlay bool
}

// PlotPoint is one {time, value} sample of a plotted series.
type PlotPoint struct {
	Time  int64
	Value float64
}

// PlotPoints zips a bar sequence with a plotted series into the
// {time, value} pairs the surrounding chart UI consumes.
func PlotPoints(bars []Bar, s *Series) []PlotPoint {
	out := make([]PlotPoint, len(bars))

	for i, b := range bars {
		out[i] = PlotPoint{Time: b.Time, Value: s.Get(i)}
	}

	return out
}

// PlotConfig is one resolved `plot(...)` call's static metadata.
type PlotConfig struct {
	ID        string
	Title     string
	Color     string
	LineWidth int
	Display   string
	HasOffset bool
	Offset    int
}

// FillConfig is one resolved `fill(...)` call's static metadata, plus the
// two plotted series it shades between.
type FillConfig struct {
	ID    string
	Plot1 *Series
	Plot2 *Series
	Color string
	Title string
}

// Result is the generated program's complete calculate() output (spec.md
// §6.2).
type Result struct {
	Metadata    Metadata
	Plots       map[string][]PlotPoint
	PlotConfigs []PlotConfig
	FillConfigs []FillConfig
}

// Label, Line, Box and Table are unimplemented drawing-primitive stubs:
// spec.md's Non-goals exclude "drawing primitives beyond stubs", so these
// exist only so user `type` fields and plot()/input.* calls that reference
// them still type-check.
type Label struct{}

type Line struct{}

type Box struct{}

type Table struct{}
