// Package catalog implements the CSV regression harness: a YAML manifest of
// pre-transpiled indicators, each checked against a gzip-compressed
// reference CSV of expected plot values. This is explicitly peripheral to
// the transpiler core (spec.md's "catalog of pre-transpiled indicators used
// for regression testing against reference CSVs"), grounded on the
// teacher's own scenario/regression tooling idiom (pkg/cmd/test.go drives a
// similar "compile, run, compare against expectation" loop for constraint
// files).
package catalog

import "github.com/deepentropy/pine2go/pkg/pine/runtime"

// CalcFunc is the shape every pre-transpiled indicator's generated
// Calculate function has (spec.md §6.2): bars in, a populated Result out.
// Catalog entries are looked up by name against functions registered here
// rather than transpiled from source on every run, since the indicators
// this harness checks are already-generated, already-reviewed Go code, not
// scratch input.
type CalcFunc func(bars []runtime.Bar, inputs any) *runtime.Result

var registry = map[string]CalcFunc{}

// Register adds name's calculate function to the catalog registry. Called
// from each pre-transpiled indicator package's init().
func Register(name string, fn CalcFunc) {
	registry[name] = fn
}

// Lookup returns the registered CalcFunc for name, if any.
func Lookup(name string) (CalcFunc, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns every currently registered indicator name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	return names
}
