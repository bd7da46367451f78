package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/deepentropy/pine2go/pkg/pine/runtime"
)

// Run executes every manifest entry against bars, returning one Comparison
// per entry in manifest order. manifestDir anchors each entry's Reference
// path (manifests are written relative to the directory they live in).
func Run(manifest *Manifest, manifestDir string, bars []runtime.Bar) ([]Comparison, error) {
	results := make([]Comparison, 0, len(manifest.Entries))

	for _, entry := range manifest.Entries {
		fn, ok := Lookup(entry.Name)
		if !ok {
			results = append(results, Comparison{Name: entry.Name, Pass: false, Detail: "not registered in catalog"})
			continue
		}

		refPath := entry.Reference
		if !filepath.IsAbs(refPath) {
			refPath = filepath.Join(manifestDir, refPath)
		}

		want, err := LoadReference(refPath)
		if err != nil {
			return nil, err
		}

		result := fn(bars, nil)
		results = append(results, Compare(entry.Name, result.Plots, want, entry.Tolerance))
	}

	return results, nil
}

// Summarize renders results as a fixed-width pass/fail table.
func Summarize(results []Comparison) string {
	out := ""
	for _, r := range results {
		status := "PASS"
		if !r.Pass {
			status = "FAIL"
		}

		out += fmt.Sprintf("%-4s %-24s maxDiff=%.3e %s\n", status, r.Name, r.MaxDiff, r.Detail)
	}

	return out
}
