package analyzer

import (
	"sort"

	"github.com/agext/levenshtein"
)

// suggest returns the closest candidate to name (by Levenshtein distance),
// or "" if nothing is close enough to be worth mentioning. Used to build
// "did you mean 'x'?" text on UNDEFINED_VARIABLE errors.
func suggest(name string, candidates []string) string {
	type scored struct {
		name string
		dist int
	}

	var scoredCandidates []scored

	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		scoredCandidates = append(scoredCandidates, scored{c, d})
	}

	sort.Slice(scoredCandidates, func(i, j int) bool {
		return scoredCandidates[i].dist < scoredCandidates[j].dist
	})

	if len(scoredCandidates) == 0 {
		return ""
	}

	best := scoredCandidates[0]

	// Only suggest when the edit distance is small relative to the name's
	// length - otherwise the candidate is probably unrelated.
	threshold := len(name)/2 + 1
	if best.dist > threshold {
		return ""
	}

	return best.name
}
