package errfmt

import "sort"

const (
	similarityThreshold = 0.5
	maxSuggestions      = 3
)

// scoredCandidate pairs a known identifier with its similarity to the
// requested one, mirroring the recommender package's score-then-sort-
// then-limit shape.
type scoredCandidate struct {
	value      string
	similarity float64
}

// suggestions returns up to maxSuggestions known identifiers whose
// similarity to requested exceeds similarityThreshold, most similar
// first; ties break lexicographically for determinism.
func suggestions(requested string, known []string) []string {
	var scored []scoredCandidate
	for _, k := range known {
		if k == requested {
			continue
		}
		s := similarity(requested, k)
		if s > similarityThreshold {
			scored = append(scored, scoredCandidate{value: k, similarity: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].similarity != scored[j].similarity {
			return scored[i].similarity > scored[j].similarity
		}
		return scored[i].value < scored[j].value
	})

	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	out := make([]string, len(scored))
	for i, c := range scored {
		out[i] = c.value
	}
	return out
}

// bestSuggestion returns the single closest match to value among
// candidates, or "" if none exceeds similarityThreshold — used for the
// invalid-enum fuzzy hint, which surfaces exactly one suggestion.
func bestSuggestion(value string, candidates []string) string {
	s := suggestions(value, candidates)
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
